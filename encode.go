package macrocell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// Header starts the first line of every macrocell text.
	Header = "[M2]"
	// headerLine is what Encode writes as the first line.
	headerLine = Header + " (jrhy/macrocell)"
	// positionDirective introduces the global position of the encoded root.
	positionDirective = "#P"
)

type textSink struct {
	emit  func(string) error
	lines int
}

func (s *textSink) write(line string) error {
	if err := s.emit(line); err != nil {
		return err
	}
	s.lines++
	return nil
}

func (s *textSink) leaf(leaf LeafBlock) error {
	return s.write(formatLeaf(leaf))
}

func (s *textSink) node(level uint8, refs [4]int) error {
	return s.write(fmt.Sprintf("%d %d %d %d %d", level, refs[NW], refs[NE], refs[SW], refs[SE]))
}

// formatLeaf renders a leaf block row by row: '*' alive, '.' dead, '$' ends
// a row. Trailing dead cells and trailing empty rows are left out.
func formatLeaf(leaf LeafBlock) string {
	var rows [LeafSide]string
	last := 0
	for y := 0; y < LeafSide; y++ {
		row := make([]byte, 0, LeafSide)
		end := 0
		for x := 0; x < LeafSide; x++ {
			if leaf.Contains(Point{x, y}) {
				row = append(row, '*')
				end = len(row)
			} else {
				row = append(row, '.')
			}
		}
		rows[y] = string(row[:end])
		if end > 0 {
			last = y
		}
	}
	var sb strings.Builder
	for _, row := range rows[:last+1] {
		sb.WriteString(row)
		sb.WriteByte('$')
	}
	return sb.String()
}

// Encode writes the board as macrocell text, one line per call to emit and
// without line terminators. Identical subtrees are written once and referred
// to by index. An empty board is the header alone; a board whose cells fit
// one leaf block is written as that single leaf line.
func Encode(b Board, emit func(line string) error) error {
	sink := &textSink{emit: emit}
	err := encodeText(b, sink)
	linesEncoded.Add(float64(sink.lines))
	return err
}

func encodeText(b Board, sink *textSink) error {
	if err := sink.write(headerLine); err != nil {
		return err
	}
	root, at := trim(b.node(), b.offset)
	if root.Size() == 0 {
		return nil
	}
	writePosition := func(at Point) error {
		if at == (Point{}) {
			return nil
		}
		return sink.write(fmt.Sprintf("%s %d %d", positionDirective, at.X, at.Y))
	}
	if n, ok := root.(*LeafNode); ok {
		if q, single := singleLeaf(n); single {
			if err := writePosition(at.Add(q.corner(LeafSide))); err != nil {
				return err
			}
			return sink.leaf(n.leaves[q])
		}
	}
	if err := writePosition(at); err != nil {
		return err
	}
	_, err := newRecordEncoder(sink).encode(root)
	return err
}

// singleLeaf reports the quadrant of the only non-empty leaf block of n.
func singleLeaf(n *LeafNode) (Quadrant, bool) {
	found := -1
	for q, leaf := range n.leaves {
		if leaf == 0 {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = q
	}
	return Quadrant(found), found >= 0
}

// EncodeTo writes the board as newline-terminated macrocell text.
func EncodeTo(w io.Writer, b Board) error {
	bw := bufio.NewWriter(w)
	err := Encode(b, func(line string) error {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return bw.Flush()
}

// EncodeLines returns the macrocell text of the board as a slice of lines.
func EncodeLines(b Board) []string {
	var lines []string
	_ = Encode(b, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines
}
