package macrocell

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeOptions tunes decoding. The zero value is ready to use.
type DecodeOptions struct {
	// NodeCache, if set, interns decoded nodes by structure so that equal
	// subtrees from different decodes share one instance.
	NodeCache NodeCache
}

// Decoded is a successfully decoded board plus any warnings.
type Decoded struct {
	Board    Board
	Warnings []Diagnostic
}

type lineDecoder struct {
	asm          *recordAssembler
	offset       Point
	warnings     []Diagnostic
	errors       []Diagnostic
	pendingBlank []int
	lines        int
	stopped      bool
}

func newLineDecoder(opts *DecodeOptions) *lineDecoder {
	var cache NodeCache
	if opts != nil {
		cache = opts.NodeCache
	}
	return &lineDecoder{asm: newRecordAssembler(cache)}
}

func (d *lineDecoder) warn(kind DiagnosticKind, line, start, end int, format string, args ...interface{}) {
	d.warnings = append(d.warnings, Diagnostic{kind, line, start, end, fmt.Sprintf(format, args...)})
}

func (d *lineDecoder) fail(kind DiagnosticKind, line, start, end int, format string, args ...interface{}) {
	d.errors = append(d.errors, Diagnostic{kind, line, start, end, fmt.Sprintf(format, args...)})
}

// decodeLine consumes one line and reports whether decoding can go on.
func (d *lineDecoder) decodeLine(text string) bool {
	n := d.lines
	d.lines++
	if n == 0 {
		if !strings.HasPrefix(text, Header) {
			d.fail(BadHeader, 0, 0, len(text), "expected first line to start with %q", Header)
			d.stopped = true
		}
		return !d.stopped
	}
	if strings.TrimSpace(text) == "" {
		d.pendingBlank = append(d.pendingBlank, n)
		return true
	}
	for _, blank := range d.pendingBlank {
		d.warn(BlankLine, blank, 0, 0, "blank line before end of input")
	}
	d.pendingBlank = d.pendingBlank[:0]

	trimmed := strings.TrimLeft(text, " \t")
	switch {
	case strings.HasPrefix(trimmed, positionDirective+" ") || strings.HasPrefix(trimmed, positionDirective+"\t"):
		d.decodePosition(n, text)
	case strings.HasPrefix(trimmed, "#"):
	case trimmed[0] >= '0' && trimmed[0] <= '9':
		d.decodeNode(n, text)
	default:
		d.decodeLeaf(n, text)
	}
	return !d.stopped
}

func (d *lineDecoder) decodePosition(n int, text string) {
	spans := fieldSpans(text)
	if len(spans) != 3 {
		d.warn(MalformedPosition, n, 0, len(text), "expected %s x y", positionDirective)
		return
	}
	var xy [2]int
	for i, s := range spans[1:] {
		v, err := strconv.Atoi(text[s.start:s.end])
		if err != nil {
			d.warn(MalformedPosition, n, s.start, s.end, "bad coordinate %q", text[s.start:s.end])
			return
		}
		xy[i] = v
	}
	d.offset = Point{xy[0], xy[1]}
}

func (d *lineDecoder) decodeLeaf(n int, text string) {
	var leaf LeafBlock
	x, y := 0, 0
	overflowed := false
	for i, r := range text {
		switch r {
		case '.':
			x++
		case '*':
			if mask, ok := leafMask(Point{x, y}); ok {
				leaf |= mask
			} else if !overflowed {
				d.warn(LeafOverflow, n, i, i+1, "cell (%d,%d) is outside the %dx%d leaf", x, y, LeafSide, LeafSide)
				overflowed = true
			}
			x++
		case '$':
			x = 0
			y++
		default:
			d.warn(UnexpectedCharacter, n, i, i+utf8.RuneLen(r), "unexpected %q in leaf line", r)
		}
	}
	d.asm.addLeaf(leaf)
}

func (d *lineDecoder) decodeNode(n int, text string) {
	spans := fieldSpans(text)
	if len(spans) != 5 {
		d.fail(MalformedNode, n, 0, len(text), "expected 5 fields (level nw ne sw se), found %d", len(spans))
		d.asm.skip()
		return
	}
	var values [5]int
	for i, s := range spans {
		field := text[s.start:s.end]
		v, err := strconv.Atoi(field)
		if err != nil || v < 0 || field[0] < '0' || field[0] > '9' {
			d.fail(MalformedNode, n, s.start, s.end, "%q is not a non-negative integer", field)
			d.asm.skip()
			return
		}
		values[i] = v
	}
	if values[0] < int(MinLevel) || values[0] > int(MaxLevel) {
		d.fail(InvalidLevel, n, spans[0].start, spans[0].end, "level %d is outside [%d, %d]", values[0], MinLevel, MaxLevel)
		d.asm.skip()
		return
	}
	refs := [4]int{values[1], values[2], values[3], values[4]}
	if _, rerr := d.asm.addNode(uint8(values[0]), refs); rerr != nil {
		s := spans[0]
		if rerr.field >= 0 {
			s = spans[rerr.field+1]
		}
		d.fail(UnresolvedReference, n, s.start, s.end, "%s", rerr.msg)
		d.stopped = true
	}
}

type span struct{ start, end int }

// fieldSpans splits a line on spaces and tabs, keeping byte offsets.
func fieldSpans(text string) []span {
	var spans []span
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' || text[i] == '\t' {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

func (d *lineDecoder) finish() (*Decoded, error) {
	if d.lines == 0 {
		d.fail(BadHeader, 0, 0, 0, "empty input, expected %q", Header)
	}
	if !d.stopped && len(d.pendingBlank) > 1 {
		for _, blank := range d.pendingBlank[:len(d.pendingBlank)-1] {
			d.warn(BlankLine, blank, 0, 0, "blank line before end of input")
		}
	}
	if len(d.errors) > 0 {
		decodesTotal.WithLabelValues("failed").Inc()
		return nil, &FormatError{Warnings: d.warnings, Errors: d.errors}
	}
	decodesTotal.WithLabelValues("ok").Inc()
	root, ok := d.asm.root()
	if !ok {
		return &Decoded{Board: NewBoard(), Warnings: d.warnings}, nil
	}
	return &Decoded{Board: NewBoardAt(d.offset, root), Warnings: d.warnings}, nil
}

// Decode reads macrocell text one line at a time. Malformed content never
// panics: problems are collected as diagnostics, and if any of them is an
// error the result is a *FormatError holding all warnings and errors.
func Decode(lines iter.Seq[string], opts *DecodeOptions) (*Decoded, error) {
	d := newLineDecoder(opts)
	for line := range lines {
		if !d.decodeLine(line) {
			break
		}
	}
	return d.finish()
}

// DecodeReader is Decode over newline-separated text. Read failures are
// returned as they are, not as a *FormatError.
func DecodeReader(r io.Reader, opts *DecodeOptions) (*Decoded, error) {
	d := newLineDecoder(opts)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !d.decodeLine(strings.TrimSuffix(scanner.Text(), "\r")) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return d.finish()
}

// DecodeLines is Decode over a slice of lines.
func DecodeLines(lines []string, opts *DecodeOptions) (*Decoded, error) {
	return Decode(func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}, opts)
}
