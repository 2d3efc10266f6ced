package macrocell

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// The binary form is a protobuf-compatible record stream:
//
//	message Board {
//	  sint64 offset_x = 1;
//	  sint64 offset_y = 2;
//	  repeated fixed64 leaf = 3;  // interleaved with node, in index order
//	  repeated Node node = 4;
//	}
//	message Node { uint32 level = 1; uint64 nw = 2; uint64 ne = 3; uint64 sw = 4; uint64 se = 5; }
//
// Leaves and nodes share the 1-based index space of the text format, and the
// root is the last record.
const (
	fieldOffsetX protowire.Number = 1
	fieldOffsetY protowire.Number = 2
	fieldLeaf    protowire.Number = 3
	fieldNode    protowire.Number = 4

	fieldNodeLevel protowire.Number = 1
	fieldNodeNW    protowire.Number = 2
)

type binarySink struct {
	buf []byte
}

func (s *binarySink) leaf(leaf LeafBlock) error {
	s.buf = protowire.AppendTag(s.buf, fieldLeaf, protowire.Fixed64Type)
	s.buf = protowire.AppendFixed64(s.buf, uint64(leaf))
	return nil
}

func (s *binarySink) node(level uint8, refs [4]int) error {
	var msg []byte
	msg = protowire.AppendTag(msg, fieldNodeLevel, protowire.VarintType)
	msg = protowire.AppendVarint(msg, uint64(level))
	for q, ref := range refs {
		if ref == 0 {
			continue
		}
		msg = protowire.AppendTag(msg, fieldNodeNW+protowire.Number(q), protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(ref))
	}
	s.buf = protowire.AppendTag(s.buf, fieldNode, protowire.BytesType)
	s.buf = protowire.AppendBytes(s.buf, msg)
	return nil
}

// MarshalBinary encodes the board in the compact binary record form.
func (b Board) MarshalBinary() ([]byte, error) {
	root, at := trim(b.node(), b.offset)
	sink := &binarySink{}
	sink.buf = protowire.AppendTag(sink.buf, fieldOffsetX, protowire.VarintType)
	sink.buf = protowire.AppendVarint(sink.buf, protowire.EncodeZigZag(int64(at.X)))
	sink.buf = protowire.AppendTag(sink.buf, fieldOffsetY, protowire.VarintType)
	sink.buf = protowire.AppendVarint(sink.buf, protowire.EncodeZigZag(int64(at.Y)))
	if _, err := newRecordEncoder(sink).encode(root); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return sink.buf, nil
}

var errTruncated = errors.New("truncated record")

// UnmarshalBinary replaces the board with the one encoded in data.
func (b *Board) UnmarshalBinary(data []byte) error {
	board, err := DecodeBinary(data, nil)
	if err != nil {
		return err
	}
	*b = board
	return nil
}

// DecodeBinary decodes the binary record form produced by MarshalBinary.
func DecodeBinary(data []byte, opts *DecodeOptions) (Board, error) {
	var cache NodeCache
	if opts != nil {
		cache = opts.NodeCache
	}
	asm := newRecordAssembler(cache)
	var offset Point
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Board{}, fmt.Errorf("tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch {
		case (num == fieldOffsetX || num == fieldOffsetY) && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Board{}, fmt.Errorf("offset: %w", protowire.ParseError(n))
			}
			data = data[n:]
			if num == fieldOffsetX {
				offset.X = int(protowire.DecodeZigZag(v))
			} else {
				offset.Y = int(protowire.DecodeZigZag(v))
			}
		case num == fieldLeaf && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return Board{}, fmt.Errorf("leaf %d: %w", asm.next, protowire.ParseError(n))
			}
			data = data[n:]
			asm.addLeaf(LeafBlock(v))
		case num == fieldNode && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Board{}, fmt.Errorf("node %d: %w", asm.next, protowire.ParseError(n))
			}
			data = data[n:]
			index := asm.next
			level, refs, err := parseNodeRecord(msg)
			if err != nil {
				return Board{}, fmt.Errorf("node %d: %w", index, err)
			}
			if _, rerr := asm.addNode(level, refs); rerr != nil {
				return Board{}, fmt.Errorf("node %d: %s", index, rerr.msg)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Board{}, fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	root, ok := asm.root()
	if !ok {
		return NewBoard(), nil
	}
	return NewBoardAt(offset, root), nil
}

func parseNodeRecord(msg []byte) (uint8, [4]int, error) {
	var level uint64
	var refs [4]int
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return 0, refs, protowire.ParseError(n)
		}
		msg = msg[n:]
		if typ != protowire.VarintType {
			n = protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return 0, refs, protowire.ParseError(n)
			}
			msg = msg[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(msg)
		if n < 0 {
			return 0, refs, errTruncated
		}
		msg = msg[n:]
		switch {
		case num == fieldNodeLevel:
			level = v
		case num >= fieldNodeNW && num < fieldNodeNW+4:
			refs[num-fieldNodeNW] = int(v)
		}
	}
	if level < uint64(MinLevel) || level > uint64(MaxLevel) {
		return 0, refs, fmt.Errorf("level %d is outside [%d, %d]", level, MinLevel, MaxLevel)
	}
	return uint8(level), refs, nil
}
