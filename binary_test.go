package macrocell

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestBinaryRoundTrip(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	properties.Property("binary form keeps cells and position", prop.ForAll(
		func(ps []Point) bool {
			b := boardOf(ps...)
			data, err := b.MarshalBinary()
			if !assert.NoError(t, err) {
				return false
			}
			var decoded Board
			if !assert.NoError(t, decoded.UnmarshalBinary(data)) {
				return false
			}
			return assert.Equal(t, NewPointSet(ps...), cellsOf(decoded))
		},
		genPoints(-1000, 1000),
	))
	properties.TestingRun(t)
}

func TestBinaryEmpty(t *testing.T) {
	t.Parallel()
	data, err := NewBoard().MarshalBinary()
	require.NoError(t, err)
	b, err := DecodeBinary(data, nil)
	require.NoError(t, err)
	assert.Zero(t, b.AliveCells().Size())

	b, err = DecodeBinary(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, b.AliveCells().Size())
}

func TestBinaryDeduplicates(t *testing.T) {
	t.Parallel()
	ps := PointSet{}
	for i := 0; i < 16; i++ {
		for _, p := range glider {
			ps[p.Add(Point{i * 32, 0})] = struct{}{}
		}
	}
	b := FromGrid(ps)
	data, err := b.MarshalBinary()
	require.NoError(t, err)
	assert.Less(t, len(data), 100)
	decoded, err := DecodeBinary(data, &DecodeOptions{NodeCache: NewNodeCache(10)})
	require.NoError(t, err)
	assert.Equal(t, ps, cellsOf(decoded))
	assert.Equal(t, b.Offset(), decoded.Offset())
}

func TestBinarySkipsUnknownFields(t *testing.T) {
	t.Parallel()
	data, err := boardOf(glider...).OffsetBy(Point{-7, 3}).MarshalBinary()
	require.NoError(t, err)
	data = protowire.AppendTag(data[:len(data):len(data)], 15, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("ignored"))
	b, err := DecodeBinary(data, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{-7, 3}, b.Offset())
	assert.Equal(t, 5, b.AliveCells().Size())
}

func TestBinaryRejectsBadInput(t *testing.T) {
	t.Parallel()
	data, err := boardOf(glider...).WithCell(Point{40, 40}, true).MarshalBinary()
	require.NoError(t, err)
	_, err = DecodeBinary(data[:len(data)-1], nil)
	assert.Error(t, err)

	var bad []byte
	bad = protowire.AppendTag(bad, fieldLeaf, protowire.Fixed64Type)
	bad = protowire.AppendFixed64(bad, 1)
	var node []byte
	node = protowire.AppendTag(node, fieldNodeLevel, protowire.VarintType)
	node = protowire.AppendVarint(node, 5)
	node = protowire.AppendTag(node, fieldNodeNW, protowire.VarintType)
	node = protowire.AppendVarint(node, 1)
	bad = protowire.AppendTag(bad, fieldNode, protowire.BytesType)
	bad = protowire.AppendBytes(bad, node)
	_, err = DecodeBinary(bad, nil)
	assert.ErrorContains(t, err, "node 2")

	node = protowire.AppendTag(nil, fieldNodeLevel, protowire.VarintType)
	node = protowire.AppendVarint(node, 3)
	_, err = DecodeBinary(protowire.AppendBytes(protowire.AppendTag(nil, fieldNode, protowire.BytesType), node), nil)
	assert.ErrorContains(t, err, "level 3")
}
