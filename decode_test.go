package macrocell

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatError(t *testing.T, err error) *FormatError {
	t.Helper()
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "want *FormatError, got %v", err)
	return fe
}

func TestDecodeBadHeader(t *testing.T) {
	t.Parallel()
	decoded, err := DecodeLines([]string{"hello", "4 0 0 0 0"}, nil)
	assert.Nil(t, decoded)
	fe := formatError(t, err)
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, BadHeader, fe.Errors[0].Kind)
	assert.Equal(t, 0, fe.Errors[0].Line)
	assert.Contains(t, err.Error(), "bad header")

	_, err = DecodeLines(nil, nil)
	assert.Equal(t, BadHeader, formatError(t, err).Errors[0].Kind)
}

func TestDecodeUnresolvedReference(t *testing.T) {
	t.Parallel()
	_, err := DecodeLines([]string{"[M2]", "4 5 0 0 0"}, nil)
	fe := formatError(t, err)
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, Diagnostic{
		Kind:    UnresolvedReference,
		Line:    1,
		Start:   2,
		End:     3,
		Message: fe.Errors[0].Message,
	}, fe.Errors[0])

	// a node may not stand where a leaf is needed, nor skip a level
	_, err = DecodeLines([]string{"[M2]", "*$", "4 1 0 0 0", "5 0 0 0 1"}, nil)
	fe = formatError(t, err)
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, Diagnostic{UnresolvedReference, 3, 8, 9, fe.Errors[0].Message}, fe.Errors[0])

	_, err = DecodeLines([]string{"[M2]", "*$", "4 1 0 0 0", "6 2 0 0 0"}, nil)
	fe = formatError(t, err)
	assert.Equal(t, UnresolvedReference, fe.Errors[0].Kind)
	assert.Equal(t, 2, fe.Errors[0].Start)
}

func TestDecodeMalformedNode(t *testing.T) {
	t.Parallel()
	_, err := DecodeLines([]string{"[M2]", "*$", "4 1 0 0", "4 1 x 0 0", "99 0 0 0 0"}, nil)
	fe := formatError(t, err)
	require.Len(t, fe.Errors, 3)
	assert.Equal(t, MalformedNode, fe.Errors[0].Kind)
	assert.Equal(t, 2, fe.Errors[0].Line)
	assert.Equal(t, Diagnostic{MalformedNode, 3, 4, 5, fe.Errors[1].Message}, fe.Errors[1])
	assert.Equal(t, Diagnostic{InvalidLevel, 4, 0, 2, fe.Errors[2].Message}, fe.Errors[2])
	assert.Contains(t, err.Error(), "and 2 more errors")
}

func TestDecodeWarnings(t *testing.T) {
	t.Parallel()
	decoded, err := DecodeLines([]string{"[M2]", "", ".*x$", "# a comment", ""}, nil)
	require.NoError(t, err)
	require.Len(t, decoded.Warnings, 2)
	assert.Equal(t, Diagnostic{BlankLine, 1, 0, 0, decoded.Warnings[0].Message}, decoded.Warnings[0])
	assert.Equal(t, Diagnostic{UnexpectedCharacter, 2, 2, 3, decoded.Warnings[1].Message}, decoded.Warnings[1])
	assert.Equal(t, NewPointSet(Point{1, 0}), cellsOf(decoded.Board))

	decoded, err = DecodeLines([]string{"[M2]", "*$", "", "", ""}, nil)
	require.NoError(t, err)
	assert.Len(t, decoded.Warnings, 2)
}

func TestDecodeLeafOverflow(t *testing.T) {
	t.Parallel()
	decoded, err := DecodeLines([]string{"[M2]", "........**$"}, nil)
	require.NoError(t, err)
	require.Len(t, decoded.Warnings, 1)
	assert.Equal(t, Diagnostic{LeafOverflow, 1, 8, 9, decoded.Warnings[0].Message}, decoded.Warnings[0])
	assert.Zero(t, decoded.Board.AliveCells().Size())
}

func TestDecodePosition(t *testing.T) {
	t.Parallel()
	decoded, err := DecodeLines([]string{"[M2] from elsewhere", "#P -3 -1", ".*$..*$***$"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{-3, -1}, decoded.Board.Offset())
	assert.True(t, decoded.Board.Alive(Point{-2, -1}))

	decoded, err = DecodeLines([]string{"[M2]", "#P 1", "*$"}, nil)
	require.NoError(t, err)
	require.Len(t, decoded.Warnings, 1)
	assert.Equal(t, MalformedPosition, decoded.Warnings[0].Kind)
	assert.Equal(t, Point{}, decoded.Board.Offset())
}

func TestDecodeHeaderOnly(t *testing.T) {
	t.Parallel()
	decoded, err := DecodeLines([]string{"[M2]"}, nil)
	require.NoError(t, err)
	assert.Empty(t, decoded.Warnings)
	assert.Zero(t, decoded.Board.AliveCells().Size())
}

func TestDecodeReader(t *testing.T) {
	t.Parallel()
	decoded, err := DecodeReader(strings.NewReader("[M2]\r\n.*$\r\n*$\r\n4 1 0 2 0\r\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, decoded.Warnings)
	assert.Equal(t, NewPointSet(Point{1, 0}, Point{0, 8}), cellsOf(decoded.Board))
}

func TestDecodeInternsNodes(t *testing.T) {
	t.Parallel()
	lines := EncodeLines(boardOf(glider...).WithCell(Point{100, 100}, true))
	opts := &DecodeOptions{NodeCache: NewNodeCache(100)}
	first, err := DecodeLines(lines, opts)
	require.NoError(t, err)
	second, err := DecodeLines(lines, opts)
	require.NoError(t, err)
	assert.Same(t, first.Board.Root(), second.Board.Root())

	third, err := DecodeLines(lines, nil)
	require.NoError(t, err)
	assert.NotSame(t, first.Board.Root(), third.Board.Root())
	assert.True(t, Equal(first.Board.Root(), third.Board.Root()))
}
