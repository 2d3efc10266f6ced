package macrocell

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type countingPersist struct {
	Persist
	loads, stores int
}

func (c *countingPersist) Store(ctx context.Context, name string, value []byte) error {
	c.stores++
	return c.Persist.Store(ctx, name, value)
}

func (c *countingPersist) Load(ctx context.Context, name string) ([]byte, error) {
	c.loads++
	return c.Persist.Load(ctx, name)
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	b := boardOf(glider...).WithCell(Point{-300, 20}, true)
	names := map[string]Format{}
	for _, format := range []Format{TextFormat, BinaryFormat} {
		s := &Store{Persist: NewInMemoryStore(), Format: format}
		name, err := s.Save(ctx, b)
		require.NoError(t, err)
		again, err := s.Save(ctx, boardOf(append([]Point{{-300, 20}}, glider...)...))
		require.NoError(t, err)
		assert.Equal(t, name, again, "%v names depend on content only", format)
		names[name] = format

		loaded, err := s.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, cellsOf(b), cellsOf(loaded))
	}
	assert.Len(t, names, 2)
}

func TestStoreLoadFailures(t *testing.T) {
	t.Parallel()
	persist := NewInMemoryStore()
	s := &Store{Persist: persist}

	_, err := s.Load(ctx, "missing")
	assert.ErrorContains(t, err, "persist load missing")

	require.NoError(t, persist.Store(ctx, "bogus", []byte("[M2]\n")))
	_, err = s.Load(ctx, "bogus")
	assert.ErrorContains(t, err, "hashes to")

	dangling := []byte("[M2]\n4 9 0 0 0\n")
	name := ContentName(dangling)
	require.NoError(t, persist.Store(ctx, name, dangling))
	_, err = s.Load(ctx, name)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestStoreLogsWarnings(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	persist := NewInMemoryStore()
	s := &Store{Persist: persist, Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	content := []byte("[M2]\n\n*$\n")
	name := ContentName(content)
	require.NoError(t, persist.Store(ctx, name, content))
	b, err := s.Load(ctx, name)
	require.NoError(t, err)
	assert.True(t, b.Alive(Point{}))
	assert.Contains(t, logs.String(), "stored board has warnings")
	assert.Contains(t, logs.String(), "blank line")
}

func TestStoreCache(t *testing.T) {
	t.Parallel()
	persist := &countingPersist{Persist: NewInMemoryStore()}
	cache := NewNodeCache(50)
	s := &Store{Persist: persist, NodeCache: cache}
	b := boardOf(glider...).WithCell(Point{64, 64}, true)

	name, err := s.Save(ctx, b)
	require.NoError(t, err)
	_, err = s.Save(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 1, persist.stores)

	loaded, err := s.Load(ctx, name)
	require.NoError(t, err)
	assert.Same(t, b.Root(), loaded.Root())
	assert.Zero(t, persist.loads)

	fresh := &Store{Persist: persist, NodeCache: NewNodeCache(50)}
	first, err := fresh.Load(ctx, name)
	require.NoError(t, err)
	second, err := fresh.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, 1, persist.loads)
	assert.Same(t, first.Root(), second.Root())
	assert.True(t, first.AliveCells().Equal(b.AliveCells()))
}
