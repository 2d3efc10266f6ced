package s3_test

import (
	"context"
	"testing"

	"github.com/jrhy/macrocell"
	s3Persist "github.com/jrhy/macrocell/persist/s3"
	"github.com/jrhy/macrocell/persist/s3test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyCase(t *testing.T) {
	t.Parallel()
	c, bucketName, closer := s3test.Client()
	defer closer()

	p := s3Persist.NewPersist(c, bucketName, "")
	err := p.Store(context.Background(), "foofoo", []byte("here is some stuff"))
	require.NoError(t, err)
	b, err := p.Load(context.Background(), "foofoo")
	require.NoError(t, err)
	assert.Equal(t, []byte("here is some stuff"), b)
}

func TestMissingObject(t *testing.T) {
	t.Parallel()
	c, bucketName, closer := s3test.Client()
	defer closer()

	p := s3Persist.NewPersist(c, bucketName, "boards/")
	_, err := p.Load(context.Background(), "nope")
	require.Error(t, err)
}

func TestStoreBoardBinary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, bucketName, closer := s3test.Client()
	defer closer()

	store := macrocell.Store{
		Persist:   s3Persist.NewPersist(c, bucketName, "boards/"),
		Format:    macrocell.BinaryFormat,
		NodeCache: macrocell.NewNodeCache(64),
	}
	board := macrocell.FromGrid(macrocell.NewPointSet(
		macrocell.Point{X: 0, Y: 0},
		macrocell.Point{X: 40, Y: 3},
		macrocell.Point{X: 7, Y: 90},
	))
	name, err := store.Save(ctx, board)
	require.NoError(t, err)

	// a fresh store has to go to S3
	fresh := macrocell.Store{Persist: s3Persist.NewPersist(c, bucketName, "boards/")}
	loaded, err := fresh.Load(ctx, name)
	require.NoError(t, err)
	assert.True(t, board.AliveCells().Equal(loaded.AliveCells()))
}
