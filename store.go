package macrocell

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/minio/blake2b-simd"
)

// Persist is the interface for loading and storing serialized boards. The
// given string identity corresponds to the content, which is immutable.
type Persist interface {
	// Store makes the given bytes accessible by the given name.
	Store(context.Context, string, []byte) error
	// Load retrieves the previously-stored bytes by the given name.
	Load(context.Context, string) ([]byte, error)
}

// Format selects how a Store serializes boards.
type Format int

const (
	// TextFormat is the line-oriented macrocell text.
	TextFormat Format = iota
	// BinaryFormat is the protobuf-compatible record stream.
	BinaryFormat
)

func (f Format) String() string {
	switch f {
	case TextFormat:
		return "text"
	case BinaryFormat:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Store saves boards under content-derived names, so a board is only
// written once however often it is saved.
type Store struct {
	// Persist holds the serialized boards.
	Persist Persist
	// NodeCache, if set, caches loaded boards by name and interns their
	// nodes. It also remembers which names were already stored.
	NodeCache NodeCache
	// Format is used when saving; loading accepts either.
	Format Format
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (s *Store) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ContentName is the name a Store gives to serialized content.
func ContentName(content []byte) string {
	hashBytes := blake2b.Sum256(content)
	return base64.RawURLEncoding.EncodeToString(hashBytes[:])
}

func (s *Store) marshal(b Board) ([]byte, error) {
	if s.Format == BinaryFormat {
		return b.MarshalBinary()
	}
	var buf bytes.Buffer
	if err := EncodeTo(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save serializes the board and stores it, returning its name.
func (s *Store) Save(ctx context.Context, b Board) (string, error) {
	encoded, err := s.marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	name := ContentName(encoded)
	if s.NodeCache != nil && s.NodeCache.Contains(name) {
		boardsStored.WithLabelValues("cached").Inc()
		return name, nil
	}
	if err := s.Persist.Store(ctx, name, encoded); err != nil {
		return "", fmt.Errorf("persist store %s: %w", name, err)
	}
	if s.NodeCache != nil {
		s.NodeCache.Add(name, b)
	}
	boardsStored.WithLabelValues("stored").Inc()
	s.logger().Debug("stored board", "name", name, "format", s.Format, "bytes", len(encoded), "cells", b.node().Size())
	return name, nil
}

// Load retrieves the board stored under name, in either format.
func (s *Store) Load(ctx context.Context, name string) (Board, error) {
	if s.NodeCache != nil {
		if v, ok := s.NodeCache.Get(name); ok {
			if b, ok := v.(Board); ok {
				boardsLoaded.WithLabelValues("cache").Inc()
				return b, nil
			}
		}
	}
	encoded, err := s.Persist.Load(ctx, name)
	if err != nil {
		return Board{}, fmt.Errorf("persist load %s: %w", name, err)
	}
	if got := ContentName(encoded); got != name {
		return Board{}, fmt.Errorf("content of %s hashes to %s", name, got)
	}
	opts := &DecodeOptions{NodeCache: s.NodeCache}
	var b Board
	if bytes.HasPrefix(encoded, []byte(Header)) {
		decoded, err := DecodeReader(bytes.NewReader(encoded), opts)
		if err != nil {
			return Board{}, fmt.Errorf("decode %s: %w", name, err)
		}
		for _, w := range decoded.Warnings {
			s.logger().Warn("stored board has warnings", "name", name, "warning", w.String())
		}
		b = decoded.Board
	} else {
		b, err = DecodeBinary(encoded, opts)
		if err != nil {
			return Board{}, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	if s.NodeCache != nil {
		s.NodeCache.Add(name, b)
	}
	boardsLoaded.WithLabelValues("persist").Inc()
	s.logger().Debug("loaded board", "name", name, "bytes", len(encoded), "cells", b.node().Size())
	return b, nil
}
