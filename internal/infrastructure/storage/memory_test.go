package storage

import (
	"context"
	"testing"

	reviewapp "github.com/commtrack/backend/internal/application/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("put and get roundtrip", func(t *testing.T) {
		s := NewMemoryObjectStorage()

		require.NoError(t, s.Put(ctx, "uploads/a.png", []byte("png-bytes"), "image/png"))

		data, contentType, err := s.Get(ctx, "uploads/a.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("get returns stored copy", func(t *testing.T) {
		s := NewMemoryObjectStorage()
		original := []byte("abc")
		require.NoError(t, s.Put(ctx, "k", original, "text/plain"))

		original[0] = 'z'
		data, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("missing key", func(t *testing.T) {
		s := NewMemoryObjectStorage()
		_, _, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, reviewapp.ErrFileNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := NewMemoryObjectStorage()
		require.NoError(t, s.Put(ctx, "k", []byte("x"), ""))
		require.NoError(t, s.Delete(ctx, "k"))
		_, _, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, reviewapp.ErrFileNotFound)
		assert.Zero(t, s.Len())
	})

	t.Run("empty key rejected", func(t *testing.T) {
		s := NewMemoryObjectStorage()
		assert.Error(t, s.Put(ctx, "", []byte("x"), ""))
		_, _, err := s.Get(ctx, "")
		assert.Error(t, err)
		assert.Error(t, s.Delete(ctx, ""))
	})
}
