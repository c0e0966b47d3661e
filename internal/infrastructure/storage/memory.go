package storage

import (
	"context"
	"errors"
	"sync"

	reviewapp "github.com/commtrack/backend/internal/application/review"
)

// Ensure MemoryObjectStorage implements ObjectStorage
var _ reviewapp.ObjectStorage = (*MemoryObjectStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStorage keeps uploaded files in process memory.
// It is the default backend for local use, where uploaded invoice files
// only need to survive the review session.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
	}
}

// Put stores a file under the given key
func (s *MemoryObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: copied, contentType: contentType}
	return nil
}

// Get retrieves the file stored under the given key
func (s *MemoryObjectStorage) Get(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, "", reviewapp.ErrFileNotFound
	}

	copied := make([]byte, len(obj.data))
	copy(copied, obj.data)
	return copied, obj.contentType, nil
}

// Delete removes the file stored under the given key
func (s *MemoryObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
