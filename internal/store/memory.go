package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no value is stored under a key.
	ErrNotFound = errors.New("no value stored for key")
)

// KV is a byte-level key-value store. Values are opaque to the store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type memoryItem struct {
	value    []byte
	storedAt time.Time
}

// MemoryKV is a concurrency-safe in-memory KV.
type MemoryKV struct {
	mu sync.RWMutex

	data map[string]memoryItem

	// maxAge drops items older than this on read (0 = keep forever).
	maxAge time.Duration
	now    func() time.Time
}

// NewMemoryKV creates a MemoryKV. If maxAge is <= 0 items never expire.
func NewMemoryKV(maxAge time.Duration) *MemoryKV {
	return &MemoryKV{
		data:   make(map[string]memoryItem),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Get returns a copy of the value stored under key.
func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	item, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(item.storedAt) > s.maxAge {
		s.mu.Lock()
		if cur, ok := s.data[key]; ok && cur.storedAt.Equal(item.storedAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	return append([]byte(nil), item.value...), nil
}

// Set overwrites the value stored under key.
func (s *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = memoryItem{
		value:    append([]byte(nil), value...),
		storedAt: s.now(),
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len reports how many keys are currently held.
func (s *MemoryKV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
