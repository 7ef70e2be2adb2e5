package memory

import (
	"context"
	"sync"
)

// BlobStorage is a process-local ports.BlobStorage. Contents are lost on
// restart.
type BlobStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewBlobStorage() *BlobStorage {
	return &BlobStorage{data: make(map[string][]byte)}
}

func (s *BlobStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (s *BlobStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte{}, value...)
	return nil
}

func (s *BlobStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len reports the number of stored keys.
func (s *BlobStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
