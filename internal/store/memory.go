package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-memory Gateway for tests. Values round-trip through
// JSON so tests exercise the same serialization as the real backends.
type Memory struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

func memoryKey(scope, key string) string {
	return scope + "/" + key
}

// Save stores the JSON-encoded value.
func (s *Memory) Save(ctx context.Context, scope, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[memoryKey(scope, key)] = data
	s.mu.Unlock()
	return nil
}

// Load unmarshals the value at (scope, key) into dest.
func (s *Memory) Load(ctx context.Context, scope, key string, dest any) error {
	s.mu.RLock()
	data, ok := s.data[memoryKey(scope, key)]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, dest); err != nil {
		_ = s.Delete(ctx, scope, key)
		return ErrNotFound
	}
	return nil
}

// Delete removes the value at (scope, key).
func (s *Memory) Delete(ctx context.Context, scope, key string) error {
	s.mu.Lock()
	delete(s.data, memoryKey(scope, key))
	s.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (s *Memory) Ping(ctx context.Context) error {
	return nil
}

// Corrupt overwrites the stored value with bytes that will not
// unmarshal, for exercising the corrupt-data recovery path in tests.
func (s *Memory) Corrupt(scope, key string) {
	s.mu.Lock()
	s.data[memoryKey(scope, key)] = json.RawMessage(`{"truncated`)
	s.mu.Unlock()
}

// Len reports the number of stored keys.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
