// Package persist implements key/value stores the task store saves its
// collections to. Values are opaque byte payloads.
package persist

import (
	"fmt"
	"sync"
	"time"
)

type Adapter interface {
	// Load returns the payload stored under key. The bool reports whether the
	// key exists.
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// New opens the adapter for a configured backend. dir is ignored by the
// memory backend.
func New(backend, dir string, lockTimeout time.Duration) (Adapter, error) {
	switch backend {
	case BackendJSON, "":
		return OpenDir(dir, lockTimeout)
	case BackendSQLite:
		return OpenSQLite(dir)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// Memory keeps payloads in a map. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

func (m *Memory) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte{}, value...)
	return nil
}

func (m *Memory) Close() error { return nil }
