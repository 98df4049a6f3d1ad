package vault

import (
	"bytes"
	"fmt"
	"sync"

	"feed-go/internal/docstore"
)

// MemoryVault is an in-memory implementation of docstore.BlobStore.
// Snapshots live only as long as the process, making it useful for testing
// and for throwaway servers. This implementation is safe for concurrent use.
type MemoryVault struct {
	name  string
	blobs map[string][]byte // key -> snapshot
	puts  int
	mu    sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:  name,
		blobs: make(map[string][]byte),
	}
}

// Get returns a copy of the blob stored under key.
func (m *MemoryVault) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", docstore.ErrBlobNotFound, key)
	}
	return bytes.Clone(data), nil
}

// Put stores a copy of data under key.
func (m *MemoryVault) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = bytes.Clone(data)
	m.puts++
	return nil
}

// Puts returns how many times Put has been called.
func (m *MemoryVault) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements docstore.BlobStore interface
var _ docstore.BlobStore = (*MemoryVault)(nil)
