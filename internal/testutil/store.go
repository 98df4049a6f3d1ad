package testutil

import (
	"errors"
	"testing"

	"feed-go/internal/docstore"
	"feed-go/internal/feed"
	"feed-go/internal/vault"
)

// NewTestStore creates a store holding the seed data, backed by a fresh memory vault.
func NewTestStore(t *testing.T) (*docstore.Store, *vault.MemoryVault) {
	t.Helper()

	blobs := vault.NewMemoryVault("test")
	store, err := docstore.NewStore(blobs, "", nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, blobs
}

// NewTestService creates a service over a seeded store with a fixed clock and no logging.
func NewTestService(t *testing.T) (*feed.Service, *docstore.Store, *StubClock) {
	t.Helper()

	store, _ := NewTestStore(t)
	clock := FixedClock()
	return feed.NewService(store, feed.NewNopLogger(), clock), store, clock
}

// ErrBackendDown is returned by FailingBlobStore.
var ErrBackendDown = errors.New("backend down")

// FailingBlobStore has no snapshot and rejects every Put.
type FailingBlobStore struct{}

func (FailingBlobStore) Get(key string) ([]byte, error) { return nil, docstore.ErrBlobNotFound }
func (FailingBlobStore) Put(string, []byte) error       { return ErrBackendDown }
func (FailingBlobStore) ValidateSetup() error           { return ErrBackendDown }

var _ docstore.BlobStore = FailingBlobStore{}
