package docstore

import (
	"errors"
	"fmt"
	"sync"

	"feed-go/internal/model"
)

// DefaultKey is the blob key the snapshot is persisted under.
const DefaultKey = "facebook_data"

// Collection names a document collection.
type Collection string

const (
	Users     Collection = "users"
	FeedItems Collection = "feedItems"
	Feeds     Collection = "feeds"
)

var (
	// ErrNotFound is returned for unknown collections and missing documents.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for documents that cannot be written or added as given.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBlobNotFound is returned by BlobStore.Get when nothing is stored under the key.
	ErrBlobNotFound = errors.New("blob not found")
)

// BlobStore is the key-value backend that snapshots are persisted to.
type BlobStore interface {
	// Get returns the blob stored under key, or ErrBlobNotFound.
	Get(key string) ([]byte, error)

	// Put stores data under key, replacing any previous blob.
	Put(key string, data []byte) error

	// ValidateSetup verifies that the backend is reachable and properly configured.
	ValidateSetup() error
}

// Store is an in-memory document store persisted by whole-state snapshots.
// Every document handed out or accepted is a deep copy, so callers never share
// state with the store. Store is safe for concurrent use, but it performs blind
// overwrites: concurrent read-modify-write cycles on the same document lose updates.
type Store struct {
	mu          sync.RWMutex
	blobs       BlobStore
	key         string
	seed        *Snapshot
	collections map[Collection]map[int]model.Document
}

// NewStore loads the snapshot stored under key in blobs. If no snapshot exists
// the store starts from a copy of seed, without persisting it.
// An empty key selects DefaultKey and a nil seed selects DefaultSeed().
func NewStore(blobs BlobStore, key string, seed *Snapshot) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if seed == nil {
		seed = DefaultSeed()
	}

	s := &Store{
		blobs: blobs,
		key:   key,
		seed:  seed.Clone(),
	}

	data, err := blobs.Get(key)
	switch {
	case errors.Is(err, ErrBlobNotFound):
		s.collections = seed.Clone().collections()
	case err != nil:
		return nil, fmt.Errorf("loading snapshot %s: %w", key, err)
	default:
		snap, err := UnmarshalSnapshot(data)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", key, err)
		}
		s.collections = snap.collections()
	}

	return s, nil
}

// Read returns a copy of the document with the given ID.
func (s *Store) Read(c Collection, id int) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[c]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s does not exist", ErrNotFound, c)
	}
	doc, ok := col[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %d does not exist in collection %s", ErrNotFound, id, c)
	}
	return doc.CloneDocument(), nil
}

// Write replaces an existing document with a copy of doc and persists the store.
// doc must carry the ID of a document already in the collection; use Add for new documents.
func (s *Store) Write(c Collection, doc model.Document) error {
	if err := checkDocument(c, doc); err != nil {
		return err
	}
	id, ok := doc.DocID()
	if !ok {
		return fmt.Errorf("%w: cannot write a document without an _id to %s; use Add for new documents", ErrInvalidArgument, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[c]
	if !ok {
		return fmt.Errorf("%w: collection %s does not exist", ErrNotFound, c)
	}
	if _, ok := col[id]; !ok {
		return fmt.Errorf("%w: document %d does not exist in collection %s", ErrNotFound, id, c)
	}

	col[id] = doc.CloneDocument()
	return s.persistLocked()
}

// Add assigns an ID to a copy of doc, stores it, persists the store, and returns
// a copy of the stored document. doc must not carry an ID.
//
// The ID is found by starting at the collection's size and scanning upward until
// an unused ID is found, so IDs freed by deletes below that point are not reused.
func (s *Store) Add(c Collection, doc model.Document) (model.Document, error) {
	if err := checkDocument(c, doc); err != nil {
		return nil, err
	}
	if id, ok := doc.DocID(); ok {
		return nil, fmt.Errorf("%w: cannot add a document that already has _id %d to %s", ErrInvalidArgument, id, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[c]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s does not exist", ErrNotFound, c)
	}

	nextID := len(col)
	for {
		if _, taken := col[nextID]; !taken {
			break
		}
		nextID++
	}

	stored := doc.CloneDocument()
	stored.SetDocID(nextID)
	col[nextID] = stored

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return stored.CloneDocument(), nil
}

// Delete removes a document and persists the store.
func (s *Store) Delete(c Collection, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[c]
	if !ok {
		return fmt.Errorf("%w: collection %s does not exist", ErrNotFound, c)
	}
	if _, ok := col[id]; !ok {
		return fmt.Errorf("%w: collection %s lacks an item with id %d", ErrNotFound, c, id)
	}

	delete(col, id)
	return s.persistLocked()
}

// GetCollection returns a copy of every document in a collection, keyed by ID.
func (s *Store) GetCollection(c Collection) (map[int]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[c]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s does not exist", ErrNotFound, c)
	}

	out := make(map[int]model.Document, len(col))
	for id, doc := range col {
		out[id] = doc.CloneDocument()
	}
	return out, nil
}

// Reset replaces the whole store with the seed snapshot and persists it.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = s.seed.Clone().collections()
	return s.persistLocked()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotOf(s.collections).Clone()
}

// persistLocked writes the full snapshot to the blob store. The caller must hold mu.
// On failure the in-memory change is kept.
func (s *Store) persistLocked() error {
	data, err := MarshalSnapshot(snapshotOf(s.collections))
	if err != nil {
		return err
	}
	if err := s.blobs.Put(s.key, data); err != nil {
		return fmt.Errorf("persisting snapshot %s: %w", s.key, err)
	}
	return nil
}

// checkDocument rejects documents whose type does not belong to the collection,
// including typed nil pointers of the right type.
func checkDocument(c Collection, doc model.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document for collection %s", ErrInvalidArgument, c)
	}
	var ok, isNil bool
	switch c {
	case Users:
		var u *model.User
		u, ok = doc.(*model.User)
		isNil = ok && u == nil
	case FeedItems:
		var fi *model.FeedItem
		fi, ok = doc.(*model.FeedItem)
		isNil = ok && fi == nil
		if ok && !isNil {
			if err := fi.Validate(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
		}
	case Feeds:
		var f *model.Feed
		f, ok = doc.(*model.Feed)
		isNil = ok && f == nil
	default:
		return fmt.Errorf("%w: collection %s does not exist", ErrNotFound, c)
	}
	if !ok {
		return fmt.Errorf("%w: %T does not belong in collection %s", ErrInvalidArgument, doc, c)
	}
	if isNil {
		return fmt.Errorf("%w: nil %T for collection %s", ErrInvalidArgument, doc, c)
	}
	return nil
}
