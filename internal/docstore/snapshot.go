package docstore

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"feed-go/internal/model"
)

//go:embed seed.json
var seedJSON []byte

// Snapshot is the persisted form of the whole store. It is serialized as a single
// JSON object with one map per collection, keyed by decimal document ID.
type Snapshot struct {
	Users     map[int]*model.User     `json:"users" yaml:"users"`
	FeedItems map[int]*model.FeedItem `json:"feedItems" yaml:"feedItems"`
	Feeds     map[int]*model.Feed     `json:"feeds" yaml:"feeds"`
}

// DefaultSeed returns a fresh copy of the built-in seed snapshot.
func DefaultSeed() *Snapshot {
	snap, err := UnmarshalSnapshot(seedJSON)
	if err != nil {
		// The seed is embedded at build time; failing to parse it is a programming error.
		panic(fmt.Sprintf("parsing embedded seed: %v", err))
	}
	return snap
}

// LoadSeedFile reads a seed snapshot from a JSON or YAML file.
// The format is chosen by extension: .yaml and .yml are YAML, anything else is JSON.
func LoadSeedFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		snap, err := UnmarshalSnapshot(data)
		if err != nil {
			return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
		}
		return snap, nil
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	if err := snap.normalize(); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return &snap, nil
}

// MarshalSnapshot encodes a snapshot in its persisted JSON form.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes and validates a persisted snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := snap.normalize(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Users:     make(map[int]*model.User, len(s.Users)),
		FeedItems: make(map[int]*model.FeedItem, len(s.FeedItems)),
		Feeds:     make(map[int]*model.Feed, len(s.Feeds)),
	}
	for id, u := range s.Users {
		c.Users[id] = u.Clone()
	}
	for id, fi := range s.FeedItems {
		c.FeedItems[id] = fi.Clone()
	}
	for id, f := range s.Feeds {
		c.Feeds[id] = f.Clone()
	}
	return c
}

// normalize fills in missing maps, checks that every document's _id matches its
// key (assigning it when absent), and rejects unknown feed item types.
// Documents are replaced with clones so that empty lists are never nil.
func (s *Snapshot) normalize() error {
	if s.Users == nil {
		s.Users = map[int]*model.User{}
	}
	if s.FeedItems == nil {
		s.FeedItems = map[int]*model.FeedItem{}
	}
	if s.Feeds == nil {
		s.Feeds = map[int]*model.Feed{}
	}

	for id, u := range s.Users {
		if u == nil {
			return fmt.Errorf("%w: users/%d is null", ErrInvalidArgument, id)
		}
		if err := checkKey(Users, id, u); err != nil {
			return err
		}
		s.Users[id] = u.Clone()
	}
	for id, fi := range s.FeedItems {
		if fi == nil {
			return fmt.Errorf("%w: feedItems/%d is null", ErrInvalidArgument, id)
		}
		if err := checkKey(FeedItems, id, fi); err != nil {
			return err
		}
		if err := fi.Validate(); err != nil {
			return fmt.Errorf("%w: feedItems/%d: %v", ErrInvalidArgument, id, err)
		}
		s.FeedItems[id] = fi.Clone()
	}
	for id, f := range s.Feeds {
		if f == nil {
			return fmt.Errorf("%w: feeds/%d is null", ErrInvalidArgument, id)
		}
		if err := checkKey(Feeds, id, f); err != nil {
			return err
		}
		s.Feeds[id] = f.Clone()
	}
	return nil
}

func checkKey(c Collection, key int, doc model.Document) error {
	id, ok := doc.DocID()
	if !ok {
		doc.SetDocID(key)
		return nil
	}
	if id != key {
		return fmt.Errorf("%w: %s/%d carries _id %d", ErrInvalidArgument, c, key, id)
	}
	return nil
}

// collections converts the snapshot into the store's internal layout.
// The documents are not copied.
func (s *Snapshot) collections() map[Collection]map[int]model.Document {
	cols := map[Collection]map[int]model.Document{
		Users:     make(map[int]model.Document, len(s.Users)),
		FeedItems: make(map[int]model.Document, len(s.FeedItems)),
		Feeds:     make(map[int]model.Document, len(s.Feeds)),
	}
	for id, u := range s.Users {
		cols[Users][id] = u
	}
	for id, fi := range s.FeedItems {
		cols[FeedItems][id] = fi
	}
	for id, f := range s.Feeds {
		cols[Feeds][id] = f
	}
	return cols
}

// snapshotOf converts the store's internal layout back into a Snapshot.
// The documents are not copied.
func snapshotOf(cols map[Collection]map[int]model.Document) *Snapshot {
	snap := &Snapshot{
		Users:     make(map[int]*model.User, len(cols[Users])),
		FeedItems: make(map[int]*model.FeedItem, len(cols[FeedItems])),
		Feeds:     make(map[int]*model.Feed, len(cols[Feeds])),
	}
	for id, d := range cols[Users] {
		snap.Users[id] = d.(*model.User)
	}
	for id, d := range cols[FeedItems] {
		snap.FeedItems[id] = d.(*model.FeedItem)
	}
	for id, d := range cols[Feeds] {
		snap.Feeds[id] = d.(*model.Feed)
	}
	return snap
}
