package docstore

import (
	"fmt"

	"feed-go/internal/model"
)

// Typed helpers over Read/Write/Add for the known collections.

func (s *Store) ReadUser(id int) (*model.User, error) {
	doc, err := s.Read(Users, id)
	if err != nil {
		return nil, err
	}
	return asType[*model.User](doc, Users)
}

func (s *Store) ReadFeed(id int) (*model.Feed, error) {
	doc, err := s.Read(Feeds, id)
	if err != nil {
		return nil, err
	}
	return asType[*model.Feed](doc, Feeds)
}

func (s *Store) ReadFeedItem(id int) (*model.FeedItem, error) {
	doc, err := s.Read(FeedItems, id)
	if err != nil {
		return nil, err
	}
	return asType[*model.FeedItem](doc, FeedItems)
}

func (s *Store) WriteFeed(f *model.Feed) error {
	return s.Write(Feeds, f)
}

func (s *Store) WriteFeedItem(fi *model.FeedItem) error {
	return s.Write(FeedItems, fi)
}

// AddFeedItem adds a new feed item and returns the stored copy with its assigned ID.
func (s *Store) AddFeedItem(fi *model.FeedItem) (*model.FeedItem, error) {
	doc, err := s.Add(FeedItems, fi)
	if err != nil {
		return nil, err
	}
	return asType[*model.FeedItem](doc, FeedItems)
}

func (s *Store) DeleteFeedItem(id int) error {
	return s.Delete(FeedItems, id)
}

// Feeds returns a copy of every feed, keyed by feed ID.
func (s *Store) Feeds() (map[int]*model.Feed, error) {
	docs, err := s.GetCollection(Feeds)
	if err != nil {
		return nil, err
	}
	feeds := make(map[int]*model.Feed, len(docs))
	for id, doc := range docs {
		f, err := asType[*model.Feed](doc, Feeds)
		if err != nil {
			return nil, err
		}
		feeds[id] = f
	}
	return feeds, nil
}

func asType[T model.Document](doc model.Document, c Collection) (T, error) {
	t, ok := doc.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: collection %s holds %T", ErrInvalidArgument, c, doc)
	}
	return t, nil
}
