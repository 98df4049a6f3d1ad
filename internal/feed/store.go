package feed

import (
	"feed-go/internal/docstore"
	"feed-go/internal/model"
)

// Store is the slice of the document store the service needs.
// Every document it returns is a private copy.
type Store interface {
	ReadUser(id int) (*model.User, error)
	ReadFeed(id int) (*model.Feed, error)
	ReadFeedItem(id int) (*model.FeedItem, error)
	WriteFeed(f *model.Feed) error
	WriteFeedItem(fi *model.FeedItem) error
	AddFeedItem(fi *model.FeedItem) (*model.FeedItem, error)
	DeleteFeedItem(id int) error
	Feeds() (map[int]*model.Feed, error)
	Reset() error
}

var _ Store = (*docstore.Store)(nil)
