package feed

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"feed-go/internal/docstore"
	"feed-go/internal/model"
)

// Service implements the feed operations on top of a document store.
// Calls are serialized: no two operations interleave, though independent
// clients can still overwrite each other's read-modify-write cycles.
type Service struct {
	mu     sync.Mutex
	store  Store
	logger Logger
	clock  Clock
}

// NewService creates a new Service with the provided dependencies.
func NewService(store Store, logger Logger, clock Clock) *Service {
	return &Service{
		store:  store,
		logger: logger,
		clock:  clock,
	}
}

// GetFeedItem returns a feed item with every user reference resolved.
func (s *Service) GetFeedItem(feedItemID int) (*model.HydratedFeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveFeedItem(feedItemID)
}

// GetFeed returns the hydrated feed of a user, most recent item first.
func (s *Service) GetFeed(userID int) (*model.HydratedFeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveFeed(userID)
}

// PostStatusUpdate creates a status update by author and puts it at the top of
// the author's feed.
func (s *Service) PostStatusUpdate(author int, location, text string) (*model.HydratedFeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.userFeed(author)
	if err != nil {
		return nil, fmt.Errorf("posting status update: %w", err)
	}

	added, err := s.store.AddFeedItem(&model.FeedItem{
		Type:        model.FeedItemTypeStatusUpdate,
		LikeCounter: []int{},
		Contents: model.StatusUpdate{
			Author:   author,
			PostDate: s.clock.Now().UnixMilli(),
			Location: location,
			Contents: text,
		},
		Comments: []model.Comment{},
	})
	if err != nil {
		return nil, fmt.Errorf("posting status update: %w", err)
	}
	id, _ := added.DocID()

	f.Contents = append([]int{id}, f.Contents...)
	if err := s.store.WriteFeed(f); err != nil {
		return nil, fmt.Errorf("adding feed item %d to feed: %w", id, err)
	}

	s.logger.Info("status update posted", "feed_item", id, "author", author)
	return s.hydrate(added)
}

// PostComment appends a comment by author to a feed item.
func (s *Service) PostComment(feedItemID, author int, text string) (*model.HydratedFeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.ReadUser(author); err != nil {
		return nil, fmt.Errorf("posting comment: %w", err)
	}

	fi.Comments = append(fi.Comments, model.Comment{
		Author:      author,
		Contents:    text,
		PostDate:    s.clock.Now().UnixMilli(),
		LikeCounter: []int{},
	})
	if err := s.store.WriteFeedItem(fi); err != nil {
		return nil, fmt.Errorf("posting comment: %w", err)
	}

	s.logger.Info("comment posted", "feed_item", feedItemID, "author", author, "index", len(fi.Comments)-1)
	return s.hydrate(fi)
}

// LikeFeedItem adds userID to the item's likers and returns everyone who likes it.
// Liking twice records the user twice.
func (s *Service) LikeFeedItem(feedItemID, userID int) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.ReadUser(userID); err != nil {
		return nil, fmt.Errorf("liking feed item %d: %w", feedItemID, err)
	}
	fi.LikeCounter = append(fi.LikeCounter, userID)
	if err := s.store.WriteFeedItem(fi); err != nil {
		return nil, fmt.Errorf("liking feed item %d: %w", feedItemID, err)
	}

	s.logger.Debug("feed item liked", "feed_item", feedItemID, "user", userID)
	return s.resolveUsers(fi.LikeCounter)
}

// UnlikeFeedItem removes one like by userID. Unliking an item the user does
// not like changes nothing.
func (s *Service) UnlikeFeedItem(feedItemID, userID int) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return nil, err
	}
	if i := slices.Index(fi.LikeCounter, userID); i >= 0 {
		fi.LikeCounter = slices.Delete(fi.LikeCounter, i, i+1)
		if err := s.store.WriteFeedItem(fi); err != nil {
			return nil, fmt.Errorf("unliking feed item %d: %w", feedItemID, err)
		}
		s.logger.Debug("feed item unliked", "feed_item", feedItemID, "user", userID)
	}
	return s.resolveUsers(fi.LikeCounter)
}

// LikeComment adds userID to the likers of the comment at commentIdx.
func (s *Service) LikeComment(feedItemID, commentIdx, userID int) (*model.HydratedComment, error) {
	return s.updateCommentLikes(feedItemID, commentIdx, &userID, func(likes []int) ([]int, bool) {
		return append(likes, userID), true
	})
}

// UnlikeComment removes one like by userID from the comment at commentIdx.
func (s *Service) UnlikeComment(feedItemID, commentIdx, userID int) (*model.HydratedComment, error) {
	return s.updateCommentLikes(feedItemID, commentIdx, nil, func(likes []int) ([]int, bool) {
		i := slices.Index(likes, userID)
		if i < 0 {
			return likes, false
		}
		return slices.Delete(likes, i, i+1), true
	})
}

// updateCommentLikes applies update to the likes of one comment. A non-nil liker
// must name an existing user; it is checked before anything is written.
func (s *Service) updateCommentLikes(feedItemID, commentIdx int, liker *int, update func([]int) ([]int, bool)) (*model.HydratedComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return nil, err
	}
	if commentIdx < 0 || commentIdx >= len(fi.Comments) {
		return nil, fmt.Errorf("%w: feed item %d has no comment %d", docstore.ErrNotFound, feedItemID, commentIdx)
	}
	if liker != nil {
		if _, err := s.store.ReadUser(*liker); err != nil {
			return nil, fmt.Errorf("liking comment %d on feed item %d: %w", commentIdx, feedItemID, err)
		}
	}

	c := &fi.Comments[commentIdx]
	var changed bool
	c.LikeCounter, changed = update(c.LikeCounter)
	if changed {
		if err := s.store.WriteFeedItem(fi); err != nil {
			return nil, fmt.Errorf("updating likes of comment %d on feed item %d: %w", commentIdx, feedItemID, err)
		}
	}

	hc, err := s.resolveComment(*c)
	if err != nil {
		return nil, err
	}
	return &hc, nil
}

// UpdateFeedItemText replaces the text of a status update.
func (s *Service) UpdateFeedItemText(feedItemID int, text string) (*model.HydratedFeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return nil, err
	}
	fi.Contents.Contents = text
	if err := s.store.WriteFeedItem(fi); err != nil {
		return nil, fmt.Errorf("updating feed item %d: %w", feedItemID, err)
	}

	s.logger.Info("feed item edited", "feed_item", feedItemID)
	return s.hydrate(fi)
}

// DeleteFeedItem deletes a feed item and removes it from every feed.
func (s *Service) DeleteFeedItem(feedItemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteFeedItem(feedItemID); err != nil {
		return err
	}

	feeds, err := s.store.Feeds()
	if err != nil {
		return fmt.Errorf("listing feeds: %w", err)
	}
	for id, f := range feeds {
		if !slices.Contains(f.Contents, feedItemID) {
			continue
		}
		f.Contents = slices.DeleteFunc(f.Contents, func(itemID int) bool { return itemID == feedItemID })
		if err := s.store.WriteFeed(f); err != nil {
			return fmt.Errorf("removing feed item %d from feed %d: %w", feedItemID, id, err)
		}
	}

	s.logger.Info("feed item deleted", "feed_item", feedItemID)
	return nil
}

// SearchForFeedItems returns the items in userID's feed whose text contains
// query, compared with Unicode case folding. Feed order is preserved.
func (s *Service) SearchForFeedItems(userID int, query string) ([]model.HydratedFeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.userFeed(userID)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(query)

	results := []model.HydratedFeedItem{}
	for _, itemID := range f.Contents {
		fi, err := s.store.ReadFeedItem(itemID)
		if err != nil {
			return nil, fmt.Errorf("searching feed of user %d: %w", userID, err)
		}
		if !strings.Contains(fold.String(fi.Contents.Contents), needle) {
			continue
		}
		hfi, err := s.hydrate(fi)
		if err != nil {
			return nil, err
		}
		results = append(results, *hfi)
	}

	s.logger.Debug("search", "user", userID, "query", query, "matches", len(results))
	return results, nil
}

// FeedItemAuthor returns the ID of the user who posted a feed item.
func (s *Service) FeedItemAuthor(feedItemID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return 0, err
	}
	return fi.Contents.Author, nil
}

// Reset restores the seed data.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	s.logger.Warn("store reset to seed data")
	return nil
}
