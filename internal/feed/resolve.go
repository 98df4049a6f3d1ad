package feed

import (
	"fmt"

	"feed-go/internal/model"
)

// resolveUser returns the full user for a user reference.
func (s *Service) resolveUser(id int) (model.User, error) {
	u, err := s.store.ReadUser(id)
	if err != nil {
		return model.User{}, fmt.Errorf("resolving user %d: %w", id, err)
	}
	return *u, nil
}

func (s *Service) resolveUsers(ids []int) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.resolveUser(id)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) resolveComment(c model.Comment) (model.HydratedComment, error) {
	author, err := s.resolveUser(c.Author)
	if err != nil {
		return model.HydratedComment{}, err
	}
	likes := make([]int, len(c.LikeCounter))
	copy(likes, c.LikeCounter)
	return model.HydratedComment{
		Author:      author,
		Contents:    c.Contents,
		PostDate:    c.PostDate,
		LikeCounter: likes,
	}, nil
}

// hydrate replaces every user reference in fi with the referenced user.
func (s *Service) hydrate(fi *model.FeedItem) (*model.HydratedFeedItem, error) {
	id, _ := fi.DocID()

	likers, err := s.resolveUsers(fi.LikeCounter)
	if err != nil {
		return nil, err
	}
	author, err := s.resolveUser(fi.Contents.Author)
	if err != nil {
		return nil, err
	}
	comments := make([]model.HydratedComment, 0, len(fi.Comments))
	for _, c := range fi.Comments {
		hc, err := s.resolveComment(c)
		if err != nil {
			return nil, err
		}
		comments = append(comments, hc)
	}

	return &model.HydratedFeedItem{
		ID:          id,
		Type:        fi.Type,
		LikeCounter: likers,
		Contents: model.HydratedStatusUpdate{
			Author:   author,
			PostDate: fi.Contents.PostDate,
			Location: fi.Contents.Location,
			Contents: fi.Contents.Contents,
		},
		Comments: comments,
	}, nil
}

func (s *Service) resolveFeedItem(feedItemID int) (*model.HydratedFeedItem, error) {
	fi, err := s.store.ReadFeedItem(feedItemID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(fi)
}

// userFeed returns the feed belonging to userID.
func (s *Service) userFeed(userID int) (*model.Feed, error) {
	u, err := s.store.ReadUser(userID)
	if err != nil {
		return nil, err
	}
	f, err := s.store.ReadFeed(u.Feed)
	if err != nil {
		return nil, fmt.Errorf("reading feed of user %d: %w", userID, err)
	}
	return f, nil
}

func (s *Service) resolveFeed(userID int) (*model.HydratedFeed, error) {
	f, err := s.userFeed(userID)
	if err != nil {
		return nil, err
	}
	id, _ := f.DocID()

	items := make([]model.HydratedFeedItem, 0, len(f.Contents))
	for _, itemID := range f.Contents {
		hfi, err := s.resolveFeedItem(itemID)
		if err != nil {
			return nil, fmt.Errorf("resolving feed %d: %w", id, err)
		}
		items = append(items, *hfi)
	}
	return &model.HydratedFeed{ID: id, Contents: items}, nil
}
