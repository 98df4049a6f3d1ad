package client

import (
	"time"

	"feed-go/internal/config"
	"feed-go/internal/feed"
	"feed-go/internal/model"
)

// Service is the in-process feed service the simulated transport calls.
type Service interface {
	GetFeed(userID int) (*model.HydratedFeed, error)
	PostStatusUpdate(author int, location, text string) (*model.HydratedFeedItem, error)
	PostComment(feedItemID, author int, text string) (*model.HydratedFeedItem, error)
	LikeFeedItem(feedItemID, userID int) ([]model.User, error)
	UnlikeFeedItem(feedItemID, userID int) ([]model.User, error)
	LikeComment(feedItemID, commentIdx, userID int) (*model.HydratedComment, error)
	UnlikeComment(feedItemID, commentIdx, userID int) (*model.HydratedComment, error)
	UpdateFeedItemText(feedItemID int, text string) (*model.HydratedFeedItem, error)
	DeleteFeedItem(feedItemID int) error
	SearchForFeedItems(userID int, query string) ([]model.HydratedFeedItem, error)
	Reset() error
}

var _ Service = (*feed.Service)(nil)

// Simulated runs each operation against an in-process service, then resolves
// the Future after a fixed delay. The operation has fully completed by the
// time the call returns; only the notification is delayed.
type Simulated struct {
	svc      Service
	delay    time.Duration
	reporter ErrorReporter
}

var _ API = (*Simulated)(nil)

// NewSimulated creates a simulated transport. A zero delay selects the default
// and a nil reporter discards errors.
func NewSimulated(svc Service, delay time.Duration, reporter ErrorReporter) *Simulated {
	if delay <= 0 {
		delay = config.DefaultSimulatedDelay
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Simulated{svc: svc, delay: delay, reporter: reporter}
}

func simulate[T any](s *Simulated, op func() (T, error)) *Future[T] {
	f := newFuture[T]()
	val, err := op()
	if err != nil {
		s.reporter.ReportError(err)
	}
	time.AfterFunc(s.delay, func() { f.resolve(val, err) })
	return f
}

func (s *Simulated) GetFeedData(userID int) *Future[*model.HydratedFeed] {
	return simulate(s, func() (*model.HydratedFeed, error) { return s.svc.GetFeed(userID) })
}

func (s *Simulated) PostStatusUpdate(userID int, location, contents string) *Future[*model.HydratedFeedItem] {
	return simulate(s, func() (*model.HydratedFeedItem, error) {
		return s.svc.PostStatusUpdate(userID, location, contents)
	})
}

func (s *Simulated) PostComment(feedItemID, author int, contents string) *Future[*model.HydratedFeedItem] {
	return simulate(s, func() (*model.HydratedFeedItem, error) {
		return s.svc.PostComment(feedItemID, author, contents)
	})
}

func (s *Simulated) LikeFeedItem(feedItemID, userID int) *Future[[]model.User] {
	return simulate(s, func() ([]model.User, error) { return s.svc.LikeFeedItem(feedItemID, userID) })
}

func (s *Simulated) UnlikeFeedItem(feedItemID, userID int) *Future[[]model.User] {
	return simulate(s, func() ([]model.User, error) { return s.svc.UnlikeFeedItem(feedItemID, userID) })
}

func (s *Simulated) LikeComment(feedItemID, commentIdx, userID int) *Future[*model.HydratedComment] {
	return simulate(s, func() (*model.HydratedComment, error) {
		return s.svc.LikeComment(feedItemID, commentIdx, userID)
	})
}

func (s *Simulated) UnlikeComment(feedItemID, commentIdx, userID int) *Future[*model.HydratedComment] {
	return simulate(s, func() (*model.HydratedComment, error) {
		return s.svc.UnlikeComment(feedItemID, commentIdx, userID)
	})
}

func (s *Simulated) UpdateFeedItemText(feedItemID int, text string) *Future[*model.HydratedFeedItem] {
	return simulate(s, func() (*model.HydratedFeedItem, error) {
		return s.svc.UpdateFeedItemText(feedItemID, text)
	})
}

func (s *Simulated) DeleteFeedItem(feedItemID int) *Future[struct{}] {
	return simulate(s, func() (struct{}, error) { return struct{}{}, s.svc.DeleteFeedItem(feedItemID) })
}

func (s *Simulated) SearchForFeedItems(userID int, query string) *Future[[]model.HydratedFeedItem] {
	return simulate(s, func() ([]model.HydratedFeedItem, error) {
		return s.svc.SearchForFeedItems(userID, query)
	})
}

func (s *Simulated) ResetDatabase() *Future[struct{}] {
	return simulate(s, func() (struct{}, error) { return struct{}{}, s.svc.Reset() })
}
