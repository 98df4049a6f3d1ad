// Package client calls the feed operations either in-process, with a simulated
// network delay, or against a feed server over HTTP.
package client

import (
	"feed-go/internal/feed"
	"feed-go/internal/model"
)

// API is the set of feed operations available to a client. Every call returns
// immediately; the result arrives through the returned Future.
type API interface {
	GetFeedData(userID int) *Future[*model.HydratedFeed]
	PostStatusUpdate(userID int, location, contents string) *Future[*model.HydratedFeedItem]
	PostComment(feedItemID, author int, contents string) *Future[*model.HydratedFeedItem]
	LikeFeedItem(feedItemID, userID int) *Future[[]model.User]
	UnlikeFeedItem(feedItemID, userID int) *Future[[]model.User]
	LikeComment(feedItemID, commentIdx, userID int) *Future[*model.HydratedComment]
	UnlikeComment(feedItemID, commentIdx, userID int) *Future[*model.HydratedComment]
	UpdateFeedItemText(feedItemID int, text string) *Future[*model.HydratedFeedItem]
	DeleteFeedItem(feedItemID int) *Future[struct{}]
	SearchForFeedItems(userID int, query string) *Future[[]model.HydratedFeedItem]
	ResetDatabase() *Future[struct{}]
}

// ErrorReporter receives every failed call, in addition to the call's Future.
type ErrorReporter interface {
	ReportError(err error)
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(err error)

func (f ReporterFunc) ReportError(err error) { f(err) }

// LogReporter reports errors to a Logger.
type LogReporter struct {
	Logger feed.Logger
}

func (r LogReporter) ReportError(err error) {
	r.Logger.Error("request failed", "error", err)
}

type nopReporter struct{}

func (nopReporter) ReportError(error) {}
