// Package server exposes the feed service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"feed-go/internal/auth"
	"feed-go/internal/feed"
	"feed-go/internal/model"
)

// FeedService is the set of feed operations the HTTP API serves.
type FeedService interface {
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
	FeedItemAuthor(feedItemID int) (int, error)
	Reset() error
}

var _ FeedService = (*feed.Service)(nil)

// Server routes HTTP requests to a FeedService.
type Server struct {
	svc    FeedService
	codec  auth.TokenCodec
	logger feed.Logger
	idgen  feed.IDGenerator
	router *gin.Engine
}

// New creates a Server and registers its routes.
func New(svc FeedService, codec auth.TokenCodec, logger feed.Logger, idgen feed.IDGenerator) *Server {
	s := &Server{
		svc:    svc,
		codec:  codec,
		logger: logger,
		idgen:  idgen,
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AddExposeHeaders("Location", requestIDHeader)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig))
	router.Use(s.requestID(), s.requestLogger())

	router.GET("/user/:userid/feed", s.getFeed)
	router.POST("/feeditem", s.postStatusUpdate)
	router.PUT("/feeditem/:feeditemid/content", s.updateFeedItemText)
	router.DELETE("/feeditem/:feeditemid", s.deleteFeedItem)
	router.PUT("/feeditem/:feeditemid/likelist/:userid", s.likeFeedItem)
	router.DELETE("/feeditem/:feeditemid/likelist/:userid", s.unlikeFeedItem)
	router.POST("/feeditem/:feeditemid/comments", s.postComment)
	router.PUT("/feeditem/:feeditemid/comments/:commentidx/likelist/:userid", s.likeComment)
	router.DELETE("/feeditem/:feeditemid/comments/:commentidx/likelist/:userid", s.unlikeComment)
	router.POST("/search", s.search)
	router.POST("/resetdb", s.resetDB)

	s.router = router
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
