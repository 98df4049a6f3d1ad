package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"feed-go/internal/auth"
	"feed-go/internal/docstore"
)

type statusUpdateRequest struct {
	UserID   *int    `json:"userId" binding:"required"`
	Location *string `json:"location" binding:"required"`
	Contents *string `json:"contents" binding:"required"`
}

type commentRequest struct {
	Author   *int    `json:"author" binding:"required"`
	Contents *string `json:"contents" binding:"required"`
}

func (s *Server) requester(c *gin.Context) int {
	return auth.UserIDFromHeader(s.codec, c.GetHeader("Authorization"))
}

// intParam parses a numeric path parameter, answering 400 when it is not one.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", name, c.Param(name)))
		return 0, false
	}
	return v, true
}

// writeError maps service errors to status codes. The body is the error text.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, docstore.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.String(status, err.Error())
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatus(http.StatusUnauthorized)
}

func readText(c *gin.Context) (string, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("reading body: %v", err))
		return "", false
	}
	return string(body), true
}

// authorizeAuthor checks that the requester posted the feed item.
func (s *Server) authorizeAuthor(c *gin.Context, feedItemID int) bool {
	author, err := s.svc.FeedItemAuthor(feedItemID)
	if err != nil {
		writeError(c, err)
		return false
	}
	if s.requester(c) != author {
		unauthorized(c)
		return false
	}
	return true
}

// GET /user/:userid/feed
func (s *Server) getFeed(c *gin.Context) {
	userID, ok := intParam(c, "userid")
	if !ok {
		return
	}
	if s.requester(c) != userID {
		unauthorized(c)
		return
	}

	f, err := s.svc.GetFeed(userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// POST /feeditem
func (s *Server) postStatusUpdate(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if s.requester(c) != *req.UserID {
		unauthorized(c)
		return
	}

	item, err := s.svc.PostStatusUpdate(*req.UserID, *req.Location, *req.Contents)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/feeditem/%d", item.ID))
	c.JSON(http.StatusCreated, item)
}

// PUT /feeditem/:feeditemid/content
func (s *Server) updateFeedItemText(c *gin.Context) {
	feedItemID, ok := intParam(c, "feeditemid")
	if !ok || !s.authorizeAuthor(c, feedItemID) {
		return
	}
	text, ok := readText(c)
	if !ok {
		return
	}

	item, err := s.svc.UpdateFeedItemText(feedItemID, text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /feeditem/:feeditemid
func (s *Server) deleteFeedItem(c *gin.Context) {
	feedItemID, ok := intParam(c, "feeditemid")
	if !ok || !s.authorizeAuthor(c, feedItemID) {
		return
	}

	if err := s.svc.DeleteFeedItem(feedItemID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// likeListParams parses :feeditemid and :userid and checks the requester is :userid.
func (s *Server) likeListParams(c *gin.Context) (feedItemID, userID int, ok bool) {
	if feedItemID, ok = intParam(c, "feeditemid"); !ok {
		return
	}
	if userID, ok = intParam(c, "userid"); !ok {
		return
	}
	if s.requester(c) != userID {
		unauthorized(c)
		return 0, 0, false
	}
	return feedItemID, userID, true
}

// PUT /feeditem/:feeditemid/likelist/:userid
func (s *Server) likeFeedItem(c *gin.Context) {
	feedItemID, userID, ok := s.likeListParams(c)
	if !ok {
		return
	}
	likers, err := s.svc.LikeFeedItem(feedItemID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, likers)
}

// DELETE /feeditem/:feeditemid/likelist/:userid
func (s *Server) unlikeFeedItem(c *gin.Context) {
	feedItemID, userID, ok := s.likeListParams(c)
	if !ok {
		return
	}
	likers, err := s.svc.UnlikeFeedItem(feedItemID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, likers)
}

// POST /feeditem/:feeditemid/comments
func (s *Server) postComment(c *gin.Context) {
	feedItemID, ok := intParam(c, "feeditemid")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if s.requester(c) != *req.Author {
		unauthorized(c)
		return
	}

	item, err := s.svc.PostComment(feedItemID, *req.Author, *req.Contents)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/feeditem/%d", item.ID))
	c.JSON(http.StatusCreated, item)
}

func (s *Server) commentLikeParams(c *gin.Context) (feedItemID, commentIdx, userID int, ok bool) {
	if commentIdx, ok = intParam(c, "commentidx"); !ok {
		return
	}
	if feedItemID, userID, ok = s.likeListParams(c); !ok {
		return
	}
	return feedItemID, commentIdx, userID, true
}

// PUT /feeditem/:feeditemid/comments/:commentidx/likelist/:userid
func (s *Server) likeComment(c *gin.Context) {
	feedItemID, commentIdx, userID, ok := s.commentLikeParams(c)
	if !ok {
		return
	}
	comment, err := s.svc.LikeComment(feedItemID, commentIdx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE /feeditem/:feeditemid/comments/:commentidx/likelist/:userid
func (s *Server) unlikeComment(c *gin.Context) {
	feedItemID, commentIdx, userID, ok := s.commentLikeParams(c)
	if !ok {
		return
	}
	comment, err := s.svc.UnlikeComment(feedItemID, commentIdx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// POST /search
func (s *Server) search(c *gin.Context) {
	userID := s.requester(c)
	if userID == auth.Anonymous {
		unauthorized(c)
		return
	}
	query, ok := readText(c)
	if !ok {
		return
	}

	results, err := s.svc.SearchForFeedItems(userID, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// POST /resetdb
func (s *Server) resetDB(c *gin.Context) {
	if err := s.svc.Reset(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
