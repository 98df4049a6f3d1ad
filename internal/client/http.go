package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"feed-go/internal/auth"
	"feed-go/internal/config"
	"feed-go/internal/model"
)

var (
	// ErrNetwork means the server could not be reached.
	ErrNetwork = errors.New("could not connect to the server")

	// ErrTimeout means the server did not answer within the client timeout.
	ErrTimeout = errors.New("request timed out")
)

// RequestError is a call that failed before a response arrived.
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTimeout):
		return fmt.Sprintf("Could not %s %s: Request timed out.", e.Method, e.Path)
	case errors.Is(e.Err, ErrNetwork):
		return fmt.Sprintf("Could not %s %s: Could not connect to the server.", e.Method, e.Path)
	default:
		return fmt.Sprintf("Could not %s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a response outside the 2xx range.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Could not %s %s: Received %d %s: %s", e.Method, e.Path, e.Code, http.StatusText(e.Code), e.Body)
}

// HTTP calls a feed server, acting as a single user.
// Requests are never retried.
type HTTP struct {
	baseURL  string
	client   *http.Client
	codec    auth.TokenCodec
	userID   int
	reporter ErrorReporter
}

var _ API = (*HTTP)(nil)

// NewHTTP creates an HTTP transport that authenticates as userID.
// A zero timeout selects the default and a nil reporter discards errors.
func NewHTTP(baseURL string, timeout time.Duration, codec auth.TokenCodec, userID int, reporter ErrorReporter) *HTTP {
	if timeout <= 0 {
		timeout = config.DefaultClientTimeout
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &HTTP{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		codec:    codec,
		userID:   userID,
		reporter: reporter,
	}
}

// send issues the request in the background. body may be nil, a string sent as
// text, or any other value sent as JSON.
func send[T any](h *HTTP, method, path string, body any) *Future[T] {
	f := newFuture[T]()
	go func() {
		val, err := roundTrip[T](h, method, path, body)
		if err != nil {
			h.reporter.ReportError(err)
		}
		f.resolve(val, err)
	}()
	return f
}

func roundTrip[T any](h *HTTP, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	var contentType string
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
		contentType = "text/plain;charset=UTF-8"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return zero, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json;charset=UTF-8"
	}

	req, err := http.NewRequest(method, h.baseURL+path, reader)
	if err != nil {
		return zero, &RequestError{Method: method, Path: path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, err := h.codec.Encode(h.userID)
	if err != nil {
		return zero, &RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := h.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return zero, &RequestError{Method: method, Path: path, Err: ErrTimeout}
		}
		return zero, &RequestError{Method: method, Path: path, Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return zero, &RequestError{Method: method, Path: path, Err: ErrTimeout}
		}
		return zero, &RequestError{Method: method, Path: path, Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(respBody)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return zero, nil
	}
	var val T
	if err := json.Unmarshal(respBody, &val); err != nil {
		return zero, fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return val, nil
}

func (h *HTTP) GetFeedData(userID int) *Future[*model.HydratedFeed] {
	return send[*model.HydratedFeed](h, http.MethodGet, fmt.Sprintf("/user/%d/feed", userID), nil)
}

func (h *HTTP) PostStatusUpdate(userID int, location, contents string) *Future[*model.HydratedFeedItem] {
	return send[*model.HydratedFeedItem](h, http.MethodPost, "/feeditem", map[string]any{
		"userId":   userID,
		"location": location,
		"contents": contents,
	})
}

func (h *HTTP) PostComment(feedItemID, author int, contents string) *Future[*model.HydratedFeedItem] {
	return send[*model.HydratedFeedItem](h, http.MethodPost, fmt.Sprintf("/feeditem/%d/comments", feedItemID), map[string]any{
		"author":   author,
		"contents": contents,
	})
}

func (h *HTTP) LikeFeedItem(feedItemID, userID int) *Future[[]model.User] {
	return send[[]model.User](h, http.MethodPut, fmt.Sprintf("/feeditem/%d/likelist/%d", feedItemID, userID), nil)
}

func (h *HTTP) UnlikeFeedItem(feedItemID, userID int) *Future[[]model.User] {
	return send[[]model.User](h, http.MethodDelete, fmt.Sprintf("/feeditem/%d/likelist/%d", feedItemID, userID), nil)
}

func (h *HTTP) LikeComment(feedItemID, commentIdx, userID int) *Future[*model.HydratedComment] {
	return send[*model.HydratedComment](h, http.MethodPut,
		fmt.Sprintf("/feeditem/%d/comments/%d/likelist/%d", feedItemID, commentIdx, userID), nil)
}

func (h *HTTP) UnlikeComment(feedItemID, commentIdx, userID int) *Future[*model.HydratedComment] {
	return send[*model.HydratedComment](h, http.MethodDelete,
		fmt.Sprintf("/feeditem/%d/comments/%d/likelist/%d", feedItemID, commentIdx, userID), nil)
}

func (h *HTTP) UpdateFeedItemText(feedItemID int, text string) *Future[*model.HydratedFeedItem] {
	return send[*model.HydratedFeedItem](h, http.MethodPut, fmt.Sprintf("/feeditem/%d/content", feedItemID), text)
}

func (h *HTTP) DeleteFeedItem(feedItemID int) *Future[struct{}] {
	return send[struct{}](h, http.MethodDelete, fmt.Sprintf("/feeditem/%d", feedItemID), nil)
}

// SearchForFeedItems searches the feed of the token's user; userID is not sent.
func (h *HTTP) SearchForFeedItems(_ int, query string) *Future[[]model.HydratedFeedItem] {
	return send[[]model.HydratedFeedItem](h, http.MethodPost, "/search", query)
}

func (h *HTTP) ResetDatabase() *Future[struct{}] {
	return send[struct{}](h, http.MethodPost, "/resetdb", nil)
}
