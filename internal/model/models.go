package model

import (
	"fmt"
	"slices"
)

// FeedItemTypeStatusUpdate is the only feed item type the system knows about.
const FeedItemTypeStatusUpdate = "statusUpdate"

// Document is implemented by every record stored in a document store collection.
// A document without an ID has not been added to a collection yet.
type Document interface {
	// DocID returns the document ID and whether one is set.
	DocID() (int, bool)

	// SetDocID assigns the document ID. Only the store assigns IDs.
	SetDocID(id int)

	// CloneDocument returns a deep, independent copy of the document.
	CloneDocument() Document
}

// User represents a person on the network. Users are never modified after creation.
type User struct {
	ID       *int   `json:"_id,omitempty" yaml:"_id,omitempty"`
	FullName string `json:"fullName" yaml:"fullName"`
	Feed     int    `json:"feed" yaml:"feed"` // Foreign key to Feed
}

// Feed is the ordered list of feed items shown to one user, most recent first.
type Feed struct {
	ID       *int  `json:"_id,omitempty" yaml:"_id,omitempty"`
	Contents []int `json:"contents" yaml:"contents"` // Foreign keys to FeedItem
}

// StatusUpdate is the payload of a feed item of type statusUpdate.
type StatusUpdate struct {
	Author   int    `json:"author" yaml:"author"`     // Foreign key to User
	PostDate int64  `json:"postDate" yaml:"postDate"` // Unix milliseconds
	Location string `json:"location" yaml:"location"`
	Contents string `json:"contents" yaml:"contents"`
}

// Comment is a reply attached to a feed item.
type Comment struct {
	Author      int    `json:"author" yaml:"author"` // Foreign key to User
	Contents    string `json:"contents" yaml:"contents"`
	PostDate    int64  `json:"postDate" yaml:"postDate"`       // Unix milliseconds
	LikeCounter []int  `json:"likeCounter" yaml:"likeCounter"` // Foreign keys to User
}

// FeedItem is a post that appears in one or more feeds.
type FeedItem struct {
	ID          *int         `json:"_id,omitempty" yaml:"_id,omitempty"`
	Type        string       `json:"type" yaml:"type"`
	LikeCounter []int        `json:"likeCounter" yaml:"likeCounter"` // Foreign keys to User, insertion ordered
	Contents    StatusUpdate `json:"contents" yaml:"contents"`
	Comments    []Comment    `json:"comments" yaml:"comments"`
}

// IntPtr returns a pointer to id. Handy for building documents with a known ID.
func IntPtr(id int) *int {
	return &id
}

func docID(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// cloneIDs copies a slice of IDs, always returning a non-nil slice so that
// empty lists serialize as [] rather than null.
func cloneIDs(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return slices.Clone(ids)
}

func cloneIDPtr(p *int) *int {
	if p == nil {
		return nil
	}
	return IntPtr(*p)
}

func (u *User) DocID() (int, bool) { return docID(u.ID) }
func (u *User) SetDocID(id int)    { u.ID = IntPtr(id) }

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.ID = cloneIDPtr(u.ID)
	return &c
}

func (u *User) CloneDocument() Document { return u.Clone() }

func (f *Feed) DocID() (int, bool) { return docID(f.ID) }
func (f *Feed) SetDocID(id int)    { f.ID = IntPtr(id) }

// Clone returns a deep copy of the feed.
func (f *Feed) Clone() *Feed {
	return &Feed{
		ID:       cloneIDPtr(f.ID),
		Contents: cloneIDs(f.Contents),
	}
}

func (f *Feed) CloneDocument() Document { return f.Clone() }

// Clone returns a deep copy of the comment.
func (c Comment) Clone() Comment {
	c.LikeCounter = cloneIDs(c.LikeCounter)
	return c
}

func (fi *FeedItem) DocID() (int, bool) { return docID(fi.ID) }
func (fi *FeedItem) SetDocID(id int)    { fi.ID = IntPtr(id) }

// Clone returns a deep copy of the feed item, including its comments.
func (fi *FeedItem) Clone() *FeedItem {
	comments := make([]Comment, len(fi.Comments))
	for i, c := range fi.Comments {
		comments[i] = c.Clone()
	}
	return &FeedItem{
		ID:          cloneIDPtr(fi.ID),
		Type:        fi.Type,
		LikeCounter: cloneIDs(fi.LikeCounter),
		Contents:    fi.Contents,
		Comments:    comments,
	}
}

func (fi *FeedItem) CloneDocument() Document { return fi.Clone() }

// Validate rejects feed items the system does not know how to resolve.
func (fi *FeedItem) Validate() error {
	if fi.Type != FeedItemTypeStatusUpdate {
		return fmt.Errorf("unsupported feed item type %q", fi.Type)
	}
	return nil
}

// Compile-time checks that the collection types implement Document
var (
	_ Document = (*User)(nil)
	_ Document = (*Feed)(nil)
	_ Document = (*FeedItem)(nil)
)
