package model

// The types in this file are read-side projections. Every reference ID from the
// stored documents has been replaced with the full referenced document. They are
// never written back to a store.

// HydratedStatusUpdate is a StatusUpdate with its author resolved.
type HydratedStatusUpdate struct {
	Author   User   `json:"author"`
	PostDate int64  `json:"postDate"`
	Location string `json:"location"`
	Contents string `json:"contents"`
}

// HydratedComment is a Comment with its author resolved. Comment likes stay IDs.
type HydratedComment struct {
	Author      User   `json:"author"`
	Contents    string `json:"contents"`
	PostDate    int64  `json:"postDate"`
	LikeCounter []int  `json:"likeCounter"`
}

// HydratedFeedItem is a FeedItem with its author, likers and comment authors resolved.
type HydratedFeedItem struct {
	ID          int                  `json:"_id"`
	Type        string               `json:"type"`
	LikeCounter []User               `json:"likeCounter"`
	Contents    HydratedStatusUpdate `json:"contents"`
	Comments    []HydratedComment    `json:"comments"`
}

// HydratedFeed is a Feed whose item IDs have been replaced by hydrated feed items.
type HydratedFeed struct {
	ID       int                `json:"_id"`
	Contents []HydratedFeedItem `json:"contents"`
}
