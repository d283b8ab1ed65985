package models

import "time"

// Post is one top-level piece of content in the feed.
type Post struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"author_id"`
	Content      Content    `json:"content"`
	LikeCount    int        `json:"like_count"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// FeedPage is one cursor-paginated slice of the feed, newest first.
type FeedPage struct {
	Posts      []Post `json:"posts"`
	NextCursor string `json:"next_cursor,omitempty"`
}
