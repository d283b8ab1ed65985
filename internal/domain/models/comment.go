package models

import "time"

// Comment is a threaded response to a post. A nil ParentID marks a
// top-level comment; replies reference their parent comment.
type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	ParentID  *string    `json:"parent_id,omitempty"`
	AuthorID  string     `json:"author_id"`
	Content   Content    `json:"content"`
	LikeCount int        `json:"like_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}
