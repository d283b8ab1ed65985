package models

import "time"

// SubjectType discriminates what a like or notification points at.
type SubjectType string

const (
	SubjectPost    SubjectType = "post"
	SubjectComment SubjectType = "comment"
)

// Like records one user liking one post or comment. The (subject, user)
// pair is unique; liking twice is a no-op at the repository level.
type Like struct {
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	UserID      string      `json:"user_id"`
	CreatedAt   time.Time   `json:"created_at"`
}
