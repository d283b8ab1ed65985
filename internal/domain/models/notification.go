package models

import "time"

// NotificationKind is what happened to the recipient's content.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationReply   NotificationKind = "reply"
)

// Notification is one unread/read entry in a user's notification list.
// Delivery (push, email) is out of scope; rows are created here and pulled
// by the client.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	ActorID     string           `json:"actor_id"`
	Kind        NotificationKind `json:"kind"`
	SubjectType SubjectType      `json:"subject_type"`
	SubjectID   string           `json:"subject_id"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
