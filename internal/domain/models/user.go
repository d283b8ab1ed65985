package models

import "time"

// User is a registered account. Identity comes from the JWT issuer; this
// row carries the profile the app itself owns.
type User struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Actor is the authenticated caller extracted from a verified token.
type Actor struct {
	ID          string
	DisplayName string
}
