package services

import (
	"context"

	"plaza/internal/domain/models"
	"plaza/internal/imaging"
)

// ProfileService handles user profile business logic
type ProfileService interface {
	// EnsureUser upserts the profile row for a verified identity. Called on
	// first authenticated request so posts never reference a missing user.
	EnsureUser(ctx context.Context, actor models.Actor) (*models.User, error)

	// GetProfile retrieves a user's profile
	GetProfile(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile applies a partial profile update for the actor
	UpdateProfile(ctx context.Context, actor models.Actor, req *UpdateProfileRequest) (*models.User, error)

	// UploadAvatar compresses the image with the avatar preset, stores it,
	// and points the actor's profile at the new URL.
	UploadAvatar(ctx context.Context, actor models.Actor, file imaging.SourceImage) (*models.User, error)
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}
