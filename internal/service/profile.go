package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"plaza/internal/config"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
	"plaza/internal/domain/services"
	"plaza/internal/imaging"
	"plaza/internal/upload"
)

// profileService implements the ProfileService interface
type profileService struct {
	userRepo repositories.UserRepository
	uploads  *upload.Orchestrator
	logger   *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repositories.UserRepository, uploads *upload.Orchestrator, logger *slog.Logger) services.ProfileService {
	return &profileService{
		userRepo: userRepo,
		uploads:  uploads,
		logger:   logger,
	}
}

// EnsureUser upserts the profile row for a verified identity
func (s *profileService) EnsureUser(ctx context.Context, actor models.Actor) (*models.User, error) {
	displayName := actor.DisplayName
	if displayName == "" {
		displayName = "user-" + shortID(actor.ID)
	}

	user := &models.User{
		ID:          actor.ID,
		DisplayName: displayName,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetProfile retrieves a user's profile
func (s *profileService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial profile update for the actor
func (s *profileService) UpdateProfile(ctx context.Context, actor models.Actor, req *services.UpdateProfileRequest) (*models.User, error) {
	if err := validateProfileUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.UpdateProfile(ctx, actor.ID, req.DisplayName, req.Bio, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", actor.ID)

	return user, nil
}

// UploadAvatar compresses the image with the avatar preset, stores it, and
// points the actor's profile at the new URL.
func (s *profileService) UploadAvatar(ctx context.Context, actor models.Actor, file imaging.SourceImage) (*models.User, error) {
	url, err := s.uploads.UploadOne(ctx, file, imaging.Config{
		Mode:   imaging.ModePreset,
		Preset: imaging.PresetAvatar,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateProfile(ctx, actor.ID, nil, nil, &url)
	if err != nil {
		return nil, err
	}

	s.logger.Info("avatar updated", "user_id", actor.ID, "url", url)

	return user, nil
}

// validateProfileUpdate validates a partial profile update
func validateProfileUpdate(req *services.UpdateProfileRequest) error {
	return validation.Errors{
		"display_name": validation.Validate(req.DisplayName,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxDisplayNameLength)),
		"bio": validation.Validate(req.Bio,
			validation.Length(0, config.MaxBioLength)),
	}.Filter()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
