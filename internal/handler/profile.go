package handler

import (
	"io"
	"log/slog"
	"net/http"

	"plaza/internal/domain/services"
	"plaza/internal/httputil"
	"plaza/internal/imaging"
)

// maxAvatarBodyBytes bounds the avatar multipart body.
const maxAvatarBodyBytes = 6 << 20

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService services.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// GetMe returns the caller's own profile, creating the row on first sight
// GET /api/users/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetActor(r)

	user, err := h.profileService.EnsureUser(r.Context(), *actor)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// GetProfile returns a user's public profile
// GET /api/users/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "user ID")
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// UpdateMe applies a partial update to the caller's profile
// PATCH /api/users/me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetActor(r)

	var req services.UpdateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), *actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// UploadAvatar replaces the caller's avatar
// POST /api/users/me/avatar (multipart: avatar)
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetActor(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBodyBytes)
	if err := r.ParseMultipartForm(maxAvatarBodyBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "unreadable avatar file")
		return
	}

	user, err := h.profileService.UploadAvatar(r.Context(), *actor, imaging.SourceImage{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}
