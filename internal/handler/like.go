package handler

import (
	"log/slog"
	"net/http"

	"plaza/internal/domain/models"
	"plaza/internal/domain/services"
	"plaza/internal/httputil"
)

// LikeHandler handles like HTTP requests
type LikeHandler struct {
	likeService services.LikeService
	logger      *slog.Logger
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(likeService services.LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{
		likeService: likeService,
		logger:      logger,
	}
}

type likeResponse struct {
	Liked bool `json:"liked"`
}

// LikePost records a like on a post
// PUT /api/posts/{id}/like
func (h *LikeHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, models.SubjectPost)
}

// UnlikePost removes a like from a post
// DELETE /api/posts/{id}/like
func (h *LikeHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.unlike(w, r, models.SubjectPost)
}

// LikeComment records a like on a comment
// PUT /api/comments/{id}/like
func (h *LikeHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, models.SubjectComment)
}

// UnlikeComment removes a like from a comment
// DELETE /api/comments/{id}/like
func (h *LikeHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	h.unlike(w, r, models.SubjectComment)
}

func (h *LikeHandler) like(w http.ResponseWriter, r *http.Request, subjectType models.SubjectType) {
	id, ok := PathParam(w, r, "id", "subject ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	liked, err := h.likeService.Like(r.Context(), *actor, subjectType, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, likeResponse{Liked: liked})
}

func (h *LikeHandler) unlike(w http.ResponseWriter, r *http.Request, subjectType models.SubjectType) {
	id, ok := PathParam(w, r, "id", "subject ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	liked, err := h.likeService.Unlike(r.Context(), *actor, subjectType, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, likeResponse{Liked: liked})
}
