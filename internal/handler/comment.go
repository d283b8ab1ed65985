package handler

import (
	"log/slog"
	"net/http"

	"plaza/internal/domain/models"
	"plaza/internal/domain/services"
	"plaza/internal/httputil"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// createCommentRequest is the compose payload plus threading.
type createCommentRequest struct {
	services.ComposeRequest
	ParentID *string `json:"parent_id,omitempty"`
}

// CreateComment attaches a comment to a post
// POST /api/posts/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := PathParam(w, r, "id", "post ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	var req createCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), *actor, postID, req.ParentID, &req.ComposeRequest)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// ListComments lists a post's comments oldest first
// GET /api/posts/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := PathParam(w, r, "id", "post ID")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), postID)
	if err != nil {
		handleError(w, err)
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}

// UpdateComment replaces a comment's content
// PATCH /api/comments/{id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "comment ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	var req services.ComposeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(r.Context(), *actor, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comment)
}

// DeleteComment soft-deletes the caller's own comment
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "comment ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	if err := h.commentService.DeleteComment(r.Context(), *actor, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
