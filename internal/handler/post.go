package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"plaza/internal/domain/models"
	"plaza/internal/domain/services"
	"plaza/internal/httputil"
)

// PostHandler handles post HTTP requests
// Handlers only communicate with services, never repositories
type PostHandler struct {
	postService services.PostService
	logger      *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService services.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// CreatePost creates a new post
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetActor(r)

	var req services.ComposeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.CreatePost(r.Context(), *actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, post)
}

// GetPost retrieves a single post by ID
// GET /api/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "post ID")
	if !ok {
		return
	}

	post, err := h.postService.GetPost(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, post)
}

// UpdatePost replaces a post's content
// PATCH /api/posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "post ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	var req services.ComposeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), *actor, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, post)
}

// DeletePost soft-deletes the caller's own post
// DELETE /api/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "post ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	if err := h.postService.DeletePost(r.Context(), *actor, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Feed returns one page of the global feed
// GET /api/feed?cursor=&limit=
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limit := queryInt(r, "limit", 0)

	page, err := h.postService.Feed(r.Context(), cursor, limit)
	if err != nil {
		handleError(w, err)
		return
	}

	if page.Posts == nil {
		page.Posts = []models.Post{}
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// ListByAuthor lists a user's recent posts
// GET /api/users/{id}/posts
func (h *PostHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, ok := PathParam(w, r, "id", "user ID")
	if !ok {
		return
	}

	posts, err := h.postService.ListByAuthor(r.Context(), authorID, queryInt(r, "limit", 0))
	if err != nil {
		handleError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	httputil.RespondJSON(w, http.StatusOK, posts)
}

// ExportMarkdown renders a post as Markdown
// GET /api/posts/{id}/markdown
func (h *PostHandler) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "post ID")
	if !ok {
		return
	}

	md, err := h.postService.ExportMarkdown(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
