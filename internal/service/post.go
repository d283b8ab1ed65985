package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"plaza/internal/config"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
	"plaza/internal/domain/services"
	"plaza/internal/richtext"
)

// postService implements the PostService interface
type postService struct {
	postRepo repositories.PostRepository
	logger   *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo repositories.PostRepository, logger *slog.Logger) services.PostService {
	return &postService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// CreatePost runs the content pipeline on the request and persists the post
func (s *postService) CreatePost(ctx context.Context, actor models.Actor, req *services.ComposeRequest) (*models.Post, error) {
	content, err := buildContent(req, config.MaxPostImages)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       uuid.NewString(),
		AuthorID: actor.ID,
		Content:  content,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"id", post.ID,
		"author_id", actor.ID,
		"chars", len(content.PlainText),
		"images", len(content.ImageURLs),
	)

	return post, nil
}

// GetPost retrieves a post by ID
func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// UpdatePost replaces a post's content. Only the author may edit.
func (s *postService) UpdatePost(ctx context.Context, actor models.Actor, id string, req *services.ComposeRequest) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actor.ID {
		return nil, fmt.Errorf("post %s is not yours: %w", id, domain.ErrForbidden)
	}

	content, err := buildContent(req, config.MaxPostImages)
	if err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated", "id", post.ID, "author_id", actor.ID)

	return post, nil
}

// DeletePost soft-deletes the actor's own post
func (s *postService) DeletePost(ctx context.Context, actor models.Actor, id string) error {
	if err := s.postRepo.SoftDelete(ctx, id, actor.ID); err != nil {
		return err
	}

	s.logger.Info("post deleted", "id", id, "author_id", actor.ID)

	return nil
}

// Feed returns one cursor-paginated page of the global feed
func (s *postService) Feed(ctx context.Context, cursor string, limit int) (*models.FeedPage, error) {
	if limit <= 0 {
		limit = config.DefaultFeedPageSize
	}
	if limit > config.MaxFeedPageSize {
		limit = config.MaxFeedPageSize
	}

	posts, nextCursor, err := s.postRepo.ListFeed(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &models.FeedPage{
		Posts:      posts,
		NextCursor: nextCursor,
	}, nil
}

// ListByAuthor lists an author's recent posts
func (s *postService) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = config.DefaultFeedPageSize
	}
	if limit > config.MaxFeedPageSize {
		limit = config.MaxFeedPageSize
	}
	return s.postRepo.ListByAuthor(ctx, authorID, limit)
}

// ExportMarkdown renders a post's content as Markdown
func (s *postService) ExportMarkdown(ctx context.Context, id string) (string, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	doc, err := richtext.ParseDocument(post.Content.DocumentTree)
	if err != nil {
		return "", fmt.Errorf("parse stored document: %w", err)
	}

	md, err := richtext.RenderMarkdown(doc, post.Content.RenderedHTML)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return md, nil
}
