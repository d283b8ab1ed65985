package service

import (
	"fmt"

	"plaza/internal/config"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/services"
	"plaza/internal/richtext"
)

// buildContent runs the shared content pipeline for posts and comments:
// parse the document tree, auto-link bare URLs, render HTML, extract plain
// text, and enforce the content limits. The normalized tree (with links
// materialized) is what gets persisted, so rehydrated editors see the same
// document readers do.
func buildContent(req *services.ComposeRequest, maxImages int) (models.Content, error) {
	if len(req.ImageURLs) > maxImages {
		return models.Content{}, &domain.QuotaError{
			Message: fmt.Sprintf("at most %d images allowed, got %d", maxImages, len(req.ImageURLs)),
		}
	}

	doc, err := richtext.ParseDocument(req.DocumentTree)
	if err != nil {
		return models.Content{}, &domain.ValidationError{
			Message: fmt.Sprintf("malformed document tree: %v", err),
		}
	}

	richtext.DetectLinks(doc)

	rendered := richtext.Render(doc, req.HTMLFallback)

	var plain string
	if doc != nil && !doc.IsEmpty() {
		plain = richtext.ExtractText(doc)
	} else {
		plain = richtext.ExtractTextFromHTML(rendered)
	}

	if len(plain) > config.MaxPlainTextLength {
		return models.Content{}, &domain.ValidationError{
			Message: fmt.Sprintf("content exceeds %d characters", config.MaxPlainTextLength),
		}
	}

	if plain == "" && len(req.ImageURLs) == 0 {
		return models.Content{}, &domain.ValidationError{
			Message: "content is empty",
		}
	}

	tree, err := doc.Marshal()
	if err != nil {
		return models.Content{}, fmt.Errorf("marshal document tree: %w", err)
	}

	return models.Content{
		DocumentTree: tree,
		RenderedHTML: rendered,
		PlainText:    plain,
		ImageURLs:    req.ImageURLs,
	}, nil
}
