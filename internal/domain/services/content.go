package services

import "encoding/json"

// ComposeRequest is the shared payload for creating or editing a post or
// comment. DocumentTree carries the serialized editor document (or JSON
// null); HTMLFallback is used only when the tree is absent or empty, for
// clients that still submit raw HTML. ImageURLs reference already-uploaded
// images in display order.
type ComposeRequest struct {
	DocumentTree json.RawMessage `json:"document_tree,omitempty"`
	HTMLFallback string          `json:"html,omitempty"`
	ImageURLs    []string        `json:"image_urls,omitempty"`
}
