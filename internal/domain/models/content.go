package models

import "encoding/json"

// Content is the boundary artifact the editing pipeline produces for
// persistence and rehydrates for editing: the serialized document tree (or
// JSON null), its rendered HTML, the extracted plain text used for search
// and validation, and the stored image URLs in upload order.
type Content struct {
	DocumentTree json.RawMessage `json:"document_tree"`
	RenderedHTML string          `json:"rendered_html"`
	PlainText    string          `json:"plain_text"`
	ImageURLs    []string        `json:"image_urls"`
}
