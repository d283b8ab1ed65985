// Package richtext implements the document tree that backs post and comment
// bodies: a small Lexical-style node model, plain-text extraction, HTML and
// Markdown rendering, and automatic link detection.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Node type discriminators. Unrecognized types are treated as opaque
// containers: their children are traversed, they contribute no markup.
const (
	TypeRoot      = "root"
	TypeParagraph = "paragraph"
	TypeText      = "text"
	TypeLink      = "link"
	TypeAutoLink  = "autolink"
	TypeLineBreak = "linebreak"
)

// Text format bit flags. Unrecognized bits are ignored so documents written
// by newer editors still render.
const (
	FormatBold      = 1 << 0
	FormatItalic    = 1 << 1
	FormatUnderline = 1 << 2
)

// Node is one node of a document tree. The Type field discriminates; the
// remaining fields are populated per type (Text/Format for text nodes, URL
// for link nodes, Children for containers).
type Node struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Format   int    `json:"format,omitempty"`
	URL      string `json:"url,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Document is a complete rich-text document. The serialized form is either
// JSON null (no content) or {"root": {...}} with a root-typed node.
type Document struct {
	Root *Node `json:"root"`
}

// NewDocument returns an empty document: a root with a single empty
// paragraph, the shape editors start from.
func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     TypeRoot,
			Children: []Node{{Type: TypeParagraph}},
		},
	}
}

// TextNode builds a text leaf with the given format bits.
func TextNode(text string, format int) Node {
	return Node{Type: TypeText, Text: text, Format: format}
}

// AutoLinkNode builds an autolink container wrapping a single text child.
func AutoLinkNode(url, text string) Node {
	return Node{
		Type:     TypeAutoLink,
		URL:      url,
		Children: []Node{TextNode(text, 0)},
	}
}

// ParseDocument decodes a serialized document. JSON null and empty input
// yield a nil document without error; a present but root-less object is also
// treated as no content, matching how historical rows are stored.
func ParseDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Root == nil {
		return nil, nil
	}
	return &doc, nil
}

// Marshal serializes the document. A nil document marshals to JSON null so
// the persisted column round-trips the "no content" state.
func (d *Document) Marshal() ([]byte, error) {
	if d == nil || d.Root == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// IsEmpty reports whether the document has no text content. Linebreaks and
// empty paragraphs do not count as content.
func (d *Document) IsEmpty() bool {
	return d == nil || ExtractText(d) == ""
}

// isLinkType reports whether a node is an explicit or detected link.
func isLinkType(t string) bool {
	return t == TypeLink || t == TypeAutoLink
}
