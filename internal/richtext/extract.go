package richtext

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractText returns the concatenated plain text of a document, used for
// search indexing and empty-content validation. Traversal is pre-order,
// left to right. No separators are inserted between paragraphs: search
// matching depends on the historical behavior, so multi-paragraph documents
// intentionally collapse to one run.
//
// ExtractText is total over any structurally valid tree: nil documents and
// malformed nodes contribute "" rather than failing.
func ExtractText(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}

	var b strings.Builder
	extractNode(&b, doc.Root)
	return strings.TrimSpace(b.String())
}

func extractNode(b *strings.Builder, n *Node) {
	if n.Type == TypeText {
		// Formatting is a rendering concern; text content is verbatim.
		b.WriteString(n.Text)
		return
	}

	for i := range n.Children {
		extractNode(b, &n.Children[i])
	}
}

// ExtractTextFromHTML extracts the plain text of an HTML fragment. It serves
// the degrade path for rows that predate the document tree and only carry
// rendered HTML.
func ExtractTextFromHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// Corrupt historical markup must not break callers.
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.TrimSpace(b.String())
}
