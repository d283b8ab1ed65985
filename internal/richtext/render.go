package richtext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// fallbackPolicy sanitizes precomputed HTML before it is served on the
// degrade path. UGC policy: common formatting survives, scripts, event
// handlers and javascript: URLs do not.
var fallbackPolicy = bluemonday.UGCPolicy()

// Render renders a document tree to an HTML string. When the tree is absent
// or empty and htmlFallback is non-empty, the fallback is sanitized and
// returned instead; when both are absent the result is "".
//
// Render never fails: unknown node types render their children without
// wrapping markup, unknown leaf types render nothing.
func Render(doc *Document, htmlFallback string) string {
	if doc != nil && doc.Root != nil && len(doc.Root.Children) > 0 {
		var b strings.Builder
		for i := range doc.Root.Children {
			renderNode(&b, &doc.Root.Children[i])
		}
		if b.Len() > 0 {
			return b.String()
		}
	}

	if htmlFallback != "" {
		return fallbackPolicy.Sanitize(htmlFallback)
	}
	return ""
}

func renderNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case TypeParagraph:
		b.WriteString("<p>")
		renderChildren(b, n)
		b.WriteString("</p>")

	case TypeText:
		renderText(b, n)

	case TypeLink, TypeAutoLink:
		url := n.URL
		if url == "" {
			url = "#"
		}
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(url))
		b.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		renderChildren(b, n)
		b.WriteString("</a>")

	case TypeLineBreak:
		b.WriteString("<br>")

	default:
		// Unknown container: children only, no markup of its own.
		// Unknown leaf: nothing.
		renderChildren(b, n)
	}
}

func renderChildren(b *strings.Builder, n *Node) {
	for i := range n.Children {
		renderNode(b, &n.Children[i])
	}
}

// renderText writes a text leaf with its format wrappers. Wrappers nest
// underline(italic(bold(text))), applied from bit 0 upward; all set bits are
// honored.
func renderText(b *strings.Builder, n *Node) {
	var opening, closing string
	if n.Format&FormatBold != 0 {
		opening = "<strong>" + opening
		closing = closing + "</strong>"
	}
	if n.Format&FormatItalic != 0 {
		opening = "<em>" + opening
		closing = closing + "</em>"
	}
	if n.Format&FormatUnderline != 0 {
		opening = "<u>" + opening
		closing = closing + "</u>"
	}

	b.WriteString(opening)
	b.WriteString(html.EscapeString(n.Text))
	b.WriteString(closing)
}
