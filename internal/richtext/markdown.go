package richtext

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// RenderMarkdown renders a document tree to Markdown, used by the post
// export endpoint. Tree-less rows fall back to converting their sanitized
// rendered HTML; when neither is present the result is "".
func RenderMarkdown(doc *Document, htmlFallback string) (string, error) {
	if doc != nil && doc.Root != nil && len(doc.Root.Children) > 0 {
		var b strings.Builder
		for i := range doc.Root.Children {
			markdownNode(&b, &doc.Root.Children[i])
		}
		return strings.TrimSpace(b.String()), nil
	}

	if htmlFallback == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(fallbackPolicy.Sanitize(htmlFallback))
	if err != nil {
		return "", fmt.Errorf("convert fallback html: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func markdownNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case TypeParagraph:
		for i := range n.Children {
			markdownNode(b, &n.Children[i])
		}
		b.WriteString("\n\n")

	case TypeText:
		b.WriteString(markdownText(n))

	case TypeLink, TypeAutoLink:
		var label strings.Builder
		for i := range n.Children {
			markdownNode(&label, &n.Children[i])
		}
		url := n.URL
		if url == "" {
			url = "#"
		}
		fmt.Fprintf(b, "[%s](%s)", label.String(), url)

	case TypeLineBreak:
		b.WriteString("  \n")

	default:
		for i := range n.Children {
			markdownNode(b, &n.Children[i])
		}
	}
}

// markdownText wraps a text leaf with Markdown emphasis markers. Underline
// has no Markdown form and falls back to the common <u> inline tag.
func markdownText(n *Node) string {
	text := n.Text
	if n.Format&FormatBold != 0 {
		text = "**" + text + "**"
	}
	if n.Format&FormatItalic != 0 {
		text = "*" + text + "*"
	}
	if n.Format&FormatUnderline != 0 {
		text = "<u>" + text + "</u>"
	}
	return text
}
