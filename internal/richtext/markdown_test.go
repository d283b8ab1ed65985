package richtext

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	doc := &Document{Root: &Node{Type: TypeRoot, Children: []Node{
		{Type: TypeParagraph, Children: []Node{
			TextNode("plain ", 0),
			TextNode("bold", FormatBold),
			TextNode(" and ", 0),
			TextNode("italic", FormatItalic),
		}},
		{Type: TypeParagraph, Children: []Node{
			TextNode("see ", 0),
			AutoLinkNode("https://example.com", "example.com"),
		}},
	}}}

	md, err := RenderMarkdown(doc, "")
	if err != nil {
		t.Fatalf("RenderMarkdown error: %v", err)
	}

	for _, want := range []string{"**bold**", "*italic*", "[example.com](https://example.com)"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown %q missing %q", md, want)
		}
	}
}

func TestRenderMarkdownFallback(t *testing.T) {
	md, err := RenderMarkdown(nil, "<p><strong>legacy</strong> body</p>")
	if err != nil {
		t.Fatalf("RenderMarkdown fallback error: %v", err)
	}
	if !strings.Contains(md, "**legacy**") {
		t.Errorf("fallback markdown = %q, want bold marker", md)
	}

	md, err = RenderMarkdown(nil, "")
	if err != nil {
		t.Fatalf("RenderMarkdown empty error: %v", err)
	}
	if md != "" {
		t.Errorf("RenderMarkdown(nil, \"\") = %q, want empty", md)
	}
}
