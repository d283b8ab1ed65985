package richtext

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{
			name: "nil renders nothing",
			doc:  nil,
			want: "",
		},
		{
			name: "plain paragraph",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{TextNode("hello", 0)}},
			}}},
			want: "<p>hello</p>",
		},
		{
			name: "childless paragraph collapses",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph},
			}}},
			want: "<p></p>",
		},
		{
			name: "bold",
			doc:  paraDoc(TextNode("x", FormatBold)),
			want: "<p><strong>x</strong></p>",
		},
		{
			name: "italic nests with bold",
			doc:  paraDoc(TextNode("x", FormatBold|FormatItalic)),
			want: "<p><em><strong>x</strong></em></p>",
		},
		{
			name: "underline outermost",
			doc:  paraDoc(TextNode("x", FormatBold|FormatItalic|FormatUnderline)),
			want: "<p><u><em><strong>x</strong></em></u></p>",
		},
		{
			name: "unrecognized format bits ignored",
			doc:  paraDoc(TextNode("x", 1<<6)),
			want: "<p>x</p>",
		},
		{
			name: "text is escaped",
			doc:  paraDoc(TextNode("a < b & c", 0)),
			want: "<p>a &lt; b &amp; c</p>",
		},
		{
			name: "link",
			doc:  paraDoc(Node{Type: TypeLink, URL: "https://example.com", Children: []Node{TextNode("here", 0)}}),
			want: `<p><a href="https://example.com" target="_blank" rel="noopener noreferrer">here</a></p>`,
		},
		{
			name: "autolink renders identically to link",
			doc:  paraDoc(AutoLinkNode("https://example.com", "here")),
			want: `<p><a href="https://example.com" target="_blank" rel="noopener noreferrer">here</a></p>`,
		},
		{
			name: "link without url gets hash href",
			doc:  paraDoc(Node{Type: TypeLink, Children: []Node{TextNode("here", 0)}}),
			want: `<p><a href="#" target="_blank" rel="noopener noreferrer">here</a></p>`,
		},
		{
			name: "linebreak",
			doc:  paraDoc(TextNode("a", 0), Node{Type: TypeLineBreak}, TextNode("b", 0)),
			want: "<p>a<br>b</p>",
		},
		{
			name: "unknown container renders children only",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: "collapsible", Children: []Node{
					{Type: TypeParagraph, Children: []Node{TextNode("inner", 0)}},
				}},
			}}},
			want: "<p>inner</p>",
		},
		{
			name: "unknown leaf renders nothing",
			doc:  paraDoc(Node{Type: "mention"}),
			want: "<p></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.doc, ""); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderAllThreeWrappersPresent(t *testing.T) {
	got := Render(paraDoc(TextNode("x", 7)), "")
	for _, tag := range []string{"<strong>", "<em>", "<u>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("Render() = %q, missing %s", got, tag)
		}
	}
	if !strings.Contains(got, "x") {
		t.Errorf("Render() = %q, text dropped", got)
	}
}

func TestRenderHTMLFallback(t *testing.T) {
	if got := Render(nil, "<p>legacy</p>"); got != "<p>legacy</p>" {
		t.Errorf("fallback = %q, want %q", got, "<p>legacy</p>")
	}

	// The fallback path is trusted-but-sanitized: scripts must not survive.
	got := Render(nil, `<p>ok</p><script>alert(1)</script>`)
	if strings.Contains(got, "script") {
		t.Errorf("fallback = %q, script survived sanitization", got)
	}

	// An empty tree with a fallback uses the fallback.
	empty := &Document{Root: &Node{Type: TypeRoot}}
	if got := Render(empty, "<p>legacy</p>"); got != "<p>legacy</p>" {
		t.Errorf("empty-tree fallback = %q, want %q", got, "<p>legacy</p>")
	}

	if got := Render(nil, ""); got != "" {
		t.Errorf("Render(nil, \"\") = %q, want empty", got)
	}
}

// Rendering then stripping markup must preserve the character sequence
// extraction sees, for trees without links.
func TestRenderExtractRoundTrip(t *testing.T) {
	docs := []*Document{
		paraDoc(TextNode("hello world", 0)),
		paraDoc(TextNode("bold", FormatBold), TextNode(" tail", 0)),
		{Root: &Node{Type: TypeRoot, Children: []Node{
			{Type: TypeParagraph, Children: []Node{TextNode("one", FormatUnderline)}},
			{Type: TypeParagraph, Children: []Node{TextNode("two", 0), {Type: TypeLineBreak}, TextNode("three", FormatItalic)}},
		}}},
	}

	for _, doc := range docs {
		rendered := Render(doc, "")
		if got, want := ExtractTextFromHTML(rendered), ExtractText(doc); got != want {
			t.Errorf("round trip through %q = %q, want %q", rendered, got, want)
		}
	}
}

func paraDoc(children ...Node) *Document {
	return &Document{Root: &Node{Type: TypeRoot, Children: []Node{
		{Type: TypeParagraph, Children: children},
	}}}
}
