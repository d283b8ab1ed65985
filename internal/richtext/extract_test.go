package richtext

import "testing"

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{
			name: "nil document",
			doc:  nil,
			want: "",
		},
		{
			name: "empty root",
			doc:  &Document{Root: &Node{Type: TypeRoot}},
			want: "",
		},
		{
			name: "single text in paragraph",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{TextNode("hello", 0)}},
			}}},
			want: "hello",
		},
		{
			name: "formatting does not affect content",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{
					TextNode("bold", FormatBold),
					TextNode(" and plain", 0),
				}},
			}}},
			want: "bold and plain",
		},
		{
			name: "paragraphs concatenate without separator",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{TextNode("one", 0)}},
				{Type: TypeParagraph, Children: []Node{TextNode("two", 0)}},
			}}},
			want: "onetwo",
		},
		{
			name: "link text contributes",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{
					TextNode("see ", 0),
					AutoLinkNode("https://example.com", "example.com"),
				}},
			}}},
			want: "see example.com",
		},
		{
			name: "unknown node falls back to children",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: "callout", Children: []Node{TextNode("inside", 0)}},
			}}},
			want: "inside",
		},
		{
			name: "unknown leaf contributes nothing",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{
					{Type: "image"},
					TextNode("after", 0),
				}},
			}}},
			want: "after",
		},
		{
			name: "surrounding whitespace trimmed",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{TextNode("  padded  ", 0)}},
			}}},
			want: "padded",
		},
		{
			name: "linebreaks contribute nothing",
			doc: &Document{Root: &Node{Type: TypeRoot, Children: []Node{
				{Type: TypeParagraph, Children: []Node{
					TextNode("a", 0),
					{Type: TypeLineBreak},
					TextNode("b", 0),
				}},
			}}},
			want: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(tt.doc); got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTextFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"empty", "", ""},
		{"plain paragraph", "<p>hello</p>", "hello"},
		{"nested formatting", "<p><strong><em>x</em></strong> y</p>", "x y"},
		{"anchor text", `<p>see <a href="https://example.com">here</a></p>`, "see here"},
		{"not markup at all", "just text", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTextFromHTML(tt.fragment); got != tt.want {
				t.Errorf("ExtractTextFromHTML(%q) = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte("null"))
	if err != nil {
		t.Fatalf("ParseDocument(null) error: %v", err)
	}
	if doc != nil {
		t.Errorf("ParseDocument(null) = %+v, want nil", doc)
	}

	doc, err = ParseDocument([]byte(`{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	if got := ExtractText(doc); got != "hi" {
		t.Errorf("round-trip text = %q, want %q", got, "hi")
	}

	// An object without a root key is "no content", not an error.
	doc, err = ParseDocument([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseDocument({}) error: %v", err)
	}
	if doc != nil {
		t.Errorf("ParseDocument({}) = %+v, want nil", doc)
	}

	if _, err := ParseDocument([]byte(`{"root":`)); err == nil {
		t.Error("ParseDocument on truncated JSON: want error")
	}
}

func TestDocumentMarshalRoundTrip(t *testing.T) {
	var nilDoc *Document
	data, err := nilDoc.Marshal()
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %s, want null", data)
	}

	doc := &Document{Root: &Node{Type: TypeRoot, Children: []Node{
		{Type: TypeParagraph, Children: []Node{TextNode("persisted", FormatBold | FormatItalic)}},
	}}}
	data, err = doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	back, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	if got := back.Root.Children[0].Children[0].Format; got != FormatBold|FormatItalic {
		t.Errorf("format after round trip = %d, want %d", got, FormatBold|FormatItalic)
	}
}
