package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLinksSplitsSurroundingText(t *testing.T) {
	doc := paraDoc(TextNode("visit http://example.com now", 0))

	changed := DetectLinks(doc)
	require.True(t, changed)

	children := doc.Root.Children[0].Children
	require.Len(t, children, 3)

	assert.Equal(t, TypeText, children[0].Type)
	assert.Equal(t, "visit ", children[0].Text)

	assert.Equal(t, TypeAutoLink, children[1].Type)
	assert.Equal(t, "http://example.com", children[1].URL)
	require.Len(t, children[1].Children, 1)
	assert.Equal(t, "http://example.com", children[1].Children[0].Text)

	assert.Equal(t, TypeText, children[2].Type)
	assert.Equal(t, " now", children[2].Text)
}

func TestDetectLinksCanonicalizesWWW(t *testing.T) {
	doc := paraDoc(TextNode("see www.example.com/path?q=1", 0))

	require.True(t, DetectLinks(doc))

	children := doc.Root.Children[0].Children
	require.Len(t, children, 2)
	assert.Equal(t, TypeAutoLink, children[1].Type)
	assert.Equal(t, "https://www.example.com/path?q=1", children[1].URL)
	assert.Equal(t, "www.example.com/path?q=1", children[1].Children[0].Text)
}

func TestDetectLinksIdempotent(t *testing.T) {
	doc := paraDoc(TextNode("visit http://example.com now", 0))

	require.True(t, DetectLinks(doc))
	first := doc.Clone()

	assert.False(t, DetectLinks(doc), "second run must not change the tree")
	assert.Equal(t, first, doc.Clone())
}

func TestDetectLinksSkipsExplicitLinks(t *testing.T) {
	doc := paraDoc(Node{
		Type:     TypeLink,
		URL:      "https://example.com",
		Children: []Node{TextNode("https://example.com", 0)},
	})

	assert.False(t, DetectLinks(doc))
	assert.Equal(t, TypeLink, doc.Root.Children[0].Children[0].Type)
}

func TestDetectLinksMultipleMatches(t *testing.T) {
	doc := paraDoc(TextNode("a http://one.example b www.two.example.com c", 0))

	require.True(t, DetectLinks(doc))
	children := doc.Root.Children[0].Children
	require.Len(t, children, 5)
	assert.Equal(t, "http://one.example", children[1].URL)
	assert.Equal(t, "https://www.two.example.com", children[3].URL)
	assert.Equal(t, " c", children[4].Text)
}

func TestDetectLinksAbsoluteWinsOverContainedWWW(t *testing.T) {
	doc := paraDoc(TextNode("go to https://www.example.com today", 0))

	require.True(t, DetectLinks(doc))
	children := doc.Root.Children[0].Children
	require.Len(t, children, 3)
	assert.Equal(t, "https://www.example.com", children[1].URL)
}

func TestDetectLinksPreservesFormatOnSplits(t *testing.T) {
	doc := paraDoc(TextNode("bold http://example.com tail", FormatBold))

	require.True(t, DetectLinks(doc))
	children := doc.Root.Children[0].Children
	require.Len(t, children, 3)
	assert.Equal(t, FormatBold, children[0].Format)
	assert.Equal(t, FormatBold, children[2].Format)
}

func TestDetectLinksNoMatch(t *testing.T) {
	doc := paraDoc(TextNode("nothing to see here", 0))
	assert.False(t, DetectLinks(doc))
	assert.False(t, DetectLinks(nil))
}
