package richtext

import "regexp"

// URL-shaped span patterns. Absolute http(s) URLs and bare www. hosts, each
// with optional port and trailing path/query/fragment. Trailing punctuation
// that commonly ends a sentence is not part of the host grammar and is left
// out of the path-less match.
var (
	absoluteURLPattern = regexp.MustCompile(`https?://[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*(?::\d{1,5})?(?:[/?#][^\s]*)?`)
	wwwURLPattern      = regexp.MustCompile(`www\.[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)+(?::\d{1,5})?(?:[/?#][^\s]*)?`)
)

// DetectLinks scans the document's text nodes for URL-shaped spans and
// replaces each with an autolink node wrapping the matched substring.
// Existing link and autolink subtrees are never descended into, which makes
// detection idempotent. Returns whether the tree changed.
//
// Callers driving live input must not run detection mid-composition; the
// editing session gates that (see Session).
func DetectLinks(doc *Document) bool {
	if doc == nil || doc.Root == nil {
		return false
	}
	return detectInContainer(doc.Root)
}

func detectInContainer(n *Node) bool {
	if len(n.Children) == 0 {
		return false
	}

	changed := false
	out := make([]Node, 0, len(n.Children))
	for i := range n.Children {
		child := n.Children[i]
		switch {
		case isLinkType(child.Type):
			// Already linked; do not double-wrap.
			out = append(out, child)
		case child.Type == TypeText:
			pieces, split := splitTextNode(child)
			if split {
				changed = true
				out = append(out, pieces...)
			} else {
				out = append(out, child)
			}
		default:
			if detectInContainer(&child) {
				changed = true
			}
			out = append(out, child)
		}
	}

	if changed {
		n.Children = out
	}
	return changed
}

// splitTextNode splits one text node around its URL-shaped spans. Non-URL
// segments keep the original node's format bits; the linked text itself is
// carried unformatted inside the autolink.
func splitTextNode(n Node) ([]Node, bool) {
	spans := findURLSpans(n.Text)
	if len(spans) == 0 {
		return nil, false
	}

	var out []Node
	last := 0
	for _, s := range spans {
		if s.start > last {
			out = append(out, TextNode(n.Text[last:s.start], n.Format))
		}
		matched := n.Text[s.start:s.end]
		out = append(out, AutoLinkNode(canonicalURL(matched), matched))
		last = s.end
	}
	if last < len(n.Text) {
		out = append(out, TextNode(n.Text[last:], n.Format))
	}
	return out, true
}

type urlSpan struct {
	start, end int
}

// findURLSpans returns the non-overlapping URL spans of a string in order.
// Absolute URLs win over www. matches contained within them.
func findURLSpans(text string) []urlSpan {
	var spans []urlSpan
	for _, m := range absoluteURLPattern.FindAllStringIndex(text, -1) {
		spans = append(spans, urlSpan{m[0], m[1]})
	}
	for _, m := range wwwURLPattern.FindAllStringIndex(text, -1) {
		if !overlapsAny(spans, m[0], m[1]) {
			spans = append(spans, urlSpan{m[0], m[1]})
		}
	}

	// Restore document order after merging the two pattern passes.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	return spans
}

func overlapsAny(spans []urlSpan, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// canonicalURL turns a matched span into the URL stored on the autolink
// node. Bare www. hosts become https:// absolute URLs.
func canonicalURL(matched string) string {
	if wwwURLPattern.MatchString(matched) && absoluteURLPattern.FindStringIndex(matched) == nil {
		return "https://" + matched
	}
	return matched
}
