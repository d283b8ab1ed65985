package richtext

// SessionState is the editing-session input state. Link detection and other
// text-mutation side effects only run while Idle; during IME composition the
// text is not settled and must not be rewritten.
type SessionState int

const (
	StateIdle SessionState = iota
	StateComposing
)

// ChangeFunc receives the document and its extracted plain text after every
// settled mutation.
type ChangeFunc func(doc *Document, plainText string)

// Snapshot is the boundary artifact handed to persistence on submit. The
// tree is a deep copy: no mutable reference crosses the submit boundary.
type Snapshot struct {
	DocumentTree *Document
	RenderedHTML string
	PlainText    string
}

// Session owns one document being edited. It is the only writer of its
// document and is not safe for concurrent use; each editor owns exactly one
// session. Cross-component wiring happens through the OnChange callback
// rather than any shared event bus, keeping sessions isolated and testable.
type Session struct {
	state    SessionState
	doc      *Document
	format   int
	onChange ChangeFunc

	// detection requested while composing, to run once composition ends
	pendingDetect bool
}

// NewSession creates a session around an empty document.
func NewSession() *Session {
	return &Session{state: StateIdle, doc: NewDocument()}
}

// OnChange registers the change callback. Passing nil unregisters.
func (s *Session) OnChange(fn ChangeFunc) { s.onChange = fn }

// State returns the current input state.
func (s *Session) State() SessionState { return s.state }

// Document returns the live document. Callers must treat it as read-only;
// mutation goes through session operations.
func (s *Session) Document() *Document { return s.doc }

// SetDocument rehydrates the session from a stored tree, e.g. when editing
// an existing post. A nil document resets to empty.
func (s *Session) SetDocument(doc *Document) {
	if doc == nil || doc.Root == nil {
		doc = NewDocument()
	}
	s.doc = doc
	s.settle()
}

// InsertText appends text to the current paragraph using the session's
// active format bits. Adjacent text runs with identical format merge.
func (s *Session) InsertText(text string) {
	if text == "" {
		return
	}
	p := s.currentParagraph()
	if n := len(p.Children); n > 0 {
		last := &p.Children[n-1]
		if last.Type == TypeText && last.Format == s.format {
			last.Text += text
			s.settle()
			return
		}
	}
	p.Children = append(p.Children, TextNode(text, s.format))
	s.settle()
}

// InsertParagraph starts a new paragraph.
func (s *Session) InsertParagraph() {
	s.doc.Root.Children = append(s.doc.Root.Children, Node{Type: TypeParagraph})
	s.settle()
}

// InsertLineBreak appends a hard line break to the current paragraph.
func (s *Session) InsertLineBreak() {
	p := s.currentParagraph()
	p.Children = append(p.Children, Node{Type: TypeLineBreak})
	s.settle()
}

// ToggleFormat flips the given format bits for subsequent insertions.
func (s *Session) ToggleFormat(bits int) {
	s.format ^= bits
}

// Format returns the active format bits.
func (s *Session) Format() int { return s.format }

// BeginComposition enters IME composition; link detection is suspended
// until EndComposition.
func (s *Session) BeginComposition() {
	s.state = StateComposing
}

// EndComposition leaves IME composition and runs any detection deferred
// while composing.
func (s *Session) EndComposition() {
	s.state = StateIdle
	if s.pendingDetect {
		s.pendingDetect = false
		s.settle()
	}
}

// Snapshot produces the submit-boundary artifact: a deep copy of the tree
// plus its rendered HTML and extracted plain text.
func (s *Session) Snapshot() Snapshot {
	clone := s.doc.Clone()
	return Snapshot{
		DocumentTree: clone,
		RenderedHTML: Render(clone, ""),
		PlainText:    ExtractText(clone),
	}
}

// Reset clears the session back to an empty document after a successful
// submit or cancel.
func (s *Session) Reset() {
	s.doc = NewDocument()
	s.format = 0
	s.pendingDetect = false
	s.state = StateIdle
	s.notify()
}

// settle runs post-mutation side effects: link detection when the input is
// settled, then the change callback.
func (s *Session) settle() {
	if s.state == StateComposing {
		s.pendingDetect = true
	} else {
		DetectLinks(s.doc)
	}
	s.notify()
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange(s.doc, ExtractText(s.doc))
	}
}

func (s *Session) currentParagraph() *Node {
	root := s.doc.Root
	if len(root.Children) == 0 {
		root.Children = append(root.Children, Node{Type: TypeParagraph})
	}
	return &root.Children[len(root.Children)-1]
}

// Clone deep-copies a document.
func (d *Document) Clone() *Document {
	if d == nil || d.Root == nil {
		return nil
	}
	root := cloneNode(*d.Root)
	return &Document{Root: &root}
}

func cloneNode(n Node) Node {
	out := n
	if len(n.Children) > 0 {
		out.Children = make([]Node, len(n.Children))
		for i := range n.Children {
			out.Children[i] = cloneNode(n.Children[i])
		}
	}
	return out
}
