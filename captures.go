package stentorian

// CaptureTree is the nested record of which sub-rule matched which
// sub-sequence of the recognized word stream (§3, GLOSSARY). Siblings
// are ordered by start position.
type CaptureTree struct {
	Name     string
	Span     Span
	Children []CaptureTree
}

// captureFrame is an in-progress or completed capture, built while the
// VM runs. Grounded on the original source's resultparser/captures.rs
// CaptureBuilder, translated from an Option-less Rust enum (Started /
// Complete) into an explicit "open" flag.
type captureFrame struct {
	name     string
	start    int
	end      int
	open     bool
	children []CaptureTree
}

// captureBuilder accumulates capture frames for one VM thread
// (§4.3 "Capture builder invariants").
type captureBuilder struct {
	frames []captureFrame
	roots  []CaptureTree
}

// start pushes a new open frame at position pos.
func (b *captureBuilder) start(name string, pos int) {
	b.frames = append(b.frames, captureFrame{name: name, start: pos, open: true})
}

// stop closes the innermost frame at position pos, appending it to its
// parent's children or, if it was a root frame, to the completed-roots
// list.
func (b *captureBuilder) stop(pos int) {
	n := len(b.frames)
	top := b.frames[n-1]
	top.end = pos
	top.open = false
	b.frames = b.frames[:n-1]

	completed := CaptureTree{Name: top.name, Span: Span{Start: top.start, End: top.end}, Children: top.children}

	if len(b.frames) == 0 {
		b.roots = append(b.roots, completed)
	} else {
		parent := &b.frames[len(b.frames)-1]
		parent.children = append(parent.children, completed)
	}
}

// done returns the completed root captures, in order.
func (b *captureBuilder) done() []CaptureTree {
	return b.roots
}

// clone returns a deep-enough copy of b suitable for a forked VM
// thread: every frame's children slice is an independent copy so that
// appends in one branch never alias another's.
func (b *captureBuilder) clone() captureBuilder {
	frames := make([]captureFrame, len(b.frames))
	for i, f := range b.frames {
		children := make([]CaptureTree, len(f.children))
		copy(children, f.children)
		f.children = children
		frames[i] = f
	}
	roots := make([]CaptureTree, len(b.roots))
	copy(roots, b.roots)
	return captureBuilder{frames: frames, roots: roots}
}
