package scopetrace

import (
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/jward/scopetrace/internal/tree"
)

// Stack is the call path recorded by one Leaf call: return addresses ordered
// from the caller of Leaf up to, but excluding, the Root frame. It is empty
// when Leaf could not find its Root.
type Stack []uintptr

// Trace is the ordered set of stacks recorded during one Capture.
type Trace struct {
	stacks []Stack
}

// Len returns the number of Leaf calls recorded.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.stacks)
}

// Stacks returns a copy of the recorded stacks in the order Leaf was called.
func (t *Trace) Stacks() []Stack {
	if t == nil {
		return nil
	}
	return lo.Map(t.stacks, func(s Stack, _ int) Stack {
		return slices.Clone(s)
	})
}

// Tree merges the recorded stacks into a call tree. Stacks sharing their
// outermost addresses share nodes; the result has more than one root only
// when stacks disagree on their outermost frame.
func (t *Trace) Tree() []*Node {
	if t == nil {
		return nil
	}
	return tree.Build(lo.Map(t.stacks, func(s Stack, _ int) []uintptr {
		return s
	}))
}

// Render writes the call tree to w, one line per frame, using box-drawing
// characters to show the branching.
func (t *Trace) Render(w io.Writer, opts ...Option) error {
	o := newOptions(opts)
	p := &tree.Printer{
		Resolver:   o.resolver,
		Logger:     o.logger,
		Color:      o.color,
		ShortFiles: o.shortFiles,
	}
	return p.Fprint(w, t.Tree())
}

// String renders the call tree with default options.
func (t *Trace) String() string {
	var b strings.Builder
	// strings.Builder never fails.
	_ = t.Render(&b)
	return b.String()
}
