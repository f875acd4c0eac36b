package scopetrace

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/jward/scopetrace/internal/stack"
)

type frameKey struct{}

type collectorKey struct{}

// frame is one active Root invocation.
type frame struct {
	// boundary is the entry address of the Root instantiation that pushed
	// this frame. Instantiations of the same shape share one entry, so depth
	// pins the frame down to this call.
	boundary uintptr
	depth    int
	parent   *frame
	exited   atomic.Bool
}

// activeFrame returns the innermost frame in ctx whose Root has not returned.
func activeFrame(ctx context.Context) *frame {
	fr, _ := ctx.Value(frameKey{}).(*frame)
	for fr != nil && fr.exited.Load() {
		fr = fr.parent
	}
	return fr
}

// collector accumulates the stacks recorded during one Capture.
type collector struct {
	parent *collector
	closed atomic.Bool

	mu     sync.Mutex
	stacks []Stack
}

// activeCollector returns the innermost collector in ctx whose Capture has
// not returned.
func activeCollector(ctx context.Context) *collector {
	c, _ := ctx.Value(collectorKey{}).(*collector)
	for c != nil && c.closed.Load() {
		c = c.parent
	}
	return c
}

func (c *collector) add(s Stack) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return
	}
	c.stacks = append(c.stacks, s)
}

func (c *collector) close() *Trace {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed.Store(true)
	return &Trace{stacks: c.stacks}
}

// Root calls f and returns its result. Stacks recorded by Leaf inside f stop
// at the frame of this Root call, so nothing outside f appears in a trace.
//
// Roots nest. Whichever way f exits, including a panic, contexts derived from
// the one passed to f fall back to the enclosing Root once this one returns.
//
//go:noinline
func Root[R any](ctx context.Context, f func(context.Context) R) R {
	fr := &frame{
		boundary: stack.CallerEntry(),
		depth:    stack.CallerDepth(),
		parent:   activeFrame(ctx),
	}
	defer fr.exited.Store(true)
	return f(context.WithValue(ctx, frameKey{}, fr))
}

// Capture calls f under a new Root and returns its result together with every
// stack recorded by Leaf during the call, in the order Leaf was called.
//
// Captures nest independently: a Leaf belongs to the innermost Capture that
// is still running, and never to an enclosing one.
func Capture[R any](ctx context.Context, f func(context.Context) R) (r R, tr *Trace) {
	c := &collector{parent: activeCollector(ctx)}
	// Close on panic as well, so leaked contexts stop recording.
	defer func() { tr = c.close() }()
	r = Root(context.WithValue(ctx, collectorKey{}, c), f)
	return r, nil
}
