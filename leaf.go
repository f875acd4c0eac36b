package scopetrace

import (
	"context"

	"github.com/jward/scopetrace/internal/stack"
)

// Leaf records the call path from its caller up to the innermost running Root
// in ctx and appends it to the innermost running Capture.
//
// Leaf is safe to call anywhere. Without a running Capture it returns without
// walking the stack. When the Root's frame is not on the calling goroutine's
// stack, for example because ctx was handed to another goroutine, the
// recorded stack is empty.
//
//go:noinline
func Leaf(ctx context.Context) {
	c := activeCollector(ctx)
	if c == nil {
		return
	}
	fr := activeFrame(ctx)
	if fr == nil {
		c.add(Stack{})
		return
	}

	// Skip Leaf itself; the first address is the call site of Leaf. The
	// walk runs to the bottom so each address's depth is known.
	var pcs []uintptr
	stack.Walk(1, func(pc uintptr) bool {
		pcs = append(pcs, pc)
		return true
	})

	s := Stack{}
	for i, pc := range pcs {
		if len(pcs)-i == fr.depth && stack.Entry(pc) == fr.boundary {
			s = Stack(pcs[:i:i])
			break
		}
	}
	c.add(s)
}
