// Package scopetrace records which call paths reach an instrumentation point
// and merges them into a single call tree.
//
// # Roots and leaves
//
// [Root] marks the upper bound of a trace and [Leaf] marks a point at which a
// call path is recorded. [Capture] runs a function under a new Root and
// returns every path recorded beneath it:
//
//	func main() {
//		_, trace := scopetrace.Capture(context.Background(), func(ctx context.Context) struct{} {
//			foo(ctx)
//			return struct{}{}
//		})
//		fmt.Println(trace)
//	}
//
//	func foo(ctx context.Context) {
//		bar(ctx)
//		baz(ctx)
//	}
//
//	func bar(ctx context.Context) { scopetrace.Leaf(ctx) }
//	func baz(ctx context.Context) { scopetrace.Leaf(ctx) }
//
// prints something like:
//
//	╼ main.main.func1 at /src/main.go:10
//	  ├╼ main.foo at /src/main.go:18
//	  │  └╼ main.bar at /src/main.go:22
//	  └╼ main.foo at /src/main.go:19
//	     └╼ main.baz at /src/main.go:23
//
// Each path stops at the Root, so callers of Capture never show up.
//
// # Scope
//
// The active Root and Capture travel in the [context.Context]. Leaf does
// nothing unless ctx carries a running Capture, which makes it cheap to leave
// in production code. Roots and captures nest: a Leaf belongs to the
// innermost running Capture and stops at the innermost running Root. When
// a Root returns or panics, contexts derived from it fall back to the
// enclosing Root.
//
// # Identity
//
// Frames are merged by return address, never by name. Two calls to the same
// function from different call sites are different nodes, and recursion shows
// every level.
//
// # Output
//
// [Trace.String] and [Trace.Render] draw the tree, resolving addresses
// lazily; addresses that cannot be resolved are printed in hex.
// [Trace.Profile] converts a trace into a pprof profile.
package scopetrace
