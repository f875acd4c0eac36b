package main

import (
	"context"
	"sort"

	"github.com/jward/scopetrace"
)

// workload is an instrumented program the demo command can capture.
type workload struct {
	name        string
	description string
	run         func(ctx context.Context)
}

var workloads = []workload{
	{"basic", "foo calls bar then baz, each records a leaf", basic},
	{"recursive", "naive fibonacci recording a leaf at every base case", func(ctx context.Context) { fib(ctx, 4) }},
	{"bounded", "a nested root hides everything above it", bounded},
	{"fanout", "three handlers reaching one shared helper", fanout},
}

func lookupWorkload(name string) (workload, bool) {
	for _, wl := range workloads {
		if wl.name == name {
			return wl, true
		}
	}
	return workload{}, false
}

func workloadNames() []string {
	names := make([]string, 0, len(workloads))
	for _, wl := range workloads {
		names = append(names, wl.name)
	}
	sort.Strings(names)
	return names
}

//go:noinline
func basic(ctx context.Context) {
	bar(ctx)
	baz(ctx)
}

//go:noinline
func bar(ctx context.Context) {
	scopetrace.Leaf(ctx)
}

//go:noinline
func baz(ctx context.Context) {
	scopetrace.Leaf(ctx)
}

//go:noinline
func fib(ctx context.Context, n int) int {
	if n < 2 {
		scopetrace.Leaf(ctx)
		return n
	}
	return fib(ctx, n-1) + fib(ctx, n-2)
}

//go:noinline
func bounded(ctx context.Context) {
	setup(ctx)
}

//go:noinline
func setup(ctx context.Context) {
	scopetrace.Root(ctx, func(ctx context.Context) struct{} {
		basic(ctx)
		return struct{}{}
	})
}

//go:noinline
func fanout(ctx context.Context) {
	for _, h := range []func(context.Context){handleRead, handleWrite, handleRead} {
		h(ctx)
	}
	handleDelete(ctx)
}

//go:noinline
func handleRead(ctx context.Context) { lookup(ctx) }

//go:noinline
func handleWrite(ctx context.Context) { lookup(ctx) }

//go:noinline
func handleDelete(ctx context.Context) { lookup(ctx) }

//go:noinline
func lookup(ctx context.Context) {
	scopetrace.Leaf(ctx)
}
