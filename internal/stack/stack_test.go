package stack

import (
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return ""
	}
	return fn.Name()
}

//go:noinline
func collect(skip int) []uintptr {
	var pcs []uintptr
	Walk(skip, func(pc uintptr) bool {
		pcs = append(pcs, pc)
		return true
	})
	return pcs
}

//go:noinline
func recurse(depth int, fn func() []uintptr) []uintptr {
	if depth == 0 {
		return fn()
	}
	return recurse(depth-1, fn)
}

//go:noinline
func selfEntry() uintptr {
	return CallerEntry()
}

func TestWalk_StartsAtCaller(t *testing.T) {
	t.Parallel()
	pcs := collect(0)
	require.NotEmpty(t, pcs)
	assert.True(t, strings.HasSuffix(funcName(pcs[0]), "stack.collect"), funcName(pcs[0]))
	assert.True(t, strings.HasSuffix(funcName(pcs[1]), "stack.TestWalk_StartsAtCaller"), funcName(pcs[1]))
}

func TestWalk_SkipDropsInnerFrames(t *testing.T) {
	t.Parallel()
	pcs := collect(1)
	require.NotEmpty(t, pcs)
	assert.True(t, strings.HasSuffix(funcName(pcs[0]), "stack.TestWalk_SkipDropsInnerFrames"), funcName(pcs[0]))
}

func TestWalk_StopsWhenCallbackReturnsFalse(t *testing.T) {
	t.Parallel()
	calls := 0
	Walk(0, func(uintptr) bool {
		calls++
		return calls < 3
	})
	assert.Equal(t, 3, calls)
}

func TestWalk_DeepStackCrossesChunks(t *testing.T) {
	t.Parallel()
	const depth = 3 * chunkSize
	pcs := recurse(depth, func() []uintptr { return collect(0) })

	recursive := 0
	for _, pc := range pcs {
		if strings.HasSuffix(funcName(pc), "stack.recurse") {
			recursive++
		}
	}
	assert.Equal(t, depth+1, recursive)
}

func TestWalk_TerminatesAtStackExhaustion(t *testing.T) {
	t.Parallel()
	seen := 0
	Walk(0, func(uintptr) bool {
		seen++
		return true
	})
	assert.Positive(t, seen)
}

func TestEntry(t *testing.T) {
	t.Parallel()
	want := runtime.FuncForPC(reflect.ValueOf(selfEntry).Pointer()).Entry()
	assert.Equal(t, want, selfEntry())
	assert.Zero(t, Entry(0))
}

func TestEntry_SameFunctionDifferentReturnAddresses(t *testing.T) {
	t.Parallel()
	a := collect(0)
	b := collect(0)
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	// Two call sites in this test: distinct return addresses, one entry.
	assert.NotEqual(t, a[1], b[1])
	assert.Equal(t, Entry(a[1]), Entry(b[1]))
}

//go:noinline
func depthPair() (outer, inner int) {
	return CallerDepth(), selfDepth()
}

//go:noinline
func selfDepth() int {
	return CallerDepth()
}

func TestCallerDepth_CountsToStackBottom(t *testing.T) {
	t.Parallel()
	outer, inner := depthPair()
	assert.Equal(t, outer+1, inner)

	// A full walk from a frame yields as many addresses as its depth.
	var pcs []uintptr
	var depth int
	recurse(5, func() []uintptr {
		depth = selfDepth()
		pcs = collect(0)
		return nil
	})
	assert.Equal(t, len(pcs), depth)
}
