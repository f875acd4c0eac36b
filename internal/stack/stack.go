// Package stack walks the calling goroutine's stack one return address at a
// time, innermost frame first.
package stack

import "runtime"

// chunkSize is how many return addresses Walk reads per runtime.Callers call.
const chunkSize = 32

// Walk calls fn with the return address of each frame on the calling
// goroutine's stack. skip 0 starts at the caller of Walk. Walking stops as
// soon as fn returns false or the stack is exhausted.
//
// Addresses are read in chunks so that a walk which stops early never pays
// for the rest of a deep stack.
//
//go:noinline
func Walk(skip int, fn func(pc uintptr) bool) {
	var pcs [chunkSize]uintptr
	// Skip runtime.Callers and Walk itself.
	skip += 2
	for {
		n := runtime.Callers(skip, pcs[:])
		for _, pc := range pcs[:n] {
			if !fn(pc) {
				return
			}
		}
		if n < len(pcs) {
			return
		}
		skip += n
	}
}

// Entry returns the entry address of the function containing the return
// address pc, or 0 when pc belongs to no known function.
func Entry(pc uintptr) uintptr {
	if pc == 0 {
		return 0
	}
	// pc is a return address; pc-1 lies inside the call instruction.
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return 0
	}
	return fn.Entry()
}

// CallerEntry returns the entry address of the function that called it.
//
//go:noinline
func CallerEntry() uintptr {
	var pcs [1]uintptr
	if runtime.Callers(2, pcs[:]) == 0 {
		return 0
	}
	return Entry(pcs[0])
}

// CallerDepth returns how many frames lie between the function that called it
// and the bottom of the goroutine stack, counting that function. A frame keeps
// its depth for as long as it is on the stack.
//
//go:noinline
func CallerDepth() int {
	n := 0
	Walk(1, func(uintptr) bool {
		n++
		return true
	})
	return n
}
