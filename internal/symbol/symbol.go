// Package symbol resolves return addresses to function, file and line
// information.
package symbol

import (
	"runtime"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// DefaultCacheSize bounds the number of addresses the process-wide resolver
// remembers.
const DefaultCacheSize = 4096

// Symbol is the resolved metadata for one logical frame. Line and Column are
// zero when unknown; Go binaries never carry column information.
type Symbol struct {
	Name   string
	File   string
	Line   int
	Column int
}

// String formats the symbol as "name at file:line:col", dropping the parts
// that are unknown.
func (s Symbol) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if loc := s.Location(); loc != "" {
		b.WriteString(" at ")
		b.WriteString(loc)
	}
	return b.String()
}

// Location formats "file:line:col" without the function name.
func (s Symbol) Location() string {
	if s.File == "" {
		return ""
	}
	loc := s.File
	if s.Line > 0 {
		loc += ":" + strconv.Itoa(s.Line)
		if s.Column > 0 {
			loc += ":" + strconv.Itoa(s.Column)
		}
	}
	return loc
}

// Resolver maps an address to its chain of logical frames, innermost first.
// An empty result means the address could not be resolved.
type Resolver interface {
	Resolve(pc uintptr) []Symbol
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(pc uintptr) []Symbol

func (f ResolverFunc) Resolve(pc uintptr) []Symbol { return f(pc) }

type runtimeResolver struct{}

// Runtime returns a Resolver backed by the running binary's symbol tables.
func Runtime() Resolver { return runtimeResolver{} }

func (runtimeResolver) Resolve(pc uintptr) []Symbol {
	if pc == 0 {
		return nil
	}
	var syms []Symbol
	frames := runtime.CallersFrames([]uintptr{pc})
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			syms = append(syms, Symbol{
				Name: frame.Function,
				File: frame.File,
				Line: frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return syms
}

// Cache memoizes another Resolver per address. Resolution never depends on
// anything but the address, so entries never go stale.
type Cache struct {
	resolver Resolver
	entries  *lru.Cache[uintptr, []Symbol]
}

// NewCache wraps r with an LRU cache holding up to size addresses.
func NewCache(r Resolver, size int) (*Cache, error) {
	entries, err := lru.New[uintptr, []Symbol](size)
	if err != nil {
		return nil, errors.Wrap(err, "symbol cache")
	}
	return &Cache{resolver: r, entries: entries}, nil
}

func (c *Cache) Resolve(pc uintptr) []Symbol {
	if syms, ok := c.entries.Get(pc); ok {
		return syms
	}
	syms := c.resolver.Resolve(pc)
	c.entries.Add(pc, syms)
	return syms
}

// Len reports how many addresses are cached.
func (c *Cache) Len() int { return c.entries.Len() }

var defaultResolver = sync.OnceValue(func() Resolver {
	c, err := NewCache(Runtime(), DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the process-wide cached runtime resolver.
func Default() Resolver { return defaultResolver() }
