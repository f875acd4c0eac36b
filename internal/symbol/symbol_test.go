package symbol

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:noinline
func here() uintptr {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	return pcs[0]
}

func TestSymbol_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sym  Symbol
		want string
	}{
		{"full", Symbol{Name: "pkg.fn", File: "/src/a.go", Line: 12, Column: 3}, "pkg.fn at /src/a.go:12:3"},
		{"no column", Symbol{Name: "pkg.fn", File: "/src/a.go", Line: 12}, "pkg.fn at /src/a.go:12"},
		{"no line", Symbol{Name: "pkg.fn", File: "/src/a.go"}, "pkg.fn at /src/a.go"},
		{"name only", Symbol{Name: "pkg.fn"}, "pkg.fn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sym.String())
		})
	}
}

func TestRuntime_ResolvesCallSite(t *testing.T) {
	t.Parallel()
	pc := here()

	syms := Runtime().Resolve(pc)
	require.Len(t, syms, 1)
	assert.True(t, strings.HasSuffix(syms[0].Name, "symbol.TestRuntime_ResolvesCallSite"), syms[0].Name)
	assert.True(t, strings.HasSuffix(syms[0].File, "symbol_test.go"), syms[0].File)
	assert.Positive(t, syms[0].Line)
}

func TestRuntime_UnknownAddress(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Runtime().Resolve(0))
	assert.Empty(t, Runtime().Resolve(1))
}

func TestCache_ResolvesOncePerAddress(t *testing.T) {
	t.Parallel()
	calls := map[uintptr]int{}
	inner := ResolverFunc(func(pc uintptr) []Symbol {
		calls[pc]++
		if pc == 0xdead {
			return nil
		}
		return []Symbol{{Name: "fn"}}
	})
	c, err := NewCache(inner, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, []Symbol{{Name: "fn"}}, c.Resolve(0x10))
		assert.Empty(t, c.Resolve(0xdead))
	}
	assert.Equal(t, 1, calls[0x10])
	assert.Equal(t, 1, calls[0xdead])
	assert.Equal(t, 2, c.Len())
}

func TestCache_Evicts(t *testing.T) {
	t.Parallel()
	c, err := NewCache(ResolverFunc(func(uintptr) []Symbol { return nil }), 2)
	require.NoError(t, err)
	for pc := uintptr(1); pc <= 5; pc++ {
		c.Resolve(pc)
	}
	assert.Equal(t, 2, c.Len())
}

func TestNewCache_InvalidSize(t *testing.T) {
	t.Parallel()
	_, err := NewCache(Runtime(), 0)
	require.Error(t, err)
}

func TestDefault_IsShared(t *testing.T) {
	t.Parallel()
	assert.Same(t, Default(), Default())
}
