package scopetrace

import (
	"github.com/jward/scopetrace/internal/symbol"
	"github.com/jward/scopetrace/internal/tree"
)

// Public aliases for internal types used in the Trace API. These are Go type
// aliases, so no conversion is needed between the two names.

type Symbol = symbol.Symbol
type Resolver = symbol.Resolver
type ResolverFunc = symbol.ResolverFunc
type Node = tree.Node

// Resolve returns the symbols at pc using the default resolver.
func Resolve(pc uintptr) []Symbol {
	return symbol.Default().Resolve(pc)
}
