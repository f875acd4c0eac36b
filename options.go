package scopetrace

import (
	"github.com/go-kit/log"

	"github.com/jward/scopetrace/internal/symbol"
)

// Option configures how a Trace is resolved and rendered.
type Option func(*options)

type options struct {
	resolver   Resolver
	logger     log.Logger
	color      bool
	shortFiles bool
}

func newOptions(opts []Option) *options {
	o := &options{
		resolver: symbol.Default(),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithResolver replaces the default resolver, which reads the running
// binary's symbol tables and caches results per address.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithLogger sets the logger used to report addresses that fail to resolve.
// The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithColor enables ANSI colors in rendered trees.
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = enabled
	}
}

// WithShortFiles renders base file names instead of full paths.
func WithShortFiles(short bool) Option {
	return func(o *options) {
		o.shortFiles = short
	}
}
