package scopetrace

import (
	"encoding/binary"
	"io"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/pprof/profile"
	"github.com/pkg/errors"
)

const sampleType = "leaves"

// Profile converts the trace into a pprof profile. Every distinct stack
// becomes one sample whose value counts how many Leaf calls recorded exactly
// that stack. Empty stacks are dropped.
func (t *Trace) Profile(opts ...Option) *profile.Profile {
	b := &profileBuilder{
		opts:      newOptions(opts),
		samples:   make(map[uint64][]*sampleEntry),
		locations: make(map[uintptr]*profile.Location),
		functions: make(map[functionKey]*profile.Function),
		p: &profile.Profile{
			SampleType: []*profile.ValueType{{Type: sampleType, Unit: "count"}},
			PeriodType: &profile.ValueType{Type: sampleType, Unit: "count"},
			Period:     1,
		},
	}
	if t != nil {
		for _, s := range t.stacks {
			b.add(s)
		}
	}
	return b.p
}

// WriteProfile writes the gzipped pprof encoding of Profile to w.
func (t *Trace) WriteProfile(w io.Writer, opts ...Option) error {
	return errors.Wrap(t.Profile(opts...).Write(w), "write profile")
}

type sampleEntry struct {
	stack  Stack
	sample *profile.Sample
}

type functionKey struct {
	name, file string
}

type profileBuilder struct {
	opts      *options
	p         *profile.Profile
	samples   map[uint64][]*sampleEntry
	locations map[uintptr]*profile.Location
	functions map[functionKey]*profile.Function
}

func (b *profileBuilder) add(s Stack) {
	if len(s) == 0 {
		return
	}
	h := stackHash(s)
	for _, e := range b.samples[h] {
		if slices.Equal(e.stack, s) {
			e.sample.Value[0]++
			return
		}
	}
	sample := &profile.Sample{
		Value:    []int64{1},
		Location: make([]*profile.Location, 0, len(s)),
	}
	for _, pc := range s {
		sample.Location = append(sample.Location, b.location(pc))
	}
	b.samples[h] = append(b.samples[h], &sampleEntry{stack: s, sample: sample})
	b.p.Sample = append(b.p.Sample, sample)
}

func (b *profileBuilder) location(pc uintptr) *profile.Location {
	if loc, ok := b.locations[pc]; ok {
		return loc
	}
	loc := &profile.Location{
		ID:      uint64(len(b.p.Location) + 1),
		Address: uint64(pc),
	}
	// pprof lists inlined callees first, like the resolver does.
	for _, sym := range b.opts.resolver.Resolve(pc) {
		loc.Line = append(loc.Line, profile.Line{
			Function: b.function(sym),
			Line:     int64(sym.Line),
		})
	}
	b.locations[pc] = loc
	b.p.Location = append(b.p.Location, loc)
	return loc
}

func (b *profileBuilder) function(sym Symbol) *profile.Function {
	key := functionKey{name: sym.Name, file: sym.File}
	if fn, ok := b.functions[key]; ok {
		return fn
	}
	fn := &profile.Function{
		ID:         uint64(len(b.p.Function) + 1),
		Name:       sym.Name,
		SystemName: sym.Name,
		Filename:   sym.File,
	}
	b.functions[key] = fn
	b.p.Function = append(b.p.Function, fn)
	return fn
}

func stackHash(s Stack) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, pc := range s {
		binary.LittleEndian.PutUint64(buf[:], uint64(pc))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
