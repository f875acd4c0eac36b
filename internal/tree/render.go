package tree

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/jward/scopetrace/internal/symbol"
)

const (
	glyphRoot = "╼ "
	glyphMid  = "├╼ "
	glyphLast = "└╼ "

	padRoot = "  "
	padBar  = "│  "
	padNone = "   "
)

// Printer renders a forest of nodes as a box-drawn tree, one line per
// resolved symbol.
type Printer struct {
	Resolver symbol.Resolver
	Logger   log.Logger
	// Color highlights function names.
	Color bool
	// ShortFiles prints base file names instead of full paths.
	ShortFiles bool
}

type printer struct {
	*Printer
	w     io.Writer
	first bool
	err   error

	name *color.Color
	loc  *color.Color
}

// Fprint writes the forest to w. Lines are separated by newlines; there is no
// trailing newline.
func (p *Printer) Fprint(w io.Writer, roots []*Node) error {
	pp := &printer{
		Printer: p,
		w:       w,
		first:   true,
		name:    color.New(color.FgCyan, color.Bold),
		loc:     color.New(color.Faint),
	}
	if p.Color {
		pp.name.EnableColor()
		pp.loc.EnableColor()
	} else {
		pp.name.DisableColor()
		pp.loc.DisableColor()
	}
	for _, r := range roots {
		pp.node(r, "", glyphRoot, padRoot)
	}
	return errors.Wrap(pp.err, "render tree")
}

// node prints n with the given prefix and glyph. cont is appended to pad for
// everything nested under n.
func (p *printer) node(n *Node, pad, glyph, cont string) {
	lines := p.lines(n.PC)
	p.line(pad + glyph + lines[0])
	// Further inline frames at this address nest as a single-child chain.
	for _, l := range lines[1:] {
		pad += cont
		cont = padNone
		p.line(pad + glyphLast + l)
	}

	pad += cont
	for i, c := range n.Children {
		if i == len(n.Children)-1 {
			p.node(c, pad, glyphLast, padNone)
		} else {
			p.node(c, pad, glyphMid, padBar)
		}
	}
}

func (p *printer) lines(pc uintptr) []string {
	var syms []symbol.Symbol
	if p.Resolver != nil {
		syms = p.Resolver.Resolve(pc)
	}
	if len(syms) == 0 {
		if p.Logger != nil {
			level.Debug(p.Logger).Log("msg", "unresolved address", "pc", fmt.Sprintf("%#x", pc))
		}
		return []string{fmt.Sprintf("%#x", pc)}
	}
	lines := make([]string, 0, len(syms))
	for _, s := range syms {
		lines = append(lines, p.format(s))
	}
	return lines
}

func (p *printer) format(s symbol.Symbol) string {
	if p.ShortFiles && s.File != "" {
		s.File = filepath.Base(s.File)
	}
	out := p.name.Sprint(s.Name)
	if loc := s.Location(); loc != "" {
		out += " at " + p.loc.Sprint(loc)
	}
	return out
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	if !p.first {
		s = "\n" + s
	}
	p.first = false
	_, p.err = io.WriteString(p.w, s)
}
