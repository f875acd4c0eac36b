package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/jward/scopetrace"
)

// validFormats lists accepted values for --format.
var validFormats = []string{"text", "json", "pprof"}

// validColors lists accepted values for --color.
var validColors = []string{"auto", "always", "never"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	if lo.Contains(validFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(validFormats, ", "))
}

// validateColor checks that the --color flag value is recognized.
func validateColor(mode string) error {
	if lo.Contains(validColors, mode) {
		return nil
	}
	return fmt.Errorf("invalid color mode %q: must be one of %s", mode, strings.Join(validColors, ", "))
}

// CLIFrame is the JSON form of one call tree node.
type CLIFrame struct {
	Address  string      `json:"address"`
	Symbols  []CLISymbol `json:"symbols,omitempty"`
	Hits     int         `json:"hits,omitempty"`
	Children []CLIFrame  `json:"children,omitempty"`
}

// CLISymbol is the JSON form of one resolved logical frame.
type CLISymbol struct {
	Function string `json:"function"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// CLIResult wraps the JSON output.
type CLIResult struct {
	Leaves int        `json:"leaves"`
	Tree   []CLIFrame `json:"tree"`
}

func toCLIFrames(nodes []*scopetrace.Node) []CLIFrame {
	return lo.Map(nodes, func(n *scopetrace.Node, _ int) CLIFrame {
		return CLIFrame{
			Address: fmt.Sprintf("%#x", n.PC),
			Symbols: lo.Map(scopetrace.Resolve(n.PC), func(s scopetrace.Symbol, _ int) CLISymbol {
				return CLISymbol{Function: s.Name, File: s.File, Line: s.Line}
			}),
			Hits:     n.Hits,
			Children: toCLIFrames(n.Children),
		}
	})
}

// outputTrace writes trace to w in the given format.
func outputTrace(w io.Writer, trace *scopetrace.Trace, format string, opts ...scopetrace.Option) error {
	switch format {
	case "text":
		if err := trace.Render(w, opts...); err != nil {
			return err
		}
		if trace.Len() > 0 {
			_, err := fmt.Fprintln(w)
			return errors.Wrap(err, "write output")
		}
		return nil
	case "json":
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		result := CLIResult{Leaves: trace.Len(), Tree: toCLIFrames(trace.Tree())}
		if result.Tree == nil {
			result.Tree = []CLIFrame{}
		}
		return errors.Wrap(enc.Encode(result), "encode json")
	case "pprof":
		return trace.WriteProfile(w, opts...)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// formatWorkloads prints the workload table.
func formatWorkloads(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, wl := range workloads {
		fmt.Fprintf(tw, "%s\t%s\n", wl.name, wl.description)
	}
	tw.Flush()
}
