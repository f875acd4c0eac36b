package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jward/scopetrace"
)

var (
	flagFormat  string
	flagColor   string
	flagShort   bool
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "scopetrace",
	Short:         "Show which call paths reach an instrumentation point",
	Long:          "scopetrace runs built-in instrumented workloads under a capture and prints the merged call tree of every recorded leaf.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		return validateColor(flagColor)
	},
	// No Run: cobra prints help when no subcommand is given.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text|json|pprof")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "colorize text output: auto|always|never")
	rootCmd.PersistentFlags().BoolVar(&flagShort, "short", false, "print base file names instead of full paths")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(listCmd)
}

var demoCmd = &cobra.Command{
	Use:       "demo [workload]",
	Short:     "Capture and print the call tree of a built-in workload",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: workloadNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "basic"
		if len(args) > 0 {
			name = args[0]
		}
		return runDemo(cmd.OutOrStdout(), newLogger(os.Stderr), name)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in workloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatWorkloads(cmd.OutOrStdout())
		return nil
	},
}

func newLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	if flagVerbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// runDemo captures the named workload and writes it in the selected format.
func runDemo(w io.Writer, logger log.Logger, name string) error {
	wl, ok := lookupWorkload(name)
	if !ok {
		return fmt.Errorf("unknown workload %q (see `scopetrace list`)", name)
	}

	start := time.Now()
	_, trace := scopetrace.Capture(context.Background(), func(ctx context.Context) struct{} {
		wl.run(ctx)
		return struct{}{}
	})
	level.Debug(logger).Log("msg", "captured workload", "workload", name, "leaves", trace.Len(), "duration", time.Since(start))

	opts := []scopetrace.Option{
		scopetrace.WithLogger(logger),
		scopetrace.WithShortFiles(flagShort),
		scopetrace.WithColor(useColor(w)),
	}
	return outputTrace(w, trace, flagFormat, opts...)
}

// useColor resolves --color against the output writer.
func useColor(w io.Writer) bool {
	switch flagColor {
	case "always":
		return true
	case "never":
		return false
	}
	if flagFormat != "text" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
