// Package cli implements the textselect command tree: one subcommand per
// engine operation, model image inspection, and the serving mode.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/textselect/internal/engine"
	"github.com/turtacn/textselect/internal/monitoring/logging"
	"github.com/turtacn/textselect/pkg/types/span"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ModelPath    string
	LogLevel     string
	OutputFormat string // "json" | "text"
	NoColor      bool
}

// NewRootCommand creates the root command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "textselect",
		Short:   "On-device smart text selection and classification",
		Long:    "textselect runs a packed selection/classification model: it expands tapped\nspans to full entities, labels selections (url, email, phone, ...), and\nannotates whole strings.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ModelPath, "model", "m", "", "path to the model image")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format: json|text")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newSuggestCmd(opts),
		newClassifyCmd(opts),
		newAnnotateCmd(opts),
		newInspectCmd(opts),
		newServeCmd(),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ─────────────────────────────────────────────────────────────────────────────

// newLogger builds the CLI logger from the global flags.  Inference commands
// default to "warn" so that stdout stays parseable.
func newLogger(opts *RootOptions) logging.Logger {
	log, err := logging.NewLogger(logging.Config{Level: opts.LogLevel, Format: "console"})
	if err != nil {
		return logging.NewNop()
	}
	return log
}

// openContainer loads the model and fails if the image did not produce a
// live container: the CLI is an operator tool, silent degradation helps
// nobody here.
func openContainer(opts *RootOptions) (*engine.Container, error) {
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("--model is required")
	}
	ct := engine.NewFromPath(opts.ModelPath, engine.WithLogger(newLogger(opts)))
	if !ct.IsInitialized() {
		ct.Close()
		return nil, fmt.Errorf("model image %q did not load; run 'textselect inspect' for details", opts.ModelPath)
	}
	return ct, nil
}

// parseSpanArgs parses two positional codepoint indices.
func parseSpanArgs(firstArg, lastArg string) (span.CodepointSpan, error) {
	first, err := strconv.Atoi(firstArg)
	if err != nil {
		return span.Invalid(), fmt.Errorf("invalid span start %q: %w", firstArg, err)
	}
	last, err := strconv.Atoi(lastArg)
	if err != nil {
		return span.Invalid(), fmt.Errorf("invalid span end %q: %w", lastArg, err)
	}
	return span.CodepointSpan{First: first, Last: last}, nil
}

// printResult renders v as JSON or hands off to the text renderer.
func printResult(w io.Writer, format string, v interface{}, text func(io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("error:"), err)
}
