// Command grustc-core is a thin debug harness over internal/pipeline, the
// same role the teacher's cmd/typecheck plays next to its full cmd/ailang
// CLI: it never parses GRust source itself (that's an external
// collaborator's job, per internal/ast's package doc), it only drives the
// already-lowered-from-JSON middle-end so the pipeline can be exercised
// from the command line without a parser on hand.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/grust-lang/grustc-core/internal/astjson"
	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/pipeline"
)

type runOptions struct {
	dumpYAML    bool
	interactive bool
	jsonOut     bool
	compact     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "grustc-core [fixture.json]",
		Short: "Run the GRust middle-end pipeline over a JSON-encoded ast.File",
		Long: "grustc-core reads a JSON-encoded ast.File from stdin, or from the path\n" +
			"given as the sole argument, runs it through internal/pipeline, and\n" +
			"prints either the IR2 bundle summary or the collected diagnostics.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				return runInteractive(cmd.OutOrStdout(), opts)
			}
			return runOnce(cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dumpYAML, "dump-yaml", false, "print the materialised IR2 bundle as YAML")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "re-read and re-run a fixture path on each prompt")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print diagnostics as JSON instead of the human renderer")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "compact JSON diagnostics (only meaningful with --json)")

	return cmd
}

func readFixture(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(stdin)
}

func runOnce(stdin io.Reader, out io.Writer, args []string, opts *runOptions) error {
	data, err := readFixture(stdin, args)
	if err != nil {
		return fmt.Errorf("grustc-core: reading fixture: %w", err)
	}
	return compileAndReport(data, out, opts)
}

// compileAndReport decodes data as a JSON ast.File, runs the pipeline, and
// writes either the diagnostic list or the IR2 summary/YAML to out. It
// never returns an error for a program that merely failed to compile —
// that's a normal, reportable outcome, not a harness failure.
func compileAndReport(data []byte, out io.Writer, opts *runOptions) error {
	file, err := astjson.DecodeFile(data)
	if err != nil {
		return fmt.Errorf("grustc-core: decoding ast.File: %w", err)
	}

	result, errs := pipeline.Run(file, pipeline.CompileOptions{JSON: opts.jsonOut, Compact: opts.compact})
	if len(errs) > 0 {
		reportErrors(out, errs, opts)
		return nil
	}

	result.WriteSummary(out)

	if opts.dumpYAML {
		yamlOut, err := result.DumpYAML()
		if err != nil {
			return fmt.Errorf("grustc-core: dumping YAML: %w", err)
		}
		fmt.Fprintln(out, yamlOut)
	}
	return nil
}

func reportErrors(out io.Writer, errs []*errors.Error, opts *runOptions) {
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		if !opts.compact {
			enc.SetIndent("", "  ")
		}
		for _, e := range errs {
			_ = enc.Encode(e)
		}
		return
	}
	for _, e := range errs {
		fmt.Fprint(out, errors.Render(e))
	}
}

// runInteractive is a thin analogue of the teacher's REPL loop
// (internal/repl.REPL.Start), scoped to re-driving the compiler against
// an edited fixture file rather than evaluating expressions: each line
// read is a fixture path, and every prompt re-reads and re-compiles it,
// so editing the file between prompts shows the new result immediately.
func runInteractive(out io.Writer, opts *runOptions) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(out, "grustc-core interactive mode: enter a fixture path, Ctrl-D to quit")
	for {
		path, err := line.Prompt("fixture> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Fprintln(out, "goodbye")
			return nil
		}
		if err != nil {
			return fmt.Errorf("grustc-core: reading prompt: %w", err)
		}
		if path == "" {
			continue
		}
		line.AppendHistory(path)

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if err := compileAndReport(data, out, opts); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}
