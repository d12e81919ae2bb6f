package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/emitter"
	"github.com/shanehandley/servo/internal/pipeline"
	"github.com/shanehandley/servo/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output    string // output file path
	OutFormat string // "json" | "yaml"
	StorePath string // optional contract store to update
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <idl-path>",
		Short: "Compile WebIDL units to binding contracts",
		Long: `Compile WebIDL declaration units to flattened binding contracts.

The compiler parses the units, resolves every type reference, links
inheritance, mixins and partial interfaces, and emits one contract per
interface.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // diagnostics are rendered by the command itself
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.OutFormat, "output-format", "json", "contract serialization (json|yaml)")
	cmd.Flags().StringVar(&opts.StorePath, "store", "", "SQLite contract store to update")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.OutFormat != "json" && opts.OutFormat != "yaml" {
		return outputCommandError(formatter, ErrCodeGeneric,
			fmt.Sprintf("invalid output format %q: must be json or yaml", opts.OutFormat))
	}

	units, err := LoadUnits(path)
	if err != nil {
		return loadErrorToExit(formatter, err)
	}
	formatter.VerboseLog("Found %d declaration unit(s) in %s", len(units), path)

	result, err := pipeline.Run(units, pipeline.Options{})
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	for _, d := range result.Declarations {
		formatter.VerboseLog("Parsed %s %s", d.Kind, d.Name)
	}

	if result.Errored() {
		return outputDiagnosticFailure(formatter, result)
	}

	if opts.Output != "" {
		data, err := serializeContracts(opts.OutFormat, result)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if opts.StorePath != "" {
		st, err := store.Open(opts.StorePath)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		defer st.Close()
		if err := st.PutContractSet(cmd.Context(), result.Contracts); err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		formatter.VerboseLog("Stored %d contract(s) in %s", len(result.Contracts.Interfaces), opts.StorePath)
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func serializeContracts(format string, result *pipeline.Result) ([]byte, error) {
	if format == "yaml" {
		return emitter.EncodeYAML(result.Contracts)
	}
	return emitter.EncodeJSON(result.Contracts)
}

func outputCompileSuccess(formatter *OutputFormatter, result *pipeline.Result, outputFile string) error {
	// Warnings survive a successful run; show them before the summary.
	if formatter.Format != "json" && len(result.Diagnostics) > 0 {
		RenderDiagnostics(formatter.Writer, result.Diagnostics)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"run_id":      result.RunID,
			"contracts":   result.Contracts.Interfaces,
			"diagnostics": result.Diagnostics,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d interface contract(s)\n\n", len(result.Contracts.Interfaces))
	for _, c := range result.Contracts.Interfaces {
		suffix := ""
		if c.Parent != "" {
			suffix = " : " + c.Parent
		}
		fmt.Fprintf(formatter.Writer, "  %s%s: %d member(s)\n", c.Name, suffix, len(c.Members))
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote contracts to %s\n", outputFile)
	}
	return nil
}

// outputDiagnosticFailure reports a run that stopped with errors.
func outputDiagnosticFailure(formatter *OutputFormatter, result *pipeline.Result) error {
	if formatter.Format == "json" {
		_ = formatter.Error("E100", fmt.Sprintf("compilation failed in %s stage", result.Stage), result.Diagnostics)
		return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d error(s)", countErrors(result)))
	}

	fmt.Fprintf(formatter.Writer, "✗ Compilation failed in %s stage\n\n", result.Stage)
	RenderDiagnostics(formatter.Writer, result.Diagnostics)
	fmt.Fprintf(formatter.Writer, "\n%s\n", DiagnosticSummary(result.Diagnostics))
	return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d error(s)", countErrors(result)))
}

func countErrors(result *pipeline.Result) int {
	n := 0
	for _, d := range result.Diagnostics {
		if d.Severity == diag.Error {
			n++
		}
	}
	return n
}

// outputCommandError reports an environment-level failure (exit 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func loadErrorToExit(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return outputCommandError(formatter, loadErr.Code, loadErr.Message)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}
