package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanehandley/servo/internal/pipeline"
	"github.com/shanehandley/servo/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Contract bool // treat the argument as emitted contract JSON
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate WebIDL units or an emitted contract file",
		Long: `Validate declaration units without emitting contracts.

With --contract the argument is an emitted contract JSON file, which
is vetted against the contract schema instead of being compiled.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Contract {
				return runValidateContract(opts, args[0], cmd)
			}
			return runValidateUnits(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Contract, "contract", false, "validate an emitted contract JSON file")

	return cmd
}

func runValidateUnits(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	units, err := LoadUnits(path)
	if err != nil {
		return loadErrorToExit(formatter, err)
	}

	result, err := pipeline.Run(units, pipeline.Options{})
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	if result.Errored() {
		return outputDiagnosticFailure(formatter, result)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"run_id":      result.RunID,
			"interfaces":  len(result.Contracts.Interfaces),
			"diagnostics": result.Diagnostics,
		})
	}
	if len(result.Diagnostics) > 0 {
		RenderDiagnostics(formatter.Writer, result.Diagnostics)
		fmt.Fprintln(formatter.Writer)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d unit(s) valid, %d interface contract(s)\n",
		len(units), len(result.Contracts.Interfaces))
	return nil
}

func runValidateContract(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeReadError, fmt.Sprintf("reading %s: %v", path, err))
	}

	if err := schema.Vet(data); err != nil {
		_ = formatter.Error("E500", err.Error(), nil)
		return NewExitError(ExitFailure, "contract validation failed")
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"file": path, "valid": true})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s matches the contract schema\n", path)
	return nil
}
