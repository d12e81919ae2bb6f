package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shanehandley/servo/internal/emitter"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/store"
)

// LookupOptions holds flags for the lookup command.
type LookupOptions struct {
	*RootOptions
	StorePath string
	ByHash    bool
	AsIDL     bool
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LookupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lookup [name]",
		Short: "Query stored binding contracts",
		Long: `Look up a contract in a store written by compile --store.

With no argument, lists every stored contract. With a name (or a hash
and --by-hash) prints the matching contract.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.StorePath, "store", "contracts.db", "SQLite contract store path")
	cmd.Flags().BoolVar(&opts.ByHash, "by-hash", false, "treat the argument as a content hash")
	cmd.Flags().BoolVar(&opts.AsIDL, "idl", false, "print the contract as declaration text")

	return cmd
}

func runLookup(opts *LookupOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.StorePath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}
	defer st.Close()

	if len(args) == 0 {
		infos, err := st.ListContracts(cmd.Context())
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		if formatter.Format == "json" {
			return formatter.Success(infos)
		}
		for _, info := range infos {
			// %.12s: hashes are stored as opaque text and may be short
			// in a store written by another tool.
			fmt.Fprintf(formatter.Writer, "%s  %.12s  (run %s)\n", info.Name, info.Hash, info.RunID)
		}
		fmt.Fprintf(formatter.Writer, "%d contract(s)\n", len(infos))
		return nil
	}

	contract, err := lookupOne(st, opts, args[0], cmd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error("E404", err.Error(), nil)
			return NewExitError(ExitFailure, err.Error())
		}
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	if opts.AsIDL {
		fmt.Fprint(formatter.Writer, emitter.FormatInterface(contract))
		return nil
	}
	if formatter.Format == "json" {
		return formatter.Success(contract)
	}
	data, err := json.MarshalIndent(contract, "", "  ")
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}

func lookupOne(st *store.Store, opts *LookupOptions, key string, cmd *cobra.Command) (*ir.InterfaceContract, error) {
	if opts.ByHash {
		return st.GetByHash(cmd.Context(), key)
	}
	return st.GetContract(cmd.Context(), key)
}
