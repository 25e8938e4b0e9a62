package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// StateOptions holds flags for the state command.
type StateOptions struct {
	*RootOptions
	Key string // optional - show a single key
}

// StateEntry is one persisted key.
type StateEntry struct {
	Seq   int64           `json:"seq"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// StateResult holds everything stored in the database.
type StateResult struct {
	Database string       `json:"database"`
	Entries  []StateEntry `json:"entries"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Dump persisted session state",
		Long: `Dump the keys persisted in the database in the order they were last
written: the cart (cartItems), the view history (recentlyViewed) and
the last order (lastOrder).

Values are printed with --verbose or --format json.

Examples:
  xapparel state
  xapparel state --key cartItems --verbose
  xapparel state --db /tmp/shop.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				return runState(ctx, opts, env, f)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "show only this key")

	return cmd
}

func runState(ctx context.Context, opts *StateOptions, env *Environment, f *OutputFormatter) error {
	entries, err := env.Store.Entries(ctx)
	if err != nil {
		return fail(f, WrapExitError(ExitCommandError, "failed to read state", err))
	}

	result := StateResult{Database: env.Config.DBPath, Entries: []StateEntry{}}
	for _, e := range entries {
		if opts.Key != "" && e.Key != opts.Key {
			continue
		}
		value := json.RawMessage(e.Value)
		if !json.Valid(value) {
			// Corrupt values are shown as strings.
			value, _ = json.Marshal(string(e.Value))
		}
		result.Entries = append(result.Entries, StateEntry{Seq: e.UpdatedSeq, Key: e.Key, Value: value})
	}

	return f.Emit(result, func(w io.Writer) { outputStateText(w, result, opts.Verbose) })
}

func outputStateText(w io.Writer, result StateResult, verbose bool) {
	fmt.Fprintf(w, "State for: %s\n", result.Database)
	fmt.Fprintln(w)

	if len(result.Entries) == 0 {
		fmt.Fprintln(w, "  (nothing stored)")
		return
	}
	for _, e := range result.Entries {
		fmt.Fprintf(w, "  [%d] %s (%d bytes)\n", e.Seq, e.Key, len(e.Value))
		if verbose {
			fmt.Fprintf(w, "       %s\n", truncateValue(string(e.Value)))
		}
	}
}

// truncateValue shortens a long stored value for display.
func truncateValue(v string) string {
	if len(v) <= 120 {
		return v
	}
	return v[:100] + "..." + v[len(v)-16:]
}
