package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/xapparel/internal/clock"
	"github.com/roach88/xapparel/internal/ids"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // overrides XAPPAREL_DB
	Catalog  string // overrides XAPPAREL_CATALOG
	Locale   string // overrides XAPPAREL_LOCALE

	// Clock and IDs override the session clock and ID generator (for
	// testing). Nil means wall-clock time and UUIDv7.
	Clock clock.Clock
	IDs   ids.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the xapparel CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xapparel",
		Short: "xapparel - streetwear storefront",
		Long: `Browse the xapparel catalog and manage a persistent shopping cart.

The cart, recently viewed products and the last order are kept in a
local SQLite database (--db, XAPPAREL_DB). Settings may also be given
in a .env file in the working directory.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.Database, "db", "", "path to SQLite database (default from XAPPAREL_DB or xapparel.db)")
	pf.StringVar(&opts.Catalog, "catalog", "", "alternate catalog .cue file")
	pf.StringVar(&opts.Locale, "locale", "", "BCP 47 language tag for sorting names")

	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts))
	cmd.AddCommand(NewSubscribeCommand(opts))
	cmd.AddCommand(NewContactCommand(opts))
	cmd.AddCommand(NewRecentCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
