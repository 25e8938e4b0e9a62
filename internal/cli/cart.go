package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/xapparel/internal/cart"
)

// CartOptions holds the variant flags shared by cart subcommands.
type CartOptions struct {
	*RootOptions
	Size  string
	Color string
}

// CartView is the cart as printed by cart commands.
type CartView struct {
	Lines []cart.LineItem `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		Long: `Add, change and remove cart lines.

A cart line is identified by product, size and color; adding the same
variant again increases its quantity.`,
	}

	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartUpdateCommand(rootOpts))
	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))

	return cmd
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Long: `Add one unit of a product to the cart.

Without --size and --color the product's first size and color are used
(quick add). Products that have not dropped yet cannot be added.

Examples:
  xapparel cart add tshirt-001
  xapparel cart add tshirt-001 --size M --color Black`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				var (
					line cart.LineItem
					err  error
				)
				if opts.Size == "" && opts.Color == "" {
					line, err = env.Session.QuickAdd(ctx, args[0])
				} else {
					line, err = env.Session.AddSelected(ctx, args[0], opts.Size, opts.Color)
				}
				if err != nil {
					return fail(f, err)
				}

				return f.Emit(line, func(w io.Writer) {
					fmt.Fprintf(w, "Added %s %s/%s (qty %d)\n", line.Name, line.Size, line.Color, line.Quantity)
					fmt.Fprintf(w, "Cart: %d item(s), total %s\n", env.Session.Cart().Count(), env.Session.Cart().Total().StringFixed(2))
				})
			})
		},
	}

	addVariantFlags(cmd, opts)
	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "remove <product-id> --size S --color C",
		Short:         "Remove a cart line",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				env.Session.RemoveLine(ctx, opts.key(args[0]))
				return emitCart(f, env.Session.Cart())
			})
		},
	}

	addVariantFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newCartUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <product-id> <quantity> --size S --color C",
		Short: "Set the quantity of a cart line",
		Long: `Set the quantity of a cart line. A quantity below 1 removes the line.

Example:
  xapparel cart update tshirt-001 3 --size M --color Black`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fail(newFormatter(rootOpts, cmd), WrapExitError(ExitCommandError, "invalid quantity", err))
			}
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				env.Session.UpdateQuantity(ctx, opts.key(args[0]), qty)
				return emitCart(f, env.Session.Cart())
			})
		},
	}

	addVariantFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				return emitCart(f, env.Session.Cart())
			})
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Empty the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				env.Session.ClearCart(ctx)
				return emitCart(f, env.Session.Cart())
			})
		},
	}
}

func addVariantFlags(cmd *cobra.Command, opts *CartOptions) {
	cmd.Flags().StringVar(&opts.Size, "size", "", "size of the variant")
	cmd.Flags().StringVar(&opts.Color, "color", "", "color of the variant")
}

func (o *CartOptions) key(productID string) cart.Key {
	return cart.Key{ProductID: productID, Size: o.Size, Color: o.Color}
}

func cartView(c *cart.Engine) CartView {
	return CartView{Lines: c.Lines(), Count: c.Count(), Total: c.Total()}
}

func emitCart(f *OutputFormatter, c *cart.Engine) error {
	v := cartView(c)
	return f.Emit(v, func(w io.Writer) { writeCart(w, v) })
}

func writeCart(w io.Writer, v CartView) {
	if len(v.Lines) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return
	}
	for _, l := range v.Lines {
		fmt.Fprintf(w, "%-24s %-26s x%-3d %8s\n", l.Key(), l.Name, l.Quantity, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "%d item(s), total %s\n", v.Count, v.Total.StringFixed(2))
}
