package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/submit"
)

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Form submit.CheckoutForm
	Last bool // print the last order instead of placing one
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Place an order for everything in the cart.

All shipping fields are required and the email must be well formed.
On success the order is saved as the last order and the cart is emptied.

Exit codes:
  0 - Order placed
  1 - Cart empty or form invalid
  2 - Command error

Examples:
  xapparel checkout --name "Sam Lee" --email sam@example.com \
    --address "1 Main St" --city Springfield --zip 12345
  xapparel checkout --last`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				if opts.Last {
					order, ok := env.Session.LastOrder(ctx)
					if !ok {
						return f.Emit(nil, func(w io.Writer) { fmt.Fprintln(w, "No orders yet.") })
					}
					return f.Emit(order, func(w io.Writer) { writeOrder(w, order) })
				}

				order, err := env.Session.Checkout(ctx, opts.Form)
				if err != nil {
					return fail(f, err)
				}
				return f.Emit(order, func(w io.Writer) {
					fmt.Fprintln(w, "✓ Order placed")
					writeOrder(w, order)
				})
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.Form.Name, "name", "", "full name")
	fl.StringVar(&opts.Form.Email, "email", "", "email address")
	fl.StringVar(&opts.Form.Address, "address", "", "street address")
	fl.StringVar(&opts.Form.City, "city", "", "city")
	fl.StringVar(&opts.Form.Zip, "zip", "", "ZIP code")
	fl.BoolVar(&opts.Last, "last", false, "show the last order")

	return cmd
}

func writeOrder(w io.Writer, o submit.Order) {
	fmt.Fprintf(w, "Order %s placed %s\n", o.ID, o.PlacedAt.UTC().Format(dropTimeLayout))
	fmt.Fprintf(w, "Ship to %s, %s, %s %s\n", o.Customer.Name, o.Customer.Address, o.Customer.City, o.Customer.Zip)
	writeCart(w, CartView{Lines: o.Lines, Count: o.Count, Total: o.Total})
}

// NewReviewCommand creates the review command.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	form := submit.ReviewForm{}

	cmd := &cobra.Command{
		Use:   "review <product-id>",
		Short: "Review a product",
		Long: `Submit a review for a product.

The rating (1-5), comment and name are required. The product's
published average rating is not changed by new reviews.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				r, err := env.Session.SubmitReview(ctx, args[0], form)
				if err != nil {
					return fail(f, err)
				}
				return f.Emit(r, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Review %s for %s submitted\n", r.Review.ID, r.ProductID)
				})
			})
		},
	}

	cmd.Flags().IntVarP(&form.Rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&form.Comment, "comment", "", "review text")
	cmd.Flags().StringVar(&form.Author, "author", "", "name or alias")

	return cmd
}

// NewSubscribeCommand creates the subscribe command.
func NewSubscribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "subscribe <email>",
		Short:         "Sign up for drop announcements",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				form := submit.NewsletterForm{Email: args[0]}
				if err := env.Session.Subscribe(ctx, form); err != nil {
					return fail(f, err)
				}
				return f.Emit(form, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Subscribed %s\n", form.Email)
				})
			})
		},
	}
}

// NewContactCommand creates the contact command.
func NewContactCommand(rootOpts *RootOptions) *cobra.Command {
	form := submit.ContactForm{}

	cmd := &cobra.Command{
		Use:           "contact",
		Short:         "Send a message to the store",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				if err := env.Session.Contact(ctx, form); err != nil {
					return fail(f, err)
				}
				return f.Emit(form, func(w io.Writer) {
					fmt.Fprintln(w, "✓ Message sent")
				})
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "reply address")
	cmd.Flags().StringVarP(&form.Message, "message", "m", "", "message text")

	return cmd
}

// NewRecentCommand creates the recent command.
func NewRecentCommand(rootOpts *RootOptions) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently viewed products",
		Long: `List the products most recently opened with "catalog show",
newest first. Products no longer in the catalog are skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				if forget {
					env.Session.Recent().Clear(ctx)
				}
				products := env.Session.RecentlyViewed(ctx)
				return f.Emit(recentIDs(products), func(w io.Writer) {
					if len(products) == 0 {
						fmt.Fprintln(w, "Nothing viewed yet.")
						return
					}
					for _, p := range products {
						fmt.Fprintf(w, "%-12s %s\n", p.ID, p.Name)
					}
				})
			})
		},
	}

	cmd.Flags().BoolVar(&forget, "clear", false, "forget the view history")
	return cmd
}

func recentIDs(products []catalog.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
