package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/xapparel/internal/catalog"
)

// ListOptions holds flags for the catalog list command.
type ListOptions struct {
	*RootOptions
	Search string
	Sort   string
}

// ProductSummary is one row of a catalog listing.
type ProductSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         string  `json:"price"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
	FutureDrop    bool    `json:"future_drop"`
}

// ProductDetail is a product as shown on its detail page.
type ProductDetail struct {
	catalog.Product
	FutureDrop bool   `json:"future_drop"`
	Countdown  string `json:"countdown,omitempty"`
}

// DropResult describes the next unreleased product.
type DropResult struct {
	Found     bool              `json:"found"`
	Product   *ProductSummary   `json:"product,omitempty"`
	ReleaseAt string            `json:"release_at,omitempty"`
	TimeLeft  *catalog.TimeLeft `json:"time_left,omitempty"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and check the product catalog",
	}

	cmd.AddCommand(newCatalogListCommand(rootOpts))
	cmd.AddCommand(newCatalogShowCommand(rootOpts))
	cmd.AddCommand(newCatalogValidateCommand(rootOpts))
	cmd.AddCommand(newCatalogDropCommand(rootOpts))

	return cmd
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	orders := make([]string, len(catalog.SortOrders))
	for i, o := range catalog.SortOrders {
		orders[i] = string(o)
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long: `List catalog products, optionally filtered and sorted.

--search matches product names and descriptions, ignoring case.
--sort is one of: ` + strings.Join(orders, ", ") + `.

Examples:
  xapparel catalog list
  xapparel catalog list --search hoodie --sort price-asc
  xapparel catalog list --sort name-asc --locale sv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter by name or description")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort order")

	return cmd
}

func runCatalogList(opts *ListOptions, cmd *cobra.Command) error {
	order, err := catalog.ParseSortOrder(opts.Sort)
	if err != nil {
		return fail(newFormatter(opts.RootOptions, cmd), WrapExitError(ExitCommandError, "invalid --sort", err))
	}

	return withEnvironment(opts.RootOptions, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
		products := env.Session.Listing(opts.Search, order)
		rows := make([]ProductSummary, len(products))
		for i, p := range products {
			rows[i] = ProductSummary{
				ID:            p.ID,
				Name:          p.Name,
				Price:         p.Price.StringFixed(2),
				AverageRating: p.AverageRating,
				RatingCount:   p.RatingCount,
				FutureDrop:    env.Session.IsFutureDrop(p),
			}
		}

		return f.Emit(rows, func(w io.Writer) {
			if len(rows) == 0 {
				fmt.Fprintf(w, "No products match %q.\n", opts.Search)
				return
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%-12s %-26s %8s  %s", r.ID, r.Name, r.Price, formatRating(r.AverageRating, r.RatingCount))
				if r.FutureDrop {
					fmt.Fprint(w, "  [coming soon]")
				}
				fmt.Fprintln(w)
			}
		})
	})
}

func newCatalogShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show product details",
		Long: `Show a product's details and reviews.

Viewing a product records it in the recently viewed list.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				p, err := env.Session.ViewProduct(ctx, args[0])
				if err != nil {
					return fail(f, err)
				}

				detail := ProductDetail{Product: p, FutureDrop: env.Session.IsFutureDrop(p)}
				if detail.FutureDrop {
					left, _ := env.Session.Countdown(p)
					detail.Countdown = left.String()
				}
				return f.Emit(detail, func(w io.Writer) { writeProductDetail(w, detail) })
			})
		},
	}
}

func writeProductDetail(w io.Writer, d ProductDetail) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.ID)
	fmt.Fprintf(w, "Price:   %s\n", d.Price.StringFixed(2))
	fmt.Fprintf(w, "Sizes:   %s\n", strings.Join(d.Sizes, ", "))
	fmt.Fprintf(w, "Colors:  %s\n", strings.Join(d.Colors, ", "))
	fmt.Fprintf(w, "Rating:  %s\n", formatRating(d.AverageRating, d.RatingCount))
	if d.FutureDrop {
		fmt.Fprintf(w, "Drops:   %s (in %s)\n", d.ReleaseAt.UTC().Format(dropTimeLayout), d.Countdown)
	}
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}

	fmt.Fprintln(w, "\nImages:")
	for _, img := range d.Images() {
		fmt.Fprintf(w, "  %s\n", img)
	}

	if len(d.Reviews) == 0 {
		fmt.Fprintln(w, "\nNo reviews yet.")
		return
	}
	fmt.Fprintln(w, "\nReviews:")
	for _, r := range d.Reviews {
		fmt.Fprintf(w, "  %d/5 %s: %s\n", r.Rating, r.Author, r.Comment)
	}
}

func newCatalogDropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "drop",
		Short:         "Show the countdown to the next product drop",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(rootOpts, cmd, func(ctx context.Context, env *Environment, f *OutputFormatter) error {
				p, left, ok := env.Session.NextDrop()
				if !ok {
					return f.Emit(DropResult{}, func(w io.Writer) {
						fmt.Fprintln(w, "No upcoming drops.")
					})
				}

				result := DropResult{
					Found: true,
					Product: &ProductSummary{
						ID:            p.ID,
						Name:          p.Name,
						Price:         p.Price.StringFixed(2),
						AverageRating: p.AverageRating,
						RatingCount:   p.RatingCount,
						FutureDrop:    true,
					},
					ReleaseAt: p.ReleaseAt.UTC().Format(dropTimeLayout),
					TimeLeft:  &left,
				}
				return f.Emit(result, func(w io.Writer) {
					fmt.Fprintf(w, "Next drop: %s (%s)\n", p.Name, p.ID)
					fmt.Fprintf(w, "Lands:     %s\n", result.ReleaseAt)
					fmt.Fprintf(w, "Time left: %s\n", left)
				})
			})
		},
	}
}

const dropTimeLayout = "2006-01-02 15:04 MST"

func formatRating(avg float64, count int) string {
	if count == 0 {
		return "no ratings"
	}
	return fmt.Sprintf("%.1f (%d)", avg, count)
}
