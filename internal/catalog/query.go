package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// SortOrder selects how a product listing is ordered.
type SortOrder string

// Sort orders offered by the listing. SortDefault keeps catalog order.
const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
	SortRating    SortOrder = "rating"
)

// SortOrders lists every accepted SortOrder, in menu order.
var SortOrders = []SortOrder{SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortRating}

// ParseSortOrder converts a menu value into a SortOrder.
// The empty string means SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortDefault, nil
	}
	for _, o := range SortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", errors.Errorf("unknown sort order %q", s)
}

// Filter returns the products whose name or description contains query,
// ignoring case. An empty query matches everything.
func Filter(products []Product, query string) []Product {
	if query == "" {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}

	fold := cases.Fold()
	needle := fold.String(norm.NFC.String(query))

	var out []Product
	for _, p := range products {
		if strings.Contains(fold.String(norm.NFC.String(p.Name)), needle) ||
			strings.Contains(fold.String(norm.NFC.String(p.Description)), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a copy of products ordered by order. Names compare with the
// collation rules of tag. The sort is stable: products that compare equal
// keep their relative order, and SortDefault leaves the order untouched.
func Sort(products []Product, order SortOrder, tag language.Tag) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortNameAsc:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortNameDesc:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b Product) int {
			return col.CompareString(b.Name, a.Name)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(b.AverageRating, a.AverageRating)
		})
	}
	return out
}
