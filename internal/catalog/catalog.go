package catalog

import (
	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Catalog is an ordered, immutable set of products.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog from products, preserving their order.
// Product IDs must be unique.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if p.ID == "" {
			return nil, errors.Errorf("product %d: id is required", i)
		}
		if prev, ok := c.byID[p.ID]; ok {
			return nil, errors.Errorf("product %d: duplicate id %q (first defined at %d)", i, p.ID, prev)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// All returns the products in catalog order.
// The returned slice is a copy; callers may reorder it.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get looks up a product by ID.
func (c *Catalog) Get(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, errors.Wrapf(ErrNotFound, "get %q", id)
	}
	return c.products[i], nil
}

// Lookup is Get without the error, for callers that only filter.
func (c *Catalog) Lookup(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}
