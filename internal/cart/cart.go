// Package cart owns the shopping cart: an ordered list of line items that is
// persisted through a kv.Adapter after every mutation.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/kv"
)

// StorageKey is the kv key holding the cart lines.
const StorageKey = "cartItems"

// Key identifies a cart line. Two adds with the same Key merge into one line.
type Key struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s/%s", k.ProductID, k.Size, k.Color)
}

// LineItem is one product variant in the cart. Name, Price and ImageURL are
// copied from the product when the line is created and do not follow later
// catalog changes.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
}

// Key returns the line's merge key.
func (l LineItem) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// Subtotal is Price x Quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Engine is the only mutation path for the cart.
//
// Invariants held after every call:
//   - every line has Quantity >= 1
//   - no two lines share a Key
//   - line order is first-added first; merges keep the original position
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Engine struct {
	mu    sync.Mutex
	store *kv.Adapter
	lines []LineItem
}

// New loads the persisted cart. Absent or unreadable state yields an empty
// cart. Stored lines that break the invariants are repaired: quantities
// below one are dropped and repeated keys are merged into the first.
func New(ctx context.Context, store *kv.Adapter) *Engine {
	stored := kv.Read(ctx, store, StorageKey, []LineItem{})
	return &Engine{store: store, lines: sanitize(stored)}
}

func sanitize(stored []LineItem) []LineItem {
	lines := make([]LineItem, 0, len(stored))
	index := make(map[Key]int, len(stored))
	for _, l := range stored {
		if l.Quantity < 1 || l.ProductID == "" {
			continue
		}
		if i, ok := index[l.Key()]; ok {
			lines[i].Quantity += l.Quantity
			continue
		}
		index[l.Key()] = len(lines)
		lines = append(lines, l)
	}
	return lines
}

// Add puts one unit of p in the given size and color into the cart.
// The selection is not checked against p; callers validate it.
func (e *Engine) Add(ctx context.Context, p catalog.Product, size, color string) LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := Key{ProductID: p.ID, Size: size, Color: color}
	i := e.find(key)
	if i >= 0 {
		e.lines[i].Quantity++
	} else {
		e.lines = append(e.lines, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Size:      size,
			Color:     color,
			Quantity:  1,
		})
		i = len(e.lines) - 1
	}
	line := e.lines[i]
	e.persist(ctx)
	return line
}

// Remove deletes the line with key. Removing an absent key is a no-op.
func (e *Engine) Remove(ctx context.Context, key Key) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.remove(key)
	e.persist(ctx)
}

// UpdateQuantity sets the quantity of the line with key.
// A quantity below one removes the line.
func (e *Engine) UpdateQuantity(ctx context.Context, key Key, quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity < 1 {
		e.remove(key)
		e.persist(ctx)
		return
	}
	if i := e.find(key); i >= 0 {
		e.lines[i].Quantity = quantity
	}
	e.persist(ctx)
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = e.lines[:0]
	e.persist(ctx)
}

// Total returns the exact sum of every line's subtotal; zero when empty.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := decimal.Zero
	for _, l := range e.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count returns the number of units in the cart, not the number of lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, l := range e.lines {
		n += l.Quantity
	}
	return n
}

// Len returns the number of lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Lines returns a copy of the lines in cart order.
func (e *Engine) Lines() []LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]LineItem, len(e.lines))
	copy(out, e.lines)
	return out
}

// Line returns the line with key.
func (e *Engine) Line(key Key) (LineItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.find(key); i >= 0 {
		return e.lines[i], true
	}
	return LineItem{}, false
}

func (e *Engine) find(key Key) int {
	for i, l := range e.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

func (e *Engine) remove(key Key) {
	if i := e.find(key); i >= 0 {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	}
}

// persist must be called with e.mu held. The in-memory cart stays
// authoritative if the write fails.
func (e *Engine) persist(ctx context.Context) {
	e.store.Write(ctx, StorageKey, e.lines)
}
