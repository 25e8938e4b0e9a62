// Package storefront wires the catalog, cart, recently-viewed tracker and
// form submissions into a shopping session. It is the single entry point the
// command line and the scenario harness drive.
package storefront

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/roach88/xapparel/internal/cart"
	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/clock"
	"github.com/roach88/xapparel/internal/ids"
	"github.com/roach88/xapparel/internal/kv"
	"github.com/roach88/xapparel/internal/recent"
	"github.com/roach88/xapparel/internal/submit"
)

// Session is one shopper's view of the store.
//
// Thread-safety: navigation state is guarded by an internal mutex and the
// cart engine locks itself, but operations are not atomic with respect to
// each other. Drive a session from one goroutine.
type Session struct {
	cat    *catalog.Catalog
	store  *kv.Adapter
	cart   *cart.Engine
	recent *recent.Tracker
	submit *submit.Submitter
	clock  clock.Clock
	ids    ids.Generator
	locale language.Tag
	logger *slog.Logger

	mu      sync.Mutex
	page    Page
	product string
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for release-date checks and order stamps.
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithIDs sets the generator for order and review IDs.
func WithIDs(g ids.Generator) Option {
	return func(s *Session) { s.ids = g }
}

// WithLogger sets the session logger. It is shared with the persistence
// adapter and the submitter.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithLocale sets the language used to collate product names.
func WithLocale(tag language.Tag) Option {
	return func(s *Session) { s.locale = tag }
}

// New opens a session over cat, loading cart and view history from store.
// The session starts on the catalog page.
func New(ctx context.Context, cat *catalog.Catalog, store kv.Store, opts ...Option) *Session {
	s := &Session{cat: cat, locale: language.English, page: PageCatalog}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.clock = clock.OrSystem(s.clock)
	s.ids = ids.OrUUIDv7(s.ids)

	s.store = kv.NewAdapter(store, s.logger)
	s.cart = cart.New(ctx, s.store)
	s.recent = recent.New(s.store)
	s.submit = submit.New(s.store,
		submit.WithIDs(s.ids),
		submit.WithClock(s.clock),
		submit.WithLogger(s.logger))
	return s
}

// Catalog returns the session's catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Cart returns the cart engine.
func (s *Session) Cart() *cart.Engine { return s.cart }

// Recent returns the recently-viewed tracker.
func (s *Session) Recent() *recent.Tracker { return s.recent }

// Locale returns the collation language.
func (s *Session) Locale() language.Tag { return s.locale }

// Page returns the current page.
func (s *Session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Navigate switches to p.
func (s *Session) Navigate(p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
	if p != PageDetail {
		s.product = ""
	}
}

// CurrentProduct returns the ID of the product on the detail page.
func (s *Session) CurrentProduct() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product, s.product != ""
}

// Listing returns the catalog filtered by query and ordered by order.
func (s *Session) Listing(query string, order catalog.SortOrder) []catalog.Product {
	return catalog.Sort(catalog.Filter(s.cat.All(), query), order, s.locale)
}

// RecentlyViewed resolves the view history against the catalog.
func (s *Session) RecentlyViewed(ctx context.Context) []catalog.Product {
	return s.recent.Resolve(ctx, s.cat)
}

// IsFutureDrop reports whether p is still unreleased right now.
func (s *Session) IsFutureDrop(p catalog.Product) bool {
	return p.IsFutureDrop(s.clock.Now())
}

// NextDrop returns the next unreleased product and the time left until it
// lands.
func (s *Session) NextDrop() (catalog.Product, catalog.TimeLeft, bool) {
	now := s.clock.Now()
	p, ok := catalog.NextDrop(s.cat.All(), now)
	if !ok {
		return catalog.Product{}, catalog.TimeLeft{}, false
	}
	return p, catalog.Countdown(*p.ReleaseAt, now), true
}

// Countdown returns the time left until p drops. ok is false for products
// without a release instant.
func (s *Session) Countdown(p catalog.Product) (left catalog.TimeLeft, ok bool) {
	if p.ReleaseAt == nil {
		return catalog.TimeLeft{}, false
	}
	return catalog.Countdown(*p.ReleaseAt, s.clock.Now()), true
}

// ViewProduct opens the detail page for id and records the view.
func (s *Session) ViewProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, err := s.cat.Get(id)
	if err != nil {
		return catalog.Product{}, err
	}
	s.recent.RecordView(ctx, id)

	s.mu.Lock()
	s.page = PageDetail
	s.product = id
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "product viewed", "product_id", id)
	return p, nil
}

// QuickAdd adds one unit of id in its first listed size and color.
func (s *Session) QuickAdd(ctx context.Context, id string) (cart.LineItem, error) {
	p, err := s.cat.Get(id)
	if err != nil {
		return cart.LineItem{}, err
	}
	return s.add(ctx, p, p.DefaultSize(), p.DefaultColor())
}

// AddSelected adds one unit of id in the chosen size and color.
// Both must be given and both must be offered by the product.
func (s *Session) AddSelected(ctx context.Context, id, size, color string) (cart.LineItem, error) {
	p, err := s.cat.Get(id)
	if err != nil {
		return cart.LineItem{}, err
	}
	if size == "" || color == "" {
		return cart.LineItem{}, ErrSelectionRequired
	}
	if !p.HasSize(size) || !p.HasColor(color) {
		return cart.LineItem{}, fmt.Errorf("%w: %s %s/%s", ErrInvalidSelection, id, size, color)
	}
	return s.add(ctx, p, size, color)
}

func (s *Session) add(ctx context.Context, p catalog.Product, size, color string) (cart.LineItem, error) {
	if s.IsFutureDrop(p) {
		return cart.LineItem{}, fmt.Errorf("%w: %s drops %s", ErrNotYetReleased, p.ID, p.ReleaseAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	line := s.cart.Add(ctx, p, size, color)
	s.logger.DebugContext(ctx, "added to cart",
		"product_id", p.ID, "size", size, "color", color, "quantity", line.Quantity)
	return line, nil
}

// RemoveLine removes a cart line.
func (s *Session) RemoveLine(ctx context.Context, key cart.Key) {
	s.cart.Remove(ctx, key)
}

// UpdateQuantity sets a cart line's quantity; below one removes it.
func (s *Session) UpdateQuantity(ctx context.Context, key cart.Key, quantity int) {
	s.cart.UpdateQuantity(ctx, key, quantity)
}

// ClearCart empties the cart.
func (s *Session) ClearCart(ctx context.Context) {
	s.cart.Clear(ctx)
}

// Checkout places the order and moves to the confirmation page.
// On failure the page is left unchanged.
func (s *Session) Checkout(ctx context.Context, form submit.CheckoutForm) (submit.Order, error) {
	order, err := s.submit.Checkout(ctx, form, s.cart)
	if err != nil {
		return submit.Order{}, err
	}
	s.Navigate(PageConfirmation)
	return order, nil
}

// LastOrder returns the most recently placed order.
func (s *Session) LastOrder(ctx context.Context) (submit.Order, bool) {
	return s.submit.LastOrder(ctx)
}

// SubmitReview submits a review for id.
func (s *Session) SubmitReview(ctx context.Context, id string, form submit.ReviewForm) (submit.SubmittedReview, error) {
	p, err := s.cat.Get(id)
	if err != nil {
		return submit.SubmittedReview{}, err
	}
	return s.submit.Review(ctx, p, form)
}

// Subscribe signs up for the newsletter.
func (s *Session) Subscribe(ctx context.Context, form submit.NewsletterForm) error {
	return s.submit.Subscribe(ctx, form)
}

// Contact sends a contact-page message.
func (s *Session) Contact(ctx context.Context, form submit.ContactForm) error {
	return s.submit.Contact(ctx, form)
}
