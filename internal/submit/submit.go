package submit

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/roach88/xapparel/internal/cart"
	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/clock"
	"github.com/roach88/xapparel/internal/ids"
	"github.com/roach88/xapparel/internal/kv"
)

// LastOrderKey is the kv key holding the most recent Order.
const LastOrderKey = "lastOrder"

// Order is a confirmed checkout.
type Order struct {
	ID       string          `json:"id"`
	Customer CheckoutForm    `json:"customer"`
	Lines    []cart.LineItem `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	PlacedAt time.Time       `json:"placed_at"`
}

// Submitter validates and records form submissions.
type Submitter struct {
	store    *kv.Adapter
	validate *validator.Validate
	ids      ids.Generator
	clock    clock.Clock
	logger   *slog.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithIDs sets the generator for order and review IDs.
func WithIDs(g ids.Generator) Option {
	return func(s *Submitter) { s.ids = g }
}

// WithClock sets the clock used to stamp orders.
func WithClock(c clock.Clock) Option {
	return func(s *Submitter) { s.clock = c }
}

// WithLogger sets the logger that records accepted submissions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Submitter) { s.logger = l }
}

// New returns a Submitter writing through store.
// Defaults: UUIDv7 ids, the system clock, a discarding logger.
func New(store *kv.Adapter, opts ...Option) *Submitter {
	s := &Submitter{store: store, validate: newValidator()}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = ids.OrUUIDv7(s.ids)
	s.clock = clock.OrSystem(s.clock)
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Submitter) check(form string, v any) error {
	if err := s.validate.Struct(v); err != nil {
		return toValidationError(form, err)
	}
	return nil
}

// Checkout places an order for everything in c.
//
// An empty cart fails with ErrEmptyCart and an incomplete form with a
// *ValidationError; neither touches the cart. On success the order is
// stored under LastOrderKey and the cart is cleared.
func (s *Submitter) Checkout(ctx context.Context, form CheckoutForm, c *cart.Engine) (Order, error) {
	if c.Len() == 0 {
		return Order{}, ErrEmptyCart
	}
	form = trimCheckout(form)
	if err := s.check("checkout", form); err != nil {
		return Order{}, err
	}

	order := Order{
		ID:       s.ids.Generate(),
		Customer: form,
		Lines:    c.Lines(),
		Total:    c.Total(),
		Count:    c.Count(),
		PlacedAt: s.clock.Now().UTC(),
	}

	s.store.Write(ctx, LastOrderKey, order)
	c.Clear(ctx)

	s.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"email", order.Customer.Email,
		"lines", len(order.Lines),
		"total", order.Total.StringFixed(2))
	return order, nil
}

// LastOrder returns the most recently placed order, if one was recorded.
func (s *Submitter) LastOrder(ctx context.Context) (Order, bool) {
	o := kv.Read(ctx, s.store, LastOrderKey, Order{})
	return o, o.ID != ""
}

// Review accepts a review for p. The review gets a fresh ID; p's reviews
// and cached rating are left as they are.
func (s *Submitter) Review(ctx context.Context, p catalog.Product, form ReviewForm) (SubmittedReview, error) {
	form.ProductID = p.ID
	form.Author = strings.TrimSpace(form.Author)
	form.Comment = strings.TrimSpace(form.Comment)
	if err := s.check("review", form); err != nil {
		return SubmittedReview{}, err
	}

	r := SubmittedReview{
		ProductID: p.ID,
		Review: catalog.Review{
			ID:      s.ids.Generate(),
			Rating:  form.Rating,
			Author:  form.Author,
			Comment: form.Comment,
		},
	}
	s.logger.InfoContext(ctx, "review submitted",
		"product_id", p.ID,
		"review_id", r.Review.ID,
		"rating", r.Review.Rating)
	return r, nil
}

// Subscribe signs an email address up for the newsletter.
func (s *Submitter) Subscribe(ctx context.Context, form NewsletterForm) error {
	form.Email = strings.TrimSpace(form.Email)
	if err := s.check("newsletter", form); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "newsletter signup", "email", form.Email)
	return nil
}

// Contact sends a message from the contact page.
func (s *Submitter) Contact(ctx context.Context, form ContactForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = strings.TrimSpace(form.Message)
	if err := s.check("contact", form); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "contact message", "email", form.Email, "chars", len(form.Message))
	return nil
}

func trimCheckout(f CheckoutForm) CheckoutForm {
	return CheckoutForm{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Address: strings.TrimSpace(f.Address),
		City:    strings.TrimSpace(f.City),
		Zip:     strings.TrimSpace(f.Zip),
	}
}
