package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/xapparel/internal/cart"
	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/kv"
	"github.com/roach88/xapparel/internal/submit"
	"github.com/roach88/xapparel/internal/testutil"
)

func newSession(t *testing.T) (*Session, *testutil.FixedClock, kv.Store) {
	t.Helper()
	clk := testutil.NewFixedClock(time.Time{})
	store := kv.NewMemory()
	s := New(context.Background(), catalog.MustDefault(), store,
		WithClock(clk),
		WithIDs(testutil.NewSequenceGenerator("order")),
		WithLocale(language.English))
	return s, clk, store
}

func TestNew_StartsOnCatalog(t *testing.T) {
	s, _, _ := newSession(t)

	assert.Equal(t, PageCatalog, s.Page())
	assert.Equal(t, 0, s.Cart().Count())
	assert.Equal(t, language.English, s.Locale())
	_, ok := s.CurrentProduct()
	assert.False(t, ok)
}

func TestParsePage(t *testing.T) {
	for _, p := range Pages {
		got, err := ParsePage(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePage("home")
	assert.Error(t, err)
}

func TestViewProduct(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	p, err := s.ViewProduct(ctx, "hoodie-002")
	require.NoError(t, err)
	assert.Equal(t, "Ghost Hoodie", p.Name)
	assert.Equal(t, PageDetail, s.Page())
	id, ok := s.CurrentProduct()
	require.True(t, ok)
	assert.Equal(t, "hoodie-002", id)

	s.Navigate(PageCatalog)
	_, ok = s.CurrentProduct()
	assert.False(t, ok)

	_, err = s.ViewProduct(ctx, "nope")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
	assert.Equal(t, PageCatalog, s.Page())
}

func TestRecentlyViewed(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	for _, id := range []string{"tshirt-001", "hoodie-002", "tshirt-001", "tshirt-005"} {
		_, err := s.ViewProduct(ctx, id)
		require.NoError(t, err)
	}

	var got []string
	for _, p := range s.RecentlyViewed(ctx) {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"tshirt-005", "tshirt-001", "hoodie-002"}, got)
}

func TestQuickAdd_UsesFirstSizeAndColor(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	line, err := s.QuickAdd(ctx, "hoodie-002")
	require.NoError(t, err)

	assert.Equal(t, cart.Key{ProductID: "hoodie-002", Size: "M", Color: "Black"}, line.Key())
	assert.Equal(t, 1, s.Cart().Count())
}

func TestQuickAdd_RejectsFutureDrop(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	_, err := s.QuickAdd(ctx, "tshirt-003")
	assert.True(t, errors.Is(err, ErrNotYetReleased))
	assert.Equal(t, 0, s.Cart().Count())
}

func TestAdd_ReleaseIsReevaluated(t *testing.T) {
	ctx := context.Background()
	s, clk, _ := newSession(t)

	_, err := s.AddSelected(ctx, "tshirt-003", "M", "Navy")
	require.Error(t, err)

	clk.Set(time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC))
	_, err = s.AddSelected(ctx, "tshirt-003", "M", "Navy")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cart().Count())
}

func TestAddSelected_Validation(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	tests := []struct {
		name        string
		id          string
		size, color string
		want        error
	}{
		{name: "missing size", id: "tshirt-001", color: "Black", want: ErrSelectionRequired},
		{name: "missing color", id: "tshirt-001", size: "M", want: ErrSelectionRequired},
		{name: "size not offered", id: "tshirt-001", size: "XXL", color: "Black", want: ErrInvalidSelection},
		{name: "color not offered", id: "hoodie-004", size: "L", color: "White", want: ErrInvalidSelection},
		{name: "unknown product", id: "ghost", size: "M", color: "Black", want: catalog.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddSelected(ctx, tt.id, tt.size, tt.color)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 0, s.Cart().Count())
		})
	}

	assert.Equal(t, "size and color are required", ErrSelectionRequired.Error())
	assert.Equal(t, "Please select a size and color.", ShopperMessage(ErrSelectionRequired))
	assert.Equal(t, ErrNotYetReleased.Error(), ShopperMessage(ErrNotYetReleased))
}

func TestAddSelected_WorkedExample(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	_, err := s.AddSelected(ctx, "tshirt-001", "M", "Black")
	require.NoError(t, err)
	assert.Equal(t, "34.99", s.Cart().Total().StringFixed(2))

	_, err = s.AddSelected(ctx, "tshirt-001", "M", "Black")
	require.NoError(t, err)
	assert.Equal(t, "69.98", s.Cart().Total().StringFixed(2))

	_, err = s.AddSelected(ctx, "tshirt-001", "L", "Black")
	require.NoError(t, err)
	assert.Equal(t, "104.97", s.Cart().Total().StringFixed(2))
	assert.Equal(t, 2, s.Cart().Len())
}

func TestCartEdits(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)
	key := cart.Key{ProductID: "tshirt-006", Size: "M", Color: "Black"}

	_, err := s.QuickAdd(ctx, "tshirt-006")
	require.NoError(t, err)

	s.UpdateQuantity(ctx, key, 4)
	assert.Equal(t, 4, s.Cart().Count())

	s.RemoveLine(ctx, key)
	assert.Equal(t, 0, s.Cart().Len())

	_, _ = s.QuickAdd(ctx, "tshirt-006")
	s.ClearCart(ctx)
	assert.True(t, s.Cart().Total().IsZero())
}

func TestCheckout_MovesToConfirmation(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)
	_, err := s.QuickAdd(ctx, "hoodie-004")
	require.NoError(t, err)
	s.Navigate(PageCheckout)

	order, err := s.Checkout(ctx, submit.CheckoutForm{
		Name: "Ari", Email: "ari@example.com", Address: "1 Main", City: "Oslo", Zip: "0150",
	})
	require.NoError(t, err)

	assert.Equal(t, "order-0001", order.ID)
	assert.Equal(t, PageConfirmation, s.Page())
	assert.Equal(t, 0, s.Cart().Count())

	last, ok := s.LastOrder(ctx)
	require.True(t, ok)
	assert.Equal(t, "order-0001", last.ID)
}

func TestCheckout_FailureStaysOnPage(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)
	s.Navigate(PageCheckout)

	_, err := s.Checkout(ctx, submit.CheckoutForm{})
	assert.True(t, errors.Is(err, submit.ErrEmptyCart))
	assert.Equal(t, PageCheckout, s.Page())
}

func TestPersistenceAcrossSessions(t *testing.T) {
	ctx := context.Background()
	s, clk, store := newSession(t)

	_, err := s.AddSelected(ctx, "tshirt-001", "M", "Black")
	require.NoError(t, err)
	_, err = s.ViewProduct(ctx, "hoodie-002")
	require.NoError(t, err)

	next := New(ctx, catalog.MustDefault(), store, WithClock(clk))

	assert.Equal(t, 1, next.Cart().Count())
	assert.Equal(t, []string{"hoodie-002"}, next.Recent().IDs(ctx))
	assert.Equal(t, PageCatalog, next.Page())
}

func TestListing(t *testing.T) {
	s, _, _ := newSession(t)

	var got []string
	for _, p := range s.Listing("tee", catalog.SortPriceDesc) {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"tshirt-003", "tshirt-006", "tshirt-005", "tshirt-001"}, got)
}

func TestNextDrop(t *testing.T) {
	s, clk, _ := newSession(t)

	p, left, ok := s.NextDrop()
	require.True(t, ok)
	assert.Equal(t, "tshirt-003", p.ID)
	assert.Equal(t, 3, left.Days)
	assert.Equal(t, 3, left.Hours)

	clk.Advance(30 * 24 * time.Hour)
	_, _, ok = s.NextDrop()
	assert.False(t, ok)
}

func TestCountdown(t *testing.T) {
	s, clk, _ := newSession(t)

	hoodie, err := s.Catalog().Get("hoodie-002")
	require.NoError(t, err)
	_, ok := s.Countdown(hoodie)
	assert.False(t, ok, "hoodie-002 has no release instant")

	released, err := s.Catalog().Get("tshirt-001")
	require.NoError(t, err)
	left, ok := s.Countdown(released)
	require.True(t, ok)
	assert.True(t, left.Landed())

	drop, err := s.Catalog().Get("tshirt-003")
	require.NoError(t, err)
	left, ok = s.Countdown(drop)
	require.True(t, ok)
	assert.Equal(t, "03d 03h 00m 00s", left.String())

	clk.Advance(4 * 24 * time.Hour)
	left, ok = s.Countdown(drop)
	require.True(t, ok)
	assert.True(t, left.Landed())
}

func TestSubmissions(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	r, err := s.SubmitReview(ctx, "tshirt-005", submit.ReviewForm{Rating: 5, Comment: "Great", Author: "Lee"})
	require.NoError(t, err)
	assert.Equal(t, "tshirt-005", r.ProductID)

	_, err = s.SubmitReview(ctx, "missing", submit.ReviewForm{Rating: 5, Comment: "x", Author: "y"})
	assert.True(t, errors.Is(err, catalog.ErrNotFound))

	assert.NoError(t, s.Subscribe(ctx, submit.NewsletterForm{Email: "a@b.co"}))
	assert.NoError(t, s.Contact(ctx, submit.ContactForm{Name: "A", Email: "a@b.co", Message: "hi"}))
}
