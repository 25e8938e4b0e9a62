package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/xapparel/internal/submit"
)

var shipping = []string{
	"--name", "Sam Lee",
	"--email", "sam@example.com",
	"--address", "1 Main St",
	"--city", "Springfield",
	"--zip", "12345",
}

func TestCheckout(t *testing.T) {
	s := newShop(t)
	s.mustRun("cart", "add", "tshirt-001", "--size", "M", "--color", "Black")
	s.mustRun("cart", "add", "tshirt-001", "--size", "M", "--color", "Black")

	out := s.mustRun(append([]string{"checkout"}, shipping...)...)
	assert.Contains(t, out, "✓ Order placed")
	assert.Contains(t, out, "Order id-0001 placed 2025-08-17 09:00 UTC")
	assert.Contains(t, out, "Ship to Sam Lee, 1 Main St, Springfield 12345")
	assert.Contains(t, out, "2 item(s), total 69.98")

	out = s.mustRun("cart", "show")
	assert.Contains(t, out, "Cart is empty.")

	var order submit.Order
	_, err := s.runJSON(&order, "checkout", "--last")
	require.NoError(t, err)
	assert.Equal(t, "id-0001", order.ID)
	assert.Equal(t, "69.98", order.Total.StringFixed(2))
	assert.Equal(t, 2, order.Count)
}

func TestCheckout_LastWithoutOrders(t *testing.T) {
	s := newShop(t)
	out := s.mustRun("checkout", "--last")
	assert.Contains(t, out, "No orders yet.")
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newShop(t)

	resp, err := s.runJSON(nil, append([]string{"checkout"}, shipping...)...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeEmptyCart, resp.Error.Code)
}

func TestCheckout_InvalidFormKeepsCart(t *testing.T) {
	s := newShop(t)
	s.mustRun("cart", "add", "tshirt-005")

	out, _, err := s.run("checkout", "--name", "Sam", "--email", "not-an-email")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
	assert.Contains(t, out, "Email must be a valid email address.")
	assert.Contains(t, out, "ZIP code is required.")

	out = s.mustRun("cart", "show")
	assert.Contains(t, out, "1 item(s), total 38.00")
}

func TestCheckout_ValidationDetailsJSON(t *testing.T) {
	s := newShop(t)
	s.mustRun("cart", "add", "tshirt-005")

	out, _, err := s.run("--format", "json", "checkout", "--email", "sam@example.com")
	require.Error(t, err)
	assert.Contains(t, out, `"field": "name"`)
	assert.Contains(t, out, `"rule": "required"`)
}

func TestReview(t *testing.T) {
	s := newShop(t)

	out := s.mustRun("review", "tshirt-005", "--rating", "5", "--comment", "Fits great", "--author", "Lee")
	assert.Contains(t, out, "✓ Review id-0001 for tshirt-005 submitted")

	var detail ProductDetail
	_, err := s.runJSON(&detail, "catalog", "show", "tshirt-005")
	require.NoError(t, err)
	assert.Equal(t, 4.0, detail.AverageRating, "published rating is unchanged")
	assert.Equal(t, 1, detail.RatingCount)
}

func TestReview_MissingRating(t *testing.T) {
	s := newShop(t)

	out, _, err := s.run("review", "tshirt-005", "--comment", "ok", "--author", "Lee")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Please select a rating.")
}

func TestSubscribe(t *testing.T) {
	s := newShop(t)

	out := s.mustRun("subscribe", "drops@example.com")
	assert.Contains(t, out, "✓ Subscribed drops@example.com")

	_, _, err := s.run("subscribe", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestContact(t *testing.T) {
	s := newShop(t)

	out := s.mustRun("contact", "--name", "Sam", "--email", "sam@example.com", "-m", "Restock the Ghost Hoodie?")
	assert.Contains(t, out, "✓ Message sent")

	out, _, err := s.run("contact", "--name", "Sam", "--email", "sam@example.com")
	require.Error(t, err)
	assert.Contains(t, out, "Message is required.")
}

func TestRecent(t *testing.T) {
	s := newShop(t)

	out := s.mustRun("recent")
	assert.Contains(t, out, "Nothing viewed yet.")

	for _, id := range []string{"tshirt-001", "hoodie-002", "tshirt-001", "tshirt-006"} {
		s.mustRun("catalog", "show", id)
	}

	var ids []string
	_, err := s.runJSON(&ids, "recent")
	require.NoError(t, err)
	assert.Equal(t, []string{"tshirt-006", "tshirt-001", "hoodie-002"}, ids)

	out = s.mustRun("recent", "--clear")
	assert.Contains(t, out, "Nothing viewed yet.")
}
