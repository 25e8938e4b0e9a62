package storefront

import "github.com/go-faster/errors"

// Selection errors returned by the add-to-cart paths. None of them change
// the cart.
var (
	// ErrSelectionRequired means a size or color was left empty.
	ErrSelectionRequired = errors.New("size and color are required")
	// ErrInvalidSelection means the size or color is not offered for the product.
	ErrInvalidSelection = errors.New("selected size or color is not available")
	// ErrNotYetReleased means the product is an upcoming drop.
	ErrNotYetReleased = errors.New("product has not dropped yet")
)

// ShopperMessage returns the text shown to a shopper for err. Errors without
// a dedicated prompt are returned as err.Error().
func ShopperMessage(err error) string {
	switch {
	case errors.Is(err, ErrSelectionRequired):
		return "Please select a size and color."
	default:
		return err.Error()
	}
}
