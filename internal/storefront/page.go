package storefront

import "fmt"

// Page is the view a session is showing.
type Page string

const (
	PageCatalog      Page = "catalog"
	PageDetail       Page = "detail"
	PageCart         Page = "cart"
	PageCheckout     Page = "checkout"
	PageConfirmation Page = "confirmation"
)

// Pages lists every Page.
var Pages = []Page{PageCatalog, PageDetail, PageCart, PageCheckout, PageConfirmation}

// ParsePage converts a page name into a Page.
func ParsePage(s string) (Page, error) {
	for _, p := range Pages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q", s)
}
