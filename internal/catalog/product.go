package catalog

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are never mutated after loading.
type Product struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	ImageURL            string          `json:"image_url"`
	AdditionalImageURLs []string        `json:"additional_image_urls"`
	Sizes               []string        `json:"sizes"`
	Colors              []string        `json:"colors"`
	ReleaseAt           *time.Time      `json:"release_at,omitempty"`
	Reviews             []Review        `json:"reviews"`
	AverageRating       float64         `json:"average_rating"`
	RatingCount         int             `json:"rating_count"`
}

// Review is a customer review.
type Review struct {
	ID      string `json:"id"`
	Rating  int    `json:"rating"`
	Author  string `json:"author"`
	Comment string `json:"comment"`
}

// IsFutureDrop reports whether p has a release instant strictly after now.
// Callers evaluate this on every render; the answer is never cached.
func (p Product) IsFutureDrop(now time.Time) bool {
	return p.ReleaseAt != nil && p.ReleaseAt.After(now)
}

// HasSize reports whether size is one of the sizes p is offered in.
func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// HasColor reports whether color is one of the colors p is offered in.
func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// DefaultSize is the first listed size, used by quick add.
func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

// DefaultColor is the first listed color, used by quick add.
func (p Product) DefaultColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}

// Images returns the primary image followed by the additional images.
func (p Product) Images() []string {
	images := make([]string, 0, 1+len(p.AdditionalImageURLs))
	images = append(images, p.ImageURL)
	return append(images, p.AdditionalImageURLs...)
}
