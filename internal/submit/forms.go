package submit

import "github.com/roach88/xapparel/internal/catalog"

// CheckoutForm is the shipping form filled in at checkout.
type CheckoutForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
}

// ReviewForm is a review left on a product page.
type ReviewForm struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
	Author    string `json:"author" validate:"required"`
}

// NewsletterForm signs an address up for drop announcements.
type NewsletterForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ContactForm is a message sent from the contact page.
type ContactForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// SubmittedReview is an accepted review. The product's cached rating is not
// changed by it.
type SubmittedReview struct {
	ProductID string         `json:"product_id"`
	Review    catalog.Review `json:"review"`
}
