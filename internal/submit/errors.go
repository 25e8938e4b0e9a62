package submit

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// ErrEmptyCart is returned by Checkout when there is nothing to order.
var ErrEmptyCart = errors.New("cart is empty: add items before checking out")

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError reports every invalid field of a form.
type ValidationError struct {
	Form   string       `json:"form"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("invalid %s form: %s", e.Form, strings.Join(msgs, " "))
}

// Field returns the error for the named field, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// fieldLabels are the names shown to shoppers.
var fieldLabels = map[string]string{
	"name":       "Name",
	"email":      "Email",
	"address":    "Address",
	"city":       "City",
	"zip":        "ZIP code",
	"comment":    "Comment",
	"author":     "Name/alias",
	"message":    "Message",
	"product_id": "Product",
}

// toValidationError converts validator output for form into a
// *ValidationError. Errors of any other kind are returned unchanged.
func toValidationError(form string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Form: form}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	if fe.Field() == "rating" {
		return "Please select a rating."
	}

	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return label + " must be a valid email address."
	default:
		return fmt.Sprintf("%s failed %q.", label, fe.Tag())
	}
}
