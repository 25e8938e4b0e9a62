// Package submit handles the storefront's form submissions: checkout,
// product reviews, newsletter signup and the contact form.
//
// Every submission is a single synchronous call. Forms are checked with
// go-playground/validator struct tags; a failing form returns a
// *ValidationError listing each offending field and leaves stored state
// untouched. Accepted submissions are logged. Only checkout has a lasting
// effect: it records the order under the lastOrder key and empties the cart.
package submit
