// Package clock provides the wall-clock source used for release-date checks.
//
// Release dates are compared against "now" on every evaluation, so a product
// can move from upcoming to available while a session is open. Components take
// a Clock instead of calling time.Now directly so tests can pin the instant.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the Clock backed by time.Now.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Func adapts an ordinary function to the Clock interface.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// OrSystem returns c, or System when c is nil.
func OrSystem(c Clock) Clock {
	if c == nil {
		return System{}
	}
	return c
}
