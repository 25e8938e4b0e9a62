package catalog

import (
	"fmt"
	"time"
)

// NextDrop returns the first product, in catalog order, that is still
// unreleased at now.
func NextDrop(products []Product, now time.Time) (Product, bool) {
	for _, p := range products {
		if p.IsFutureDrop(now) {
			return p, true
		}
	}
	return Product{}, false
}

// TimeLeft is a countdown broken into display units.
type TimeLeft struct {
	Remaining time.Duration `json:"remaining"`
	Days      int           `json:"days"`
	Hours     int           `json:"hours"`
	Minutes   int           `json:"minutes"`
	Seconds   int           `json:"seconds"`
}

// Countdown returns the time left until target. Once target has passed the
// zero TimeLeft is returned and Landed reports true.
func Countdown(target, now time.Time) TimeLeft {
	d := target.Sub(now)
	if d <= 0 {
		return TimeLeft{}
	}
	return TimeLeft{
		Remaining: d,
		Days:      int(d / (24 * time.Hour)),
		Hours:     int(d/time.Hour) % 24,
		Minutes:   int(d/time.Minute) % 60,
		Seconds:   int(d/time.Second) % 60,
	}
}

// Landed reports whether the drop has already happened.
func (t TimeLeft) Landed() bool {
	return t.Remaining <= 0
}

func (t TimeLeft) String() string {
	if t.Landed() {
		return "The Drop Has Landed!"
	}
	return fmt.Sprintf("%02dd %02dh %02dm %02ds", t.Days, t.Hours, t.Minutes, t.Seconds)
}
