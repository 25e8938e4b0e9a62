package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, formatEvent(ev))
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}
	st := result.State

	switch a.Type {
	case AssertCartLines:
		actual := make([]string, len(st.Lines))
		for i, l := range st.Lines {
			actual[i] = fmt.Sprintf("%s x%d", l.Key, l.Quantity)
		}
		if !slices.Equal(a.Lines, actual) {
			return fail(fmt.Sprintf("%q", a.Lines), fmt.Sprintf("%q", actual))
		}

	case AssertCartCount:
		if *a.Count != st.Count {
			return fail(fmt.Sprint(*a.Count), fmt.Sprint(st.Count))
		}

	case AssertCartTotal:
		if !moneyEqual(a.Total, st.Total) {
			return fail(a.Total, st.Total)
		}

	case AssertRecent:
		if !slices.Equal(a.IDs, st.Recent) {
			return fail(fmt.Sprintf("%q", a.IDs), fmt.Sprintf("%q", st.Recent))
		}

	case AssertPage:
		if a.Page != st.Page {
			return fail(a.Page, st.Page)
		}

	case AssertLastOrder:
		switch {
		case a.Total == "" && st.LastOrder != nil:
			return fail("no order", "order "+st.LastOrder.ID)
		case a.Total != "" && st.LastOrder == nil:
			return fail("order totalling "+a.Total, "no order")
		case a.Total != "" && !moneyEqual(a.Total, st.LastOrder.Total):
			return fail(a.Total, st.LastOrder.Total)
		}

	case AssertTraceCount:
		n := 0
		for _, ev := range result.Trace {
			if ev.Action == a.Action {
				n++
			}
		}
		if n != *a.Count {
			return fail(fmt.Sprintf("%s x%d", a.Action, *a.Count), fmt.Sprintf("%s x%d", a.Action, n))
		}

	case AssertTraceOrder:
		if err := assertTraceOrder(result.Trace, a.Actions); err != nil {
			return fail(strings.Join(a.Actions, " -> "), err.Error())
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// assertTraceOrder checks that actions occur in the trace in the given
// relative order; other steps may be interleaved.
func assertTraceOrder(trace []TraceEvent, actions []string) error {
	next := 0
	for _, ev := range trace {
		if next < len(actions) && ev.Action == actions[next] {
			next++
		}
	}
	if next < len(actions) {
		return fmt.Errorf("%q not found after %q", actions[next], actions[:next])
	}
	return nil
}

// moneyEqual compares decimal strings by value, so "69.98" matches "69.980".
func moneyEqual(want, got string) bool {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return false
	}
	g, err := decimal.NewFromString(got)
	if err != nil {
		return false
	}
	return w.Equal(g)
}
