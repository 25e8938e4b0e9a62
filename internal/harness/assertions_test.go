package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	r := NewResult()
	r.AddTrace(StepView, "tshirt-001", OutcomeOK, "")
	r.AddTrace(StepAdd, "tshirt-001 M/Black", OutcomeOK, "qty 1")
	r.AddTrace(StepCheckout, "", OutcomeOK, "order id-0001 total 34.99")
	r.State = State{
		Page:   "confirmation",
		Lines:  []StateLine{},
		Count:  0,
		Total:  "0.00",
		Recent: []string{"tshirt-001"},
		LastOrder: &StateOrder{
			ID: "id-0001", Count: 1, Total: "34.99",
		},
	}
	return r
}

func TestEvaluateAssertions_Passing(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertCartLines, Lines: []string{}},
		{Type: AssertCartCount, Count: intp(0)},
		{Type: AssertCartTotal, Total: "0"},
		{Type: AssertRecent, IDs: []string{"tshirt-001"}},
		{Type: AssertPage, Page: "confirmation"},
		{Type: AssertLastOrder, Total: "34.990"},
		{Type: AssertTraceCount, Action: StepAdd, Count: intp(1)},
		{Type: AssertTraceOrder, Actions: []string{StepView, StepCheckout}},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failing(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"lines", Assertion{Type: AssertCartLines, Lines: []string{"x M/Black x1"}}, `Expected: ["x M/Black x1"]`},
		{"count", Assertion{Type: AssertCartCount, Count: intp(2)}, "Actual: 0"},
		{"total", Assertion{Type: AssertCartTotal, Total: "1"}, "Actual: 0.00"},
		{"recent", Assertion{Type: AssertRecent, IDs: []string{}}, `Actual: ["tshirt-001"]`},
		{"page", Assertion{Type: AssertPage, Page: "cart"}, "Actual: confirmation"},
		{"no order expected", Assertion{Type: AssertLastOrder}, "Actual: order id-0001"},
		{"order total", Assertion{Type: AssertLastOrder, Total: "10"}, "Actual: 34.99"},
		{"trace count", Assertion{Type: AssertTraceCount, Action: StepView, Count: intp(2)}, "Actual: view x1"},
		{"trace order", Assertion{Type: AssertTraceOrder, Actions: []string{StepCheckout, StepView}}, `"view" not found after ["checkout"]`},
		{"unknown", Assertion{Type: "vibes"}, `unknown assertion type "vibes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertPage,
		Expected: "cart",
		Actual:   "catalog",
		Trace:    sampleResult().Trace,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: page")
	assert.Contains(t, msg, "[2] add tshirt-001 M/Black -> ok (qty 1)")
}

func TestLastOrder_NoneWhenExpected(t *testing.T) {
	r := sampleResult()
	r.State.LastOrder = nil

	assert.Empty(t, EvaluateAssertions(r, []Assertion{{Type: AssertLastOrder}}))

	errs := EvaluateAssertions(r, []Assertion{{Type: AssertLastOrder, Total: "1"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: no order")
}
