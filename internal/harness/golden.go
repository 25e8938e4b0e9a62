package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario result as stable text for golden comparison.
//
// Example:
//
//	scenario: merge_and_total
//
//	trace:
//	  1 add tshirt-001 M/Black -> ok (qty 1)
//
//	page: catalog
//	cart:
//	  tshirt-001 M/Black x1 @ 34.99 = 34.99
//	count: 1
//	total: 34.99
//	recent: -
//	last_order: -
func Snapshot(name string, result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario: %s\n", name)
	b.WriteString("\ntrace:\n")
	for _, ev := range result.Trace {
		fmt.Fprintf(&b, "  %d %s\n", ev.Seq, formatEvent(ev))
	}

	st := result.State
	fmt.Fprintf(&b, "\npage: %s\n", st.Page)
	if len(st.Lines) == 0 {
		b.WriteString("cart: empty\n")
	} else {
		b.WriteString("cart:\n")
		for _, l := range st.Lines {
			fmt.Fprintf(&b, "  %s x%d @ %s = %s\n", l.Key, l.Quantity, l.Price, l.Subtotal)
		}
	}
	fmt.Fprintf(&b, "count: %d\n", st.Count)
	fmt.Fprintf(&b, "total: %s\n", st.Total)
	fmt.Fprintf(&b, "recent: %s\n", dashIfEmpty(strings.Join(st.Recent, ", ")))
	if st.LastOrder == nil {
		b.WriteString("last_order: -\n")
	} else {
		fmt.Fprintf(&b, "last_order: %s x%d %s\n", st.LastOrder.ID, st.LastOrder.Count, st.LastOrder.Total)
	}
	return []byte(b.String())
}

// formatEvent renders "<action> [target] -> ok|error [(detail)|: message]".
func formatEvent(ev TraceEvent) string {
	head := ev.Action
	if ev.Target != "" {
		head += " " + ev.Target
	}
	switch {
	case ev.Outcome == OutcomeError:
		return fmt.Sprintf("%s -> error: %s", head, ev.Detail)
	case ev.Detail != "":
		return fmt.Sprintf("%s -> ok (%s)", head, ev.Detail)
	default:
		return head + " -> ok"
	}
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Assertion failures and golden
// mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's snapshot against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
