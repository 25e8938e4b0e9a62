package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/xapparel/internal/storefront"
)

// Scenario is a scripted shopping session with assertions on its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now pins the session clock (RFC 3339). Empty means testutil.DefaultNow.
	Now string `yaml:"now,omitempty"`

	// Catalog is an alternate catalog file. Empty means the embedded catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// Flow is the sequence of shopper actions.
	Flow []Step `yaml:"flow"`

	// Assertions validate the trace and the final session state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one shopper action. Which fields apply depends on Do.
type Step struct {
	Do string `yaml:"do"`

	Product  string `yaml:"product,omitempty"`
	Size     string `yaml:"size,omitempty"`
	Color    string `yaml:"color,omitempty"`
	Quantity *int   `yaml:"quantity,omitempty"`
	Page     string `yaml:"page,omitempty"`
	Duration string `yaml:"duration,omitempty"`

	// Form holds the fields for checkout, review, subscribe and contact.
	// Review ratings are given as "rating".
	Form map[string]string `yaml:"form,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect overrides the default expectation that a step succeeds.
type Expect struct {
	// Error is a substring the step's error message must contain.
	Error string `yaml:"error"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	Type string `yaml:"type"`

	Lines   []string `yaml:"lines,omitempty"`
	Count   *int     `yaml:"count,omitempty"`
	Total   string   `yaml:"total,omitempty"`
	IDs     []string `yaml:"ids,omitempty"`
	Page    string   `yaml:"page,omitempty"`
	Action  string   `yaml:"action,omitempty"`
	Actions []string `yaml:"actions,omitempty"`
}

// Step actions.
const (
	StepView      = "view"
	StepQuickAdd  = "quick_add"
	StepAdd       = "add"
	StepRemove    = "remove"
	StepUpdate    = "update"
	StepClear     = "clear"
	StepCheckout  = "checkout"
	StepReview    = "review"
	StepSubscribe = "subscribe"
	StepContact   = "contact"
	StepNavigate  = "navigate"
	StepAdvance   = "advance"
)

// Assertion types.
const (
	AssertCartLines  = "cart_lines"
	AssertCartCount  = "cart_count"
	AssertCartTotal  = "cart_total"
	AssertRecent     = "recent"
	AssertPage       = "page"
	AssertLastOrder  = "last_order"
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
)

var stepActions = []string{
	StepView, StepQuickAdd, StepAdd, StepRemove, StepUpdate, StepClear,
	StepCheckout, StepReview, StepSubscribe, StepContact, StepNavigate, StepAdvance,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative catalog path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Now != "" {
		if _, err := time.Parse(time.RFC3339, s.Now); err != nil {
			return fmt.Errorf("now: %w", err)
		}
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, st *Step) error {
	if st.Do == "" {
		return fmt.Errorf("flow[%d]: do is required", i)
	}
	if !slices.Contains(stepActions, st.Do) {
		return fmt.Errorf("flow[%d]: unknown action %q", i, st.Do)
	}

	switch st.Do {
	case StepView, StepQuickAdd, StepAdd, StepReview:
		if st.Product == "" {
			return fmt.Errorf("flow[%d]: %s requires product", i, st.Do)
		}
		if st.Do == StepReview {
			if _, err := reviewRating(st.Form); err != nil {
				return fmt.Errorf("flow[%d]: %w", i, err)
			}
		}
	case StepRemove, StepUpdate:
		if st.Product == "" || st.Size == "" || st.Color == "" {
			return fmt.Errorf("flow[%d]: %s requires product, size and color", i, st.Do)
		}
		if st.Do == StepUpdate && st.Quantity == nil {
			return fmt.Errorf("flow[%d]: update requires quantity", i)
		}
	case StepNavigate:
		if _, err := storefront.ParsePage(st.Page); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	case StepAdvance:
		if _, err := time.ParseDuration(st.Duration); err != nil {
			return fmt.Errorf("flow[%d]: advance: %w", i, err)
		}
	}

	if st.Expect != nil && st.Expect.Error == "" {
		return fmt.Errorf("flow[%d].expect: error is required", i)
	}
	return nil
}

// reviewRating reads the rating field of a review form. A missing rating is
// zero, which the review form itself rejects.
func reviewRating(form map[string]string) (int, error) {
	raw, ok := form["rating"]
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("review rating %q is not a number", raw)
	}
	return n, nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCartLines:
		if a.Lines == nil {
			return fmt.Errorf("assertions[%d]: cart_lines requires 'lines' (use [] for an empty cart)", index)
		}
	case AssertCartCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: cart_count requires 'count'", index)
		}
	case AssertCartTotal:
		if a.Total == "" {
			return fmt.Errorf("assertions[%d]: cart_total requires 'total'", index)
		}
	case AssertRecent:
		if a.IDs == nil {
			return fmt.Errorf("assertions[%d]: recent requires 'ids' (use [] for none)", index)
		}
	case AssertPage:
		if _, err := storefront.ParsePage(a.Page); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertLastOrder:
		// An empty total asserts that no order was placed.
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: trace_count requires 'action'", index)
		}
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: trace_count requires 'count'", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) < 2 {
			return fmt.Errorf("assertions[%d]: trace_order requires at least 2 actions", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
