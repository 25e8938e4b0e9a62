package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Action string `json:"action"`
	// Target is the step's subject, e.g. "tshirt-001 M/Black".
	Target  string `json:"target,omitempty"`
	Outcome string `json:"outcome"` // "ok" or "error"
	// Detail is the step's result summary or the error message.
	Detail string `json:"detail,omitempty"`
}

// Outcome values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// State is the session state after the flow has run.
type State struct {
	Page   string      `json:"page"`
	Lines  []StateLine `json:"lines"`
	Count  int         `json:"count"`
	Total  string      `json:"total"`
	Recent []string    `json:"recent"`
	// LastOrder is empty when no order was placed.
	LastOrder *StateOrder `json:"last_order,omitempty"`
}

// StateLine is a cart line rendered for comparison.
type StateLine struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

// StateOrder summarises the last placed order.
type StateOrder struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
	Total string `json:"total"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every step met its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains every step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final session state.
	State State `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(action, target, outcome, detail string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     len(r.Trace) + 1,
		Action:  action,
		Target:  target,
		Outcome: outcome,
		Detail:  detail,
	})
}
