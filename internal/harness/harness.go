package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/xapparel/internal/cart"
	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/kv"
	"github.com/roach88/xapparel/internal/storefront"
	"github.com/roach88/xapparel/internal/submit"
	"github.com/roach88/xapparel/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a fixed clock and sequential IDs.
type Harness struct {
	session *storefront.Session
	clock   *testutil.FixedClock
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Step failures that the scenario did not expect, and failed assertions, are
// reported in Result.Errors; the returned error is reserved for scenarios
// that cannot run at all.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Load the catalog
// 3. Execute flow steps, checking expectations
// 4. Capture final state and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := kv.OpenSQLite(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cat, err := loadCatalog(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	now := testutil.DefaultNow
	if scenario.Now != "" {
		now, err = time.Parse(time.RFC3339, scenario.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid now: %w", err)
		}
	}

	ctx := context.Background()
	clock := testutil.NewFixedClock(now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &Harness{
		session: storefront.New(ctx, cat, st,
			storefront.WithClock(clock),
			storefront.WithIDs(testutil.NewSequenceGenerator("id")),
			storefront.WithLogger(logger)),
		clock:  clock,
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		h.executeStep(ctx, i, step, result)
	}

	result.State = h.captureState(ctx)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// executeStep runs one step and records it. A step without an expect block
// must succeed; with one, it must fail with a matching message.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) {
	target, detail, err := h.dispatch(ctx, step)

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		detail = err.Error()
	}
	result.AddTrace(step.Do, target, outcome, detail)

	switch {
	case step.Expect == nil && err != nil:
		result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", i, step.Do, err))
	case step.Expect != nil && err == nil:
		result.AddError(fmt.Sprintf("flow[%d] %s: expected error containing %q, got success", i, step.Do, step.Expect.Error))
	case step.Expect != nil && !strings.Contains(err.Error(), step.Expect.Error):
		result.AddError(fmt.Sprintf("flow[%d] %s: expected error containing %q, got %q", i, step.Do, step.Expect.Error, err.Error()))
	}
}

// dispatch performs the step and returns its trace target and detail.
func (h *Harness) dispatch(ctx context.Context, step Step) (string, string, error) {
	s := h.session
	key := cart.Key{ProductID: step.Product, Size: step.Size, Color: step.Color}

	switch step.Do {
	case StepView:
		_, err := s.ViewProduct(ctx, step.Product)
		return step.Product, "", err

	case StepQuickAdd:
		line, err := s.QuickAdd(ctx, step.Product)
		if err != nil {
			return step.Product, "", err
		}
		return step.Product, fmt.Sprintf("%s qty %d", line.Key(), line.Quantity), nil

	case StepAdd:
		line, err := s.AddSelected(ctx, step.Product, step.Size, step.Color)
		if err != nil {
			return key.String(), "", err
		}
		return key.String(), fmt.Sprintf("qty %d", line.Quantity), nil

	case StepRemove:
		s.RemoveLine(ctx, key)
		return key.String(), "", nil

	case StepUpdate:
		s.UpdateQuantity(ctx, key, *step.Quantity)
		return fmt.Sprintf("%s %d", key, *step.Quantity), "", nil

	case StepClear:
		s.ClearCart(ctx)
		return "", "", nil

	case StepCheckout:
		order, err := s.Checkout(ctx, submit.CheckoutForm{
			Name:    step.Form["name"],
			Email:   step.Form["email"],
			Address: step.Form["address"],
			City:    step.Form["city"],
			Zip:     step.Form["zip"],
		})
		if err != nil {
			return "", "", err
		}
		return "", fmt.Sprintf("order %s total %s", order.ID, order.Total.StringFixed(2)), nil

	case StepReview:
		rating, err := reviewRating(step.Form)
		if err != nil {
			return step.Product, "", err
		}
		r, err := s.SubmitReview(ctx, step.Product, submit.ReviewForm{
			Rating:  rating,
			Comment: step.Form["comment"],
			Author:  step.Form["author"],
		})
		if err != nil {
			return step.Product, "", err
		}
		return step.Product, fmt.Sprintf("review %s rating %d", r.Review.ID, r.Review.Rating), nil

	case StepSubscribe:
		err := s.Subscribe(ctx, submit.NewsletterForm{Email: step.Form["email"]})
		return step.Form["email"], "", err

	case StepContact:
		err := s.Contact(ctx, submit.ContactForm{
			Name:    step.Form["name"],
			Email:   step.Form["email"],
			Message: step.Form["message"],
		})
		return step.Form["email"], "", err

	case StepNavigate:
		page, err := storefront.ParsePage(step.Page)
		if err != nil {
			return step.Page, "", err
		}
		s.Navigate(page)
		return step.Page, "", nil

	case StepAdvance:
		d, err := time.ParseDuration(step.Duration)
		if err != nil {
			return step.Duration, "", err
		}
		now := h.clock.Advance(d)
		return step.Duration, "now " + now.UTC().Format(time.RFC3339), nil
	}
	return "", "", fmt.Errorf("unknown action %q", step.Do)
}

// captureState renders the session state with fixed two-place money values.
func (h *Harness) captureState(ctx context.Context) State {
	s := h.session
	st := State{
		Page:   string(s.Page()),
		Lines:  []StateLine{},
		Count:  s.Cart().Count(),
		Total:  s.Cart().Total().StringFixed(2),
		Recent: s.Recent().IDs(ctx),
	}
	for _, l := range s.Cart().Lines() {
		st.Lines = append(st.Lines, StateLine{
			Key:      l.Key().String(),
			Quantity: l.Quantity,
			Price:    l.Price.StringFixed(2),
			Subtotal: l.Subtotal().StringFixed(2),
		})
	}
	if o, ok := s.LastOrder(ctx); ok {
		st.LastOrder = &StateOrder{ID: o.ID, Count: o.Count, Total: o.Total.StringFixed(2)}
	}
	return st
}
