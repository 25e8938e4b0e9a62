// Package harness runs storefront scenarios written in YAML and checks the
// resulting session state.
//
// # Scenario Format
//
//	name: merge_and_total
//	description: "Repeat adds merge into one line"
//	now: "2025-08-17T09:00:00Z"   # optional; pins the clock
//	catalog: drops.cue            # optional; relative to the scenario file
//	flow:
//	  - do: add
//	    product: tshirt-001
//	    size: M
//	    color: Black
//	  - do: add
//	    product: tshirt-003
//	    size: M
//	    color: Navy
//	    expect:
//	      error: "has not dropped yet"
//	assertions:
//	  - type: cart_lines
//	    lines: ["tshirt-001 M/Black x1"]
//	  - type: cart_total
//	    total: "34.99"
//
// # Steps
//
// Each step drives one storefront.Session operation: view, quick_add, add,
// remove, update, clear, checkout, review, subscribe, contact, navigate, and
// advance (moves the clock by a Go duration). A step without an expect block
// must succeed; expect.error requires a failure whose message contains the
// given text.
//
// # Assertion Types
//
//   - cart_lines: exact cart lines in order, as "<id> <size>/<color> x<qty>"
//   - cart_count: units in the cart
//   - cart_total: exact cart total
//   - recent: stored recently-viewed IDs, most recent first
//   - page: current page
//   - last_order: total of the last placed order, or absent when empty
//   - trace_count: number of steps of an action
//   - trace_order: actions appear in this relative order
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a fixed
// clock and sequential IDs (id-0001, id-0002, ...), so the same scenario
// always renders the same Snapshot text for golden comparison.
package harness
