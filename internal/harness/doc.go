// Package harness runs scripted till sessions against a real ledger file and
// checks the replayed result.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	location: UTC              # optional, defaults to UTC
//	start: 2024-03-01T08:00    # optional, clock for modify_cash/staff_bill_pay
//	catalog:
//	  - name: Kávé
//	    selling_price: 450
//	steps:
//	  - begin_period: { id: 1, user: anna, cash: 10000, at: "2024-03-01T08:00" }
//	  - sale: { article: Kávé, quantity: 2, price: 450, seller: anna, bill: "1" }
//	  - end_period: { id: 1, cash: 10900, card: 450 }
//	  - modify_cash: { actor: admin, cash: -500 }
//	  - staff_bill_pay: { bill: bela, admin: admin, amount: 1000 }
//	  - raw: "line appended to the file verbatim"
//	expect_error: CORRUPT_LEDGER  # optional
//	assertions:
//	  - type: trace_contains
//	    kind: sale
//	    fields: { article: Kávé, quantity: 2 }
//	  - type: final_state
//	    table: periods
//	    where: { period_id: 1 }
//	    expect: { expected_cash: 10900 }
//
// Steps without "at" take their time from the scenario clock, which starts
// at start and advances one minute per reading.
//
// # Assertion Types
//
//   - trace_contains: an event of kind whose fields match (subset match)
//   - trace_order: kinds appear in the given order
//   - trace_count: kind appears exactly count times
//   - final_state: a row of the SQLite projection matches (subset match)
//
// # Golden Files
//
// RunWithGolden compares the ledger file and the replay trace with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
