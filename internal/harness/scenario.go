package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// Scenario is a scripted till session and the checks to run on its ledger.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Location is the IANA zone of the ledger timestamps. Defaults to UTC.
	Location string `yaml:"location,omitempty"`

	// Start is the first reading of the scenario clock. Defaults to
	// DefaultStart.
	Start string `yaml:"start,omitempty"`

	// Catalog lists the articles known to the writer and the replay.
	Catalog []pos.Article `yaml:"catalog,omitempty"`

	// Steps are applied to the ledger in order.
	Steps []Step `yaml:"steps"`

	// ExpectError is the error code the replay must fail with, if any.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the trace and the projection.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DefaultStart is the scenario clock start when none is given.
const DefaultStart = "2024-01-01T08:00"

// Step is one ledger write. Exactly one field is set.
type Step struct {
	BeginPeriod  *PeriodStep       `yaml:"begin_period,omitempty"`
	Sale         *SaleStep         `yaml:"sale,omitempty"`
	EndPeriod    *PeriodStep       `yaml:"end_period,omitempty"`
	ModifyCash   *ModifyCashStep   `yaml:"modify_cash,omitempty"`
	StaffBillPay *StaffBillPayStep `yaml:"staff_bill_pay,omitempty"`

	// Raw is appended to the ledger file unchecked, followed by a newline
	// unless it already ends with one.
	Raw *string `yaml:"raw,omitempty"`
}

// PeriodStep opens or closes a selling period. Closing reuses the user of
// the matching opening unless User is set.
type PeriodStep struct {
	ID      int    `yaml:"id"`
	User    string `yaml:"user,omitempty"`
	Cash    int    `yaml:"cash"`
	Card    int    `yaml:"card,omitempty"`
	At      string `yaml:"at,omitempty"`
	Comment string `yaml:"comment,omitempty"`
}

// SaleStep sells one line item. An empty or "-" article writes a sale
// without an article. Articles missing from the catalog are written by name.
type SaleStep struct {
	Article  string `yaml:"article,omitempty"`
	Quantity int    `yaml:"quantity"`
	Price    int    `yaml:"price"`
	Seller   string `yaml:"seller"`
	Bill     string `yaml:"bill"`
	Purchase int    `yaml:"purchase,omitempty"`
	At       string `yaml:"at,omitempty"`
}

// ModifyCashStep moves cash in or out of the till.
type ModifyCashStep struct {
	Actor string `yaml:"actor"`
	Cash  int    `yaml:"cash"`
	Card  int    `yaml:"card,omitempty"`
}

// StaffBillPayStep records a payment against a staff bill.
type StaffBillPayStep struct {
	Bill   string `yaml:"bill"`
	Admin  string `yaml:"admin"`
	Amount int    `yaml:"amount"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of Kind with matching Fields
	// - "trace_order": Kinds appear in order
	// - "trace_count": Kind appears exactly Count times
	// - "final_state": a projection row matches Where and Expect
	Type string `yaml:"type"`

	// Kind is the trace event kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Fields are expected trace event fields, by JSON name (trace_contains).
	// Subset match - only specified fields are validated.
	Fields map[string]any `yaml:"fields,omitempty"`

	// Kinds is the expected kind order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Table is the projection table name (final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected column values (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
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

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if n := step.variants(); n != 1 {
			return fmt.Errorf("steps[%d]: exactly one step kind is required, got %d", i, n)
		}
	}

	switch s.ExpectError {
	case "", string(ledger.ErrCodeFormat), string(ledger.ErrCodeCorrupt):
	default:
		return fmt.Errorf("expect_error: unsupported error code %q", s.ExpectError)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func (s Step) variants() int {
	n := 0
	for _, set := range []bool{
		s.BeginPeriod != nil, s.Sale != nil, s.EndPeriod != nil,
		s.ModifyCash != nil, s.StaffBillPay != nil, s.Raw != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
