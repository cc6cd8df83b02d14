package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/tillbook/internal/catalog"
	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
	"github.com/roach88/tillbook/internal/report"
	"github.com/roach88/tillbook/internal/store"
	"github.com/roach88/tillbook/internal/testutil"
)

// Harness applies scenario steps to one ledger file.
type Harness struct {
	ledger  *ledger.Ledger
	path    string
	catalog *catalog.Catalog
	clock   *testutil.SteppingClock
	loc     *time.Location
	periods map[int]*pos.SellingPeriod
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario writes a fresh ledger in its own temporary directory and
// projects it into an in-memory database for final_state assertions.
// Timestamps come from a stepping clock, so runs are reproducible.
//
// Run returns an error when the scenario cannot be executed (bad step,
// rejected write); replay and assertion failures are reported in Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with ledger and step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	ctx := context.Background()

	h, cleanup, err := newHarness(scenario, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	for i, step := range scenario.Steps {
		if err := h.apply(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	result := NewResult()
	result.Ledger = string(data)

	trace := &report.Trace{}
	replayErr := h.ledger.Replay(trace)
	result.Trace = trace.Events

	var st *store.Store
	if replayErr != nil {
		var le *ledger.Error
		if !errors.As(replayErr, &le) || le.Code == ledger.ErrCodeStorage {
			return nil, fmt.Errorf("replay: %w", replayErr)
		}
		result.ReplayError = string(le.Code)
		h.logger.Info("replay failed", "code", le.Code, "row", le.Row, "column", le.Column)
	} else {
		st, err = store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("create in-memory store: %w", err)
		}
		defer st.Close()

		if _, err := st.Project(ctx, h.ledger); err != nil {
			return nil, err
		}
	}

	if result.ReplayError != scenario.ExpectError {
		msg := fmt.Sprintf("replay error: expected %q, got %q", scenario.ExpectError, result.ReplayError)
		if replayErr != nil {
			msg += ": " + replayErr.Error()
		}
		result.AddError(msg)
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func newHarness(scenario *Scenario, logger *slog.Logger) (*Harness, func(), error) {
	zone := scenario.Location
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, nil, fmt.Errorf("load location: %w", err)
	}

	startText := scenario.Start
	if startText == "" {
		startText = DefaultStart
	}
	start, err := ledger.ParseTimestamp(startText, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("parse start: %w", err)
	}

	cat, err := catalog.New(scenario.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}

	dir, err := os.MkdirTemp("", "tillbook-scenario-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp dir: %w", err)
	}
	path := filepath.Join(dir, "sales.tsv")

	clock := testutil.NewSteppingClock(start, time.Minute)
	l, err := ledger.Open(path,
		ledger.WithCatalog(cat),
		ledger.WithClock(clock),
		ledger.WithLocation(loc),
		ledger.WithLogger(logger),
		ledger.WithSync(false),
	)
	if err != nil {
		os.RemoveAll(dir)
		return nil, nil, err
	}

	h := &Harness{
		ledger:  l,
		path:    path,
		catalog: cat,
		clock:   clock,
		loc:     loc,
		periods: make(map[int]*pos.SellingPeriod),
		logger:  logger.With("scenario", scenario.Name),
	}
	cleanup := func() {
		l.Close()
		os.RemoveAll(dir)
	}
	return h, cleanup, nil
}

// apply writes one step to the ledger.
func (h *Harness) apply(step Step) error {
	switch {
	case step.BeginPeriod != nil:
		s := step.BeginPeriod
		at, err := h.at(s.At)
		if err != nil {
			return err
		}
		p := &pos.SellingPeriod{
			ID:                   s.ID,
			Username:             s.User,
			BeginTime:            at,
			OpenCash:             s.Cash,
			OpenCreditCardAmount: s.Card,
		}
		h.periods[s.ID] = p
		h.logger.Debug("begin period", "id", s.ID, "user", s.User)
		return h.ledger.BeginPeriod(p, s.Comment)

	case step.Sale != nil:
		s := step.Sale
		at, err := h.at(s.At)
		if err != nil {
			return err
		}
		bill, err := pos.ParseBillID(s.Bill)
		if err != nil {
			return fmt.Errorf("sale bill: %w", err)
		}
		h.logger.Debug("sale", "article", s.Article, "quantity", s.Quantity)
		return h.ledger.Sale(&pos.Sale{
			Timestamp:    at,
			Article:      h.article(s.Article),
			Quantity:     s.Quantity,
			PricePerUnit: s.Price,
			Seller:       s.Seller,
			BillID:       bill,
			PurchaseID:   s.Purchase,
		})

	case step.EndPeriod != nil:
		s := step.EndPeriod
		at, err := h.at(s.At)
		if err != nil {
			return err
		}
		p, ok := h.periods[s.ID]
		if !ok {
			p = &pos.SellingPeriod{ID: s.ID, BeginTime: at}
		}
		delete(h.periods, s.ID)
		if s.User != "" {
			p.Username = s.User
		}
		p.EndTime = at
		p.CloseCash = s.Cash
		p.CloseCreditCardAmount = s.Card
		h.logger.Debug("end period", "id", s.ID)
		return h.ledger.EndPeriod(p, s.Comment)

	case step.ModifyCash != nil:
		s := step.ModifyCash
		h.logger.Debug("modify cash", "actor", s.Actor, "cash", s.Cash)
		return h.ledger.ModifyCash(s.Actor, s.Cash, s.Card)

	case step.StaffBillPay != nil:
		s := step.StaffBillPay
		h.logger.Debug("staff bill pay", "bill", s.Bill, "amount", s.Amount)
		return h.ledger.StaffBillPay(pos.StaffBill{Username: s.Bill}, s.Admin, s.Amount)

	case step.Raw != nil:
		return h.appendRaw(*step.Raw)
	}
	return fmt.Errorf("empty step")
}

// at parses a step timestamp, or reads the scenario clock when empty.
func (h *Harness) at(s string) (time.Time, error) {
	if s == "" {
		return h.clock.Now(), nil
	}
	return ledger.ParseTimestamp(s, h.loc)
}

func (h *Harness) article(name string) *pos.Article {
	if name == "" || name == ledger.NoArticleName {
		return nil
	}
	if a, ok := h.catalog.FindArticle(name); ok {
		return a
	}
	return &pos.Article{Name: name}
}

func (h *Harness) appendRaw(line string) error {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("append raw line: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append raw line: %w", err)
	}
	h.logger.Debug("raw line", "bytes", len(line))
	return nil
}
