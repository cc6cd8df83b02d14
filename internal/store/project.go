package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// Source is a replayable ledger, usually *ledger.Ledger.
type Source interface {
	Path() string
	Replay(v ledger.Visitor) error
}

// Run describes one projection of a ledger.
type Run struct {
	ID          string    `json:"id"`
	LedgerPath  string    `json:"ledger_path"`
	ProjectedAt time.Time `json:"projected_at"`
	Events      int       `json:"events"`
	Periods     int       `json:"periods"`
	Sales       int       `json:"sales"`
}

// CashModification is a projected cash movement.
type CashModification struct {
	Seq              int64  `json:"seq"`
	Actor            string `json:"actor"`
	Amount           int    `json:"amount"`
	CreditCardAmount int    `json:"card"`
}

// StaffPayment is a projected staff bill payment.
type StaffPayment struct {
	Seq           int64     `json:"seq"`
	Username      string    `json:"username"`
	Administrator string    `json:"administrator"`
	Amount        int       `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

type projectedPeriod struct {
	seq          int64
	period       *pos.SellingPeriod
	openComment  string
	closeComment string
}

type projectedSale struct {
	seq       int64
	periodSeq int64
	sale      *pos.Sale
}

// projection buffers a replay so it can be written in one transaction.
type projection struct {
	seq      int64
	periods  []*projectedPeriod
	sales    []projectedSale
	mods     []CashModification
	payments []StaffPayment
	current  *projectedPeriod
}

var _ ledger.Visitor = (*projection)(nil)

func (p *projection) next() int64 {
	p.seq++
	return p.seq
}

func (p *projection) Begin() { *p = projection{} }

func (p *projection) BeginPeriod(period *pos.SellingPeriod, comment string) {
	p.current = &projectedPeriod{seq: p.next(), period: period, openComment: comment}
	p.periods = append(p.periods, p.current)
}

func (p *projection) Sale(sale *pos.Sale) {
	p.sales = append(p.sales, projectedSale{seq: p.next(), periodSeq: p.current.seq, sale: sale})
}

func (p *projection) EndPeriod(_ *pos.SellingPeriod, comment string) {
	p.next()
	p.current.closeComment = comment
	p.current = nil
}

func (p *projection) ModifyCash(actor string, amount, creditCardAmount int) {
	p.mods = append(p.mods, CashModification{
		Seq: p.next(), Actor: actor, Amount: amount, CreditCardAmount: creditCardAmount,
	})
}

func (p *projection) StaffBillPay(bill pos.StaffBill, actor string, amount int, at time.Time) {
	p.payments = append(p.payments, StaffPayment{
		Seq: p.next(), Username: bill.Username, Administrator: actor, Amount: amount, Timestamp: at,
	})
}

func (p *projection) End() {}

// Project replays src and replaces the projection with its content.
//
// The replay completes before the transaction starts; a corrupt ledger
// leaves the previous projection untouched.
func (s *Store) Project(ctx context.Context, src Source) (Run, error) {
	var proj projection
	if err := src.Replay(&proj); err != nil {
		return Run{}, fmt.Errorf("project ledger: %w", err)
	}

	run := Run{
		ID:          uuid.Must(uuid.NewV7()).String(),
		LedgerPath:  src.Path(),
		ProjectedAt: s.clock.Now(),
		Events:      int(proj.seq),
		Periods:     len(proj.periods),
		Sales:       len(proj.sales),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("project ledger: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := clearProjection(ctx, tx); err != nil {
		return Run{}, fmt.Errorf("project ledger: %w", err)
	}
	if err := writeRun(ctx, tx, run); err != nil {
		return Run{}, fmt.Errorf("project ledger: %w", err)
	}
	for _, p := range proj.periods {
		if err := writePeriod(ctx, tx, run.ID, *p); err != nil {
			return Run{}, fmt.Errorf("project ledger: %w", err)
		}
	}
	for _, sale := range proj.sales {
		if err := writeSale(ctx, tx, run.ID, sale); err != nil {
			return Run{}, fmt.Errorf("project ledger: %w", err)
		}
	}
	for _, m := range proj.mods {
		if err := writeModification(ctx, tx, run.ID, m); err != nil {
			return Run{}, fmt.Errorf("project ledger: %w", err)
		}
	}
	for _, pay := range proj.payments {
		if err := writePayment(ctx, tx, run.ID, pay); err != nil {
			return Run{}, fmt.Errorf("project ledger: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("project ledger: commit: %w", err)
	}
	return run, nil
}
