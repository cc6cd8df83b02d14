package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tillbook/internal/report"
)

// clearProjection empties the data tables. Children go first so foreign
// keys hold at every step.
func clearProjection(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"sales", "periods", "cash_modifications", "staff_bill_payments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func writeRun(ctx context.Context, tx *sql.Tx, run Run) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO projection_runs (id, ledger_path, projected_at, events)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.LedgerPath, marshalTime(run.ProjectedAt), run.Events)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// writePeriod inserts one period together with its closing summary.
// Close columns stay NULL while the period is open.
func writePeriod(ctx context.Context, tx *sql.Tx, runID string, p projectedPeriod) error {
	sum := report.Summarize(p.period)

	products, err := marshalCounts(sum.Products)
	if err != nil {
		return fmt.Errorf("write period %d: %w", p.period.ID, err)
	}
	staffBills, err := marshalCounts(sum.StaffBills)
	if err != nil {
		return fmt.Errorf("write period %d: %w", p.period.ID, err)
	}

	var endTime sql.NullString
	var closeCash, closeCard sql.NullInt64
	if !sum.Open {
		endTime = sql.NullString{String: marshalTime(p.period.EndTime), Valid: true}
		closeCash = sql.NullInt64{Int64: int64(p.period.CloseCash), Valid: true}
		closeCard = sql.NullInt64{Int64: int64(p.period.CloseCreditCardAmount), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO periods
		(seq, run_id, period_id, seller, begin_time, end_time, open_cash, open_card,
		 close_cash, close_card, expected_cash, products, staff_bills, open_comment, close_comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.seq,
		runID,
		p.period.ID,
		p.period.Username,
		marshalTime(p.period.BeginTime),
		endTime,
		p.period.OpenCash,
		p.period.OpenCreditCardAmount,
		closeCash,
		closeCard,
		sum.ExpectedCash,
		products,
		staffBills,
		p.openComment,
		p.closeComment,
	)
	if err != nil {
		return fmt.Errorf("write period %d: %w", p.period.ID, err)
	}
	return nil
}

func writeSale(ctx context.Context, tx *sql.Tx, runID string, s projectedSale) error {
	kind, bill, err := marshalBill(s.sale.BillID)
	if err != nil {
		return fmt.Errorf("write sale %d: %w", s.seq, err)
	}

	var article sql.NullString
	if s.sale.Article != nil {
		article = sql.NullString{String: s.sale.Article.Name, Valid: true}
	}
	var purchase sql.NullInt64
	if s.sale.PurchaseID != 0 {
		purchase = sql.NullInt64{Int64: int64(s.sale.PurchaseID), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales
		(seq, run_id, period_seq, ts, day, article, quantity, price, total, seller, bill_kind, bill, purchase_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.seq,
		runID,
		s.periodSeq,
		marshalTime(s.sale.Timestamp),
		s.sale.Timestamp.Format(dayLayout),
		article,
		s.sale.Quantity,
		s.sale.PricePerUnit,
		s.sale.Total(),
		s.sale.Seller,
		kind,
		bill,
		purchase,
	)
	if err != nil {
		return fmt.Errorf("write sale %d: %w", s.seq, err)
	}
	return nil
}

func writeModification(ctx context.Context, tx *sql.Tx, runID string, m CashModification) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cash_modifications (seq, run_id, actor, amount, card)
		VALUES (?, ?, ?, ?, ?)
	`, m.Seq, runID, m.Actor, m.Amount, m.CreditCardAmount)
	if err != nil {
		return fmt.Errorf("write cash modification %d: %w", m.Seq, err)
	}
	return nil
}

func writePayment(ctx context.Context, tx *sql.Tx, runID string, p StaffPayment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO staff_bill_payments (seq, run_id, username, administrator, amount, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Seq, runID, p.Username, p.Administrator, p.Amount, marshalTime(p.Timestamp))
	if err != nil {
		return fmt.Errorf("write staff bill payment %d: %w", p.Seq, err)
	}
	return nil
}
