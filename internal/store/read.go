package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/tillbook/internal/pos"
)

// PeriodRow is a projected selling period.
type PeriodRow struct {
	Seq          int64          `json:"seq"`
	PeriodID     int            `json:"period_id"`
	Seller       string         `json:"seller"`
	Begin        time.Time      `json:"begin"`
	End          time.Time      `json:"end,omitzero"`
	Open         bool           `json:"open"`
	OpenCash     int            `json:"open_cash"`
	OpenCard     int            `json:"open_card"`
	CloseCash    int            `json:"close_cash"`
	CloseCard    int            `json:"close_card"`
	ExpectedCash int            `json:"expected_cash"`
	Products     map[string]int `json:"products"`
	StaffBills   map[string]int `json:"staff_bills"`
	OpenComment  string         `json:"open_comment,omitempty"`
	CloseComment string         `json:"close_comment,omitempty"`
}

// SaleRow is a projected sale line.
type SaleRow struct {
	Seq        int64      `json:"seq"`
	PeriodSeq  int64      `json:"period_seq"`
	Timestamp  time.Time  `json:"timestamp"`
	Article    string     `json:"article,omitempty"`
	Quantity   int        `json:"quantity"`
	Price      int        `json:"price"`
	Total      int        `json:"total"`
	Seller     string     `json:"seller"`
	BillID     pos.BillID `json:"-"`
	Bill       string     `json:"bill"`
	PurchaseID int        `json:"purchase_id,omitempty"`
}

// DailyTotal aggregates the sales of one article on one day.
type DailyTotal struct {
	Day      string `json:"day"`
	Quantity int    `json:"quantity"`
	Revenue  int    `json:"revenue"`
}

// StaffBalance is what a staff member has been charged and has paid.
type StaffBalance struct {
	Username string `json:"username"`
	Charged  int    `json:"charged"`
	Paid     int    `json:"paid"`
}

// Outstanding returns the unpaid part of the bill.
func (b StaffBalance) Outstanding() int {
	return b.Charged - b.Paid
}

// LatestRun returns the most recent projection run.
// Returns sql.ErrNoRows if the ledger was never projected.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	var projectedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.ledger_path, r.projected_at, r.events,
		       (SELECT COUNT(*) FROM periods p WHERE p.run_id = r.id),
		       (SELECT COUNT(*) FROM sales s WHERE s.run_id = r.id)
		FROM projection_runs r
		ORDER BY r.rowid DESC
		LIMIT 1
	`).Scan(&run.ID, &run.LedgerPath, &projectedAt, &run.Events, &run.Periods, &run.Sales)
	if err != nil {
		return Run{}, err
	}

	run.ProjectedAt, err = unmarshalTime(projectedAt)
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// Periods returns all projected periods ordered by seq.
// Returns an empty slice (not nil) when there are none.
func (s *Store) Periods(ctx context.Context) ([]PeriodRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, period_id, seller, begin_time, end_time, open_cash, open_card,
		       close_cash, close_card, expected_cash, products, staff_bills,
		       open_comment, close_comment
		FROM periods
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	periods := []PeriodRow{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate periods: %w", err)
	}
	return periods, nil
}

// Sales returns the projected sales of the period with the given seq,
// or every sale when periodSeq is zero.
func (s *Store) Sales(ctx context.Context, periodSeq int64) ([]SaleRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, period_seq, ts, article, quantity, price, total, seller, bill, purchase_id
		FROM sales
		WHERE ? = 0 OR period_seq = ?
		ORDER BY seq ASC
	`, periodSeq, periodSeq)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	sales := []SaleRow{}
	for rows.Next() {
		var row SaleRow
		var ts string
		var article sql.NullString
		var purchase sql.NullInt64
		if err := rows.Scan(
			&row.Seq, &row.PeriodSeq, &ts, &article, &row.Quantity, &row.Price,
			&row.Total, &row.Seller, &row.Bill, &purchase,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if row.Timestamp, err = unmarshalTime(ts); err != nil {
			return nil, err
		}
		if row.BillID, err = unmarshalBill(row.Bill); err != nil {
			return nil, err
		}
		row.Article = article.String
		row.PurchaseID = int(purchase.Int64)
		sales = append(sales, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

// ArticleSalesByDay sums the sales of article per day between from and to
// (inclusive, "2006-01-02"). Empty bounds are open.
func (s *Store) ArticleSalesByDay(ctx context.Context, article, from, to string) ([]DailyTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, SUM(quantity), SUM(total)
		FROM sales
		WHERE article = ?
		  AND (? = '' OR day >= ?)
		  AND (? = '' OR day <= ?)
		GROUP BY day
		ORDER BY day ASC
	`, article, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("query article sales: %w", err)
	}
	defer rows.Close()

	totals := []DailyTotal{}
	for rows.Next() {
		var d DailyTotal
		if err := rows.Scan(&d.Day, &d.Quantity, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan article sales: %w", err)
		}
		totals = append(totals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article sales: %w", err)
	}
	return totals, nil
}

// StaffBillBalances returns charges and payments per staff member, ordered
// by username.
func (s *Store) StaffBillBalances(ctx context.Context) ([]StaffBalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, SUM(charged), SUM(paid)
		FROM (
			SELECT bill AS username, total AS charged, 0 AS paid
			FROM sales WHERE bill_kind = ?
			UNION ALL
			SELECT username, 0, amount
			FROM staff_bill_payments
		)
		GROUP BY username
		ORDER BY username COLLATE BINARY ASC
	`, billKindStaff)
	if err != nil {
		return nil, fmt.Errorf("query staff balances: %w", err)
	}
	defer rows.Close()

	balances := []StaffBalance{}
	for rows.Next() {
		var b StaffBalance
		if err := rows.Scan(&b.Username, &b.Charged, &b.Paid); err != nil {
			return nil, fmt.Errorf("scan staff balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff balances: %w", err)
	}
	return balances, nil
}

// CashModifications returns the projected cash movements ordered by seq.
func (s *Store) CashModifications(ctx context.Context) ([]CashModification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, actor, amount, card
		FROM cash_modifications
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query cash modifications: %w", err)
	}
	defer rows.Close()

	mods := []CashModification{}
	for rows.Next() {
		var m CashModification
		if err := rows.Scan(&m.Seq, &m.Actor, &m.Amount, &m.CreditCardAmount); err != nil {
			return nil, fmt.Errorf("scan cash modification: %w", err)
		}
		mods = append(mods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cash modifications: %w", err)
	}
	return mods, nil
}

// scanPeriod scans a row into a PeriodRow.
func scanPeriod(rows *sql.Rows) (PeriodRow, error) {
	var p PeriodRow
	var begin string
	var end sql.NullString
	var closeCash, closeCard sql.NullInt64
	var products, staffBills string

	if err := rows.Scan(
		&p.Seq, &p.PeriodID, &p.Seller, &begin, &end, &p.OpenCash, &p.OpenCard,
		&closeCash, &closeCard, &p.ExpectedCash, &products, &staffBills,
		&p.OpenComment, &p.CloseComment,
	); err != nil {
		return PeriodRow{}, fmt.Errorf("scan period: %w", err)
	}

	var err error
	if p.Begin, err = unmarshalTime(begin); err != nil {
		return PeriodRow{}, err
	}
	p.Open = !end.Valid
	if end.Valid {
		if p.End, err = unmarshalTime(end.String); err != nil {
			return PeriodRow{}, err
		}
	}
	p.CloseCash = int(closeCash.Int64)
	p.CloseCard = int(closeCard.Int64)

	if p.Products, err = unmarshalCounts(products); err != nil {
		return PeriodRow{}, err
	}
	if p.StaffBills, err = unmarshalCounts(staffBills); err != nil {
		return PeriodRow{}, err
	}
	return p, nil
}
