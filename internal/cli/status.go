package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/report"
)

// StatusResult is the output of the status command.
type StatusResult struct {
	Ledger       string                `json:"ledger"`
	TillOpen     bool                  `json:"till_open"`
	NextPeriodID int                   `json:"next_period_id"`
	LastPeriod   *report.PeriodSummary `json:"last_period,omitempty"`
	Balance      *report.Balance       `json:"balance"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the till state rebuilt from the ledger",
		Long: `Replay the ledger and show the last selling period, the cash expected in
the till, closing discrepancies and outstanding staff bills.

A period left open by a crash shows up here as an open till.

Examples:
  tillbook status
  tillbook status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	last := &report.LastPeriod{}
	balance := &report.Balance{}
	if err := s.ledger.Replay(report.Multi{last, balance}); err != nil {
		return formatter.FailLedger("replay ledger", err)
	}

	result := StatusResult{
		Ledger:       s.ledger.Path(),
		TillOpen:     last.Unclosed(),
		NextPeriodID: last.NextID(),
		Balance:      balance,
	}
	if last.Period != nil {
		summary := report.Summarize(last.Period)
		result.LastPeriod = &summary
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Ledger: %s\n", result.Ledger)
	if result.LastPeriod == nil {
		fmt.Fprintln(w, "No selling period yet")
	} else {
		printSummary(formatter, *result.LastPeriod)
	}
	if result.TillOpen {
		fmt.Fprintln(w, "Till is open")
	} else {
		fmt.Fprintf(w, "Till is closed (next period %d)\n", result.NextPeriodID)
	}

	fmt.Fprintf(w, "Cash in till:  %d\n", balance.Cash)
	fmt.Fprintf(w, "Card turnover: %d\n", balance.CardTurnover)
	if len(balance.Discrepancies) > 0 {
		fmt.Fprintln(w, "Closing discrepancies:")
		for _, id := range sortedIDs(balance.Discrepancies) {
			fmt.Fprintf(w, "  period %d: %+d\n", id, balance.Discrepancies[id])
		}
	}
	if len(balance.StaffDebt) > 0 {
		fmt.Fprintln(w, "Staff bills:")
		for _, name := range sortedNames(balance.StaffDebt) {
			fmt.Fprintf(w, "  %-20s %d\n", name, balance.StaffDebt[name])
		}
	}
	return nil
}

func sortedIDs(m map[int]int) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
