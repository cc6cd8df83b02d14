package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/report"
)

// CloseOptions holds flags for the close command.
type CloseOptions struct {
	*RootOptions
	Cash    int
	Card    int
	Comment string
	At      string
}

// NewCloseCommand creates the close command.
func NewCloseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close the open selling period",
		Long: `Close the open selling period with the cash counted in the till and
the card terminal total, then print the closing summary.

Examples:
  tillbook close --cash 10900 --card 450
  tillbook close --cash 10900 --card 450 --comment "100 short"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClose(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Cash, "cash", 0, "cash counted in the till")
	_ = cmd.MarkFlagRequired("cash")
	cmd.Flags().IntVar(&opts.Card, "card", 0, "card terminal total at closing")
	cmd.Flags().StringVar(&opts.Comment, "comment", "", "free-text note")
	cmd.Flags().StringVar(&opts.At, "at", "", "closing time (default now)")

	return cmd
}

func runClose(opts *CloseOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	last, err := s.lastPeriod()
	if err != nil {
		return formatter.FailLedger("read ledger", err)
	}
	if !last.Unclosed() {
		msg := "no open period to close"
		_ = formatter.Error(ErrCodeState, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	at, err := s.timestamp(opts.At)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "close period", err)
	}

	period := last.Period
	period.EndTime = at
	period.CloseCash = opts.Cash
	period.CloseCreditCardAmount = opts.Card
	if err := s.ledger.EndPeriod(period, opts.Comment); err != nil {
		return formatter.FailLedger("close period", err)
	}

	summary := report.Summarize(period)
	opts.logger().Info("period closed", "period", period.ID, "expected", summary.ExpectedCash, "counted", summary.CloseCash)

	if formatter.JSON() {
		return formatter.Success(summary)
	}

	printSummary(formatter, summary)
	return nil
}

// printSummary writes a period summary as text.
func printSummary(f *OutputFormatter, s report.PeriodSummary) {
	w := f.Writer

	state := "closed"
	if s.Open {
		state = "open"
	}
	fmt.Fprintf(w, "Period %d (%s, %s)\n", s.PeriodID, s.Seller, state)
	fmt.Fprintf(w, "  Open cash:     %d\n", s.OpenCash)
	fmt.Fprintf(w, "  Expected cash: %d\n", s.ExpectedCash)
	if !s.Open {
		fmt.Fprintf(w, "  Counted cash:  %d\n", s.CloseCash)
		fmt.Fprintf(w, "  Difference:    %d\n", s.CashDifference)
		fmt.Fprintf(w, "  Card reported: %d\n", s.CardReported)
	}
	fmt.Fprintf(w, "  Card sales:    %d\n", s.CardTurnover)

	if len(s.Products) > 0 {
		fmt.Fprintln(w, "  Products:")
		for _, name := range sortedNames(s.Products) {
			fmt.Fprintf(w, "    %-20s %d\n", name, s.Products[name])
		}
	}
	if len(s.StaffBills) > 0 {
		fmt.Fprintln(w, "  Staff bills:")
		for _, name := range sortedNames(s.StaffBills) {
			fmt.Fprintf(w, "    %-20s %d\n", name, s.StaffBills[name])
		}
	}
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
