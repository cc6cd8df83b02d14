package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// OpenOptions holds flags for the open command.
type OpenOptions struct {
	*RootOptions
	User    string
	Cash    int
	Card    int
	Comment string
	At      string
}

// PeriodResult describes a period that was opened.
type PeriodResult struct {
	PeriodID int    `json:"period_id"`
	User     string `json:"user"`
	At       string `json:"at"`
	OpenCash int    `json:"open_cash"`
	OpenCard int    `json:"open_card"`
}

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the till for a new selling period",
		Long: `Open a selling period with the counted cash in the till.

The period id continues from the last period in the ledger. Opening fails
while the last period is still open; close it first.

Examples:
  tillbook open --user anna --cash 10000
  tillbook open --user anna --cash 10000 --card 0 --comment "new float"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "seller opening the till (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().IntVar(&opts.Cash, "cash", 0, "cash counted in the till")
	cmd.Flags().IntVar(&opts.Card, "card", 0, "card terminal total at opening")
	cmd.Flags().StringVar(&opts.Comment, "comment", "", "free-text note")
	cmd.Flags().StringVar(&opts.At, "at", "", "opening time (default now)")

	return cmd
}

func runOpen(opts *OpenOptions, cmd *cobra.Command) error {
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
	if last.Unclosed() {
		msg := fmt.Sprintf("period %d opened by %s is still open", last.Period.ID, last.Period.Username)
		_ = formatter.Error(ErrCodeState, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	at, err := s.timestamp(opts.At)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "open period", err)
	}

	period := &pos.SellingPeriod{
		ID:                   last.NextID(),
		Username:             opts.User,
		BeginTime:            at,
		OpenCash:             opts.Cash,
		OpenCreditCardAmount: opts.Card,
	}
	if err := s.ledger.BeginPeriod(period, opts.Comment); err != nil {
		return formatter.FailLedger("open period", err)
	}
	opts.logger().Info("period opened", "period", period.ID, "user", period.Username, "cash", period.OpenCash)

	result := PeriodResult{
		PeriodID: period.ID,
		User:     period.Username,
		At:       ledger.FormatTimestamp(at),
		OpenCash: period.OpenCash,
		OpenCard: period.OpenCreditCardAmount,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Opened period %d for %s at %s with %d cash\n",
		result.PeriodID, result.User, result.At, result.OpenCash)
	return nil
}
