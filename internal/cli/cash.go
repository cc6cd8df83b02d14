package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// CashOptions holds flags for the cash command.
type CashOptions struct {
	*RootOptions
	Actor  string
	Amount int
	Card   int
}

// CashResult describes a recorded cash modification or staff payment.
type CashResult struct {
	Kind   string `json:"kind"`
	Actor  string `json:"actor"`
	Amount int    `json:"amount"`
	Card   int    `json:"card,omitempty"`
	Bill   string `json:"bill,omitempty"`
}

// NewCashCommand creates the cash command.
func NewCashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cash",
		Short: "Record cash put into or taken out of the till",
		Long: `Record a cash modification. Positive amounts add cash to the till,
negative amounts take it out. No selling period needs to be open.

Examples:
  tillbook cash --actor admin --amount 2000
  tillbook cash --actor admin --amount=-500`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCash(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "who moved the cash (required)")
	_ = cmd.MarkFlagRequired("actor")
	cmd.Flags().IntVar(&opts.Amount, "amount", 0, "cash moved, negative when taken out (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().IntVar(&opts.Card, "card", 0, "card amount adjustment")

	return cmd
}

func runCash(opts *CashOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	if err := s.ledger.ModifyCash(opts.Actor, opts.Amount, opts.Card); err != nil {
		return formatter.FailLedger("modify cash", err)
	}
	opts.logger().Info("cash modified", "actor", opts.Actor, "amount", opts.Amount)

	result := CashResult{
		Kind:   ledger.KindModifyCash.String(),
		Actor:  opts.Actor,
		Amount: opts.Amount,
		Card:   opts.Card,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Cash %+d by %s\n", result.Amount, result.Actor)
	return nil
}

// StaffPayOptions holds flags for the staff-pay command.
type StaffPayOptions struct {
	*RootOptions
	Admin string
}

// NewStaffPayCommand creates the staff-pay command.
func NewStaffPayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StaffPayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "staff-pay <username> <amount>",
		Short: "Record a payment towards a staff bill",
		Long: `Record an administrator accepting cash towards a staff member's bill.

Examples:
  tillbook staff-pay bela 1000 --admin anna`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStaffPay(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Admin, "admin", "", "administrator accepting the payment (required)")
	_ = cmd.MarkFlagRequired("admin")

	return cmd
}

func runStaffPay(opts *StaffPayOptions, username, amountArg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	amount, err := strconv.Atoi(amountArg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "parse amount", err)
	}

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	bill := pos.StaffBill{Username: username}
	if err := s.ledger.StaffBillPay(bill, opts.Admin, amount); err != nil {
		return formatter.FailLedger("pay staff bill", err)
	}
	opts.logger().Info("staff bill paid", "username", username, "admin", opts.Admin, "amount", amount)

	result := CashResult{
		Kind:   ledger.KindStaffBillPay.String(),
		Actor:  opts.Admin,
		Amount: amount,
		Bill:   bill.String(),
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s paid %d towards their bill (accepted by %s)\n", username, amount, opts.Admin)
	return nil
}
