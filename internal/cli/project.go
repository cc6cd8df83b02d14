package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/store"
)

// NewProjectCommand creates the project command.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the ledger into the reporting database",
		Long: `Replay the ledger into the SQLite reporting database.

Each run replaces the previous projection; the run history is kept. Nothing
is written when the ledger does not replay cleanly.

Exit codes:
  0 - Projection written
  1 - The ledger is corrupt or malformed
  2 - Command error (database not writable, etc.)

Examples:
  tillbook project
  tillbook project --db ./reports.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(rootOpts, cmd)
		},
	}
	return cmd
}

func runProject(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	st, err := store.Open(opts.Database, store.WithClock(opts.clock()))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "open database", err)
	}
	defer st.Close()

	run, err := st.Project(cmd.Context(), s.ledger)
	if err != nil {
		var le *ledger.Error
		if errors.As(err, &le) {
			return formatter.FailLedger("projection failed", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeStore, "projection failed", err)
	}
	opts.logger().Info("ledger projected", "run", run.ID, "events", run.Events, "db", opts.Database)

	if formatter.JSON() {
		return formatter.Success(run)
	}

	fmt.Fprintf(formatter.Writer, "✓ Projected %s into %s\n", run.LedgerPath, opts.Database)
	fmt.Fprintf(formatter.Writer, "  Run %s: %d events, %d periods, %d sales\n", run.ID, run.Events, run.Periods, run.Sales)
	return nil
}

// QueryOptions holds flags shared by the query subcommands.
type QueryOptions struct {
	*RootOptions
	Period int64 // period seq for sales; 0 is all
	From   string
	To     string
}

// NewQueryCommand creates the query command and its subcommands.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the reporting database",
		Long: `Read reports from the projection written by "tillbook project".

Examples:
  tillbook query run
  tillbook query periods
  tillbook query sales --period 3
  tillbook query staff
  tillbook query cash
  tillbook query article Kávé --from 2024-03-01`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	sub := func(use, short string, args cobra.PositionalArgs, fn func(*store.Store, *cobra.Command, []string) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:           use,
			Short:         short,
			Args:          args,
			SilenceUsage:  true,
			SilenceErrors: true,
			RunE: func(cmd *cobra.Command, a []string) error {
				return runQuery(opts, cmd, a, fn)
			},
		}
	}

	cmd.AddCommand(sub("run", "Latest projection run", cobra.NoArgs,
		func(st *store.Store, cmd *cobra.Command, _ []string) (any, error) {
			return st.LatestRun(cmd.Context())
		}))
	cmd.AddCommand(sub("periods", "Projected selling periods", cobra.NoArgs,
		func(st *store.Store, cmd *cobra.Command, _ []string) (any, error) {
			return st.Periods(cmd.Context())
		}))
	salesCmd := sub("sales", "Projected sales", cobra.NoArgs,
		func(st *store.Store, cmd *cobra.Command, _ []string) (any, error) {
			return st.Sales(cmd.Context(), opts.Period)
		})
	salesCmd.Flags().Int64Var(&opts.Period, "period", 0, "period seq (default all)")
	cmd.AddCommand(salesCmd)
	cmd.AddCommand(sub("staff", "Staff bill balances", cobra.NoArgs,
		func(st *store.Store, cmd *cobra.Command, _ []string) (any, error) {
			return st.StaffBillBalances(cmd.Context())
		}))
	cmd.AddCommand(sub("cash", "Cash modifications", cobra.NoArgs,
		func(st *store.Store, cmd *cobra.Command, _ []string) (any, error) {
			return st.CashModifications(cmd.Context())
		}))
	articleCmd := sub("article <name>", "Daily totals of one article", cobra.ExactArgs(1),
		func(st *store.Store, cmd *cobra.Command, args []string) (any, error) {
			return st.ArticleSalesByDay(cmd.Context(), args[0], opts.From, opts.To)
		})
	articleCmd.Flags().StringVar(&opts.From, "from", "", "first day, YYYY-MM-DD")
	articleCmd.Flags().StringVar(&opts.To, "to", "", "last day, YYYY-MM-DD")
	cmd.AddCommand(articleCmd)

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command, args []string, fn func(*store.Store, *cobra.Command, []string) (any, error)) error {
	formatter := opts.formatter(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "open database", err)
	}
	defer st.Close()

	data, err := fn(st, cmd, args)
	if errors.Is(err, sql.ErrNoRows) {
		msg := "ledger was never projected: run tillbook project"
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "query database", err)
	}

	if formatter.JSON() {
		return formatter.Success(data)
	}
	return printRows(formatter, data)
}

// printRows writes query results as text, one row per line.
func printRows(f *OutputFormatter, data any) error {
	w := f.Writer
	switch rows := data.(type) {
	case store.Run:
		fmt.Fprintf(w, "Run %s at %s: %s, %d events, %d periods, %d sales\n",
			rows.ID, ledger.FormatTimestamp(rows.ProjectedAt), rows.LedgerPath, rows.Events, rows.Periods, rows.Sales)
	case []store.PeriodRow:
		for _, p := range rows {
			state := "closed"
			if p.Open {
				state = "open"
			}
			fmt.Fprintf(w, "%d\tperiod %d\t%s\t%s\topen %d\texpected %d\tclosed %d\n",
				p.Seq, p.PeriodID, p.Seller, state, p.OpenCash, p.ExpectedCash, p.CloseCash)
		}
	case []store.SaleRow:
		for _, s := range rows {
			article := s.Article
			if article == "" {
				article = ledger.NoArticleName
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d × %d = %d\t%s\tbill %s\n",
				s.Seq, ledger.FormatTimestamp(s.Timestamp), article, s.Quantity, s.Price, s.Total, s.Seller, s.Bill)
		}
	case []store.StaffBalance:
		for _, b := range rows {
			fmt.Fprintf(w, "%-20s charged %d\tpaid %d\toutstanding %d\n", b.Username, b.Charged, b.Paid, b.Outstanding())
		}
	case []store.CashModification:
		for _, m := range rows {
			fmt.Fprintf(w, "%d\t%s\t%+d\tcard %d\n", m.Seq, m.Actor, m.Amount, m.CreditCardAmount)
		}
	case []store.DailyTotal:
		for _, d := range rows {
			fmt.Fprintf(w, "%s\t%d\t%d\n", d.Day, d.Quantity, d.Revenue)
		}
	default:
		return f.Success(data)
	}
	return nil
}
