package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/report"
)

// NewStatsCommand creates the stats command and its subcommands.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Statistics computed by replaying the ledger",
		Long: `Statistics computed directly from the ledger.

Examples:
  tillbook stats periods
  tillbook stats article Kávé --from 2024-03-01 --to 2024-03-31`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newStatsPeriodsCommand(rootOpts))
	cmd.AddCommand(newStatsArticleCommand(rootOpts))
	return cmd
}

func newStatsPeriodsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "periods",
		Short:         "Closing summary of every selling period",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsPeriods(rootOpts, cmd)
		},
	}
}

func runStatsPeriods(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	periods := &report.Periods{}
	if err := s.ledger.Replay(periods); err != nil {
		return formatter.FailLedger("replay ledger", err)
	}

	if formatter.JSON() {
		return formatter.Success(periods.Summaries)
	}

	if len(periods.Summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No selling periods.")
		return nil
	}
	for _, summary := range periods.Summaries {
		printSummary(formatter, summary)
	}
	return nil
}

// StatsArticleOptions holds flags for the stats article command.
type StatsArticleOptions struct {
	*RootOptions
	From string
	To   string
}

// ArticleStats is the output of the stats article command.
type ArticleStats struct {
	Article string            `json:"article"`
	Days    []report.DayCount `json:"days"`
	Total   int               `json:"total"`
}

func newStatsArticleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsArticleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "article <name>",
		Short: "Units of one article sold per trading day",
		Long: `Count the units of one article sold per day. Days on which only other
articles were sold are listed with zero.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsArticle(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "first day, YYYY-MM-DD (default unbounded)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last day, YYYY-MM-DD (default unbounded)")
	return cmd
}

func runStatsArticle(opts *StatsArticleOptions, article string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	from, err := parseDay(opts.From, s.loc)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "parse --from", err)
	}
	to, err := parseDay(opts.To, s.loc)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "parse --to", err)
	}

	daily := &report.DailyArticleSales{Article: article, From: from, To: to}
	if err := s.ledger.Replay(daily); err != nil {
		return formatter.FailLedger("replay ledger", err)
	}

	result := ArticleStats{Article: article, Days: daily.Days}
	if result.Days == nil {
		result.Days = []report.DayCount{}
	}
	for _, d := range result.Days {
		result.Total += d.Count
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s\n", result.Article)
	for _, d := range result.Days {
		fmt.Fprintf(w, "  %s %d\n", d.Day, d.Count)
	}
	fmt.Fprintf(w, "Total: %d\n", result.Total)
	return nil
}

// parseDay parses a YYYY-MM-DD bound. Empty means unbounded.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}
