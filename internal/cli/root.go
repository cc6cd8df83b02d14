package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/ledger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Ledger   string // ledger file path
	Catalog  string // article catalog (.yaml, .yml or .cue); optional
	Database string // projection database path
	Timezone string // IANA zone for ledger timestamps; empty is local

	LogLevel string
	Logger   *slog.Logger
	Clock    ledger.Clock

	loc *time.Location
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tillbook CLI.
// Flag defaults come from the TILLBOOK_* environment variables.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := LoadConfig()
	if cfgErr != nil {
		cfg = Config{Ledger: "sales.tsv", Database: "tillbook.db", LogLevel: "info"}
	}

	opts := &RootOptions{LogLevel: cfg.LogLevel, Clock: ledger.SystemClock{}}

	cmd := &cobra.Command{
		Use:   "tillbook",
		Short: "tillbook - point-of-sale ledger",
		Long: `Record and replay point-of-sale events in an append-only ledger.

The ledger is a tab-separated text file. Every till opening, sale, closing,
cash modification and staff bill payment is one line; reports are rebuilt by
replaying the file from the start.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", cfgErr)
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logger, err := newLogger(cmd.ErrOrStderr(), opts.LogLevel, opts.Verbose)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid log level", err)
			}
			opts.Logger = logger
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Ledger, "ledger", cfg.Ledger, "ledger file ($TILLBOOK_LEDGER)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", cfg.Catalog, "article catalog file ($TILLBOOK_CATALOG)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.Database, "projection database ($TILLBOOK_DB)")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "tz", cfg.Timezone, "time zone of ledger timestamps ($TILLBOOK_TZ)")

	// Ledger writes
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewOpenCommand(opts))
	cmd.AddCommand(NewSellCommand(opts))
	cmd.AddCommand(NewCloseCommand(opts))
	cmd.AddCommand(NewCashCommand(opts))
	cmd.AddCommand(NewStaffPayCommand(opts))

	// Ledger reads
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// logger returns the configured logger or a discarding one.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// clock returns the configured clock or the system clock.
func (o *RootOptions) clock() ledger.Clock {
	if o.Clock == nil {
		return ledger.SystemClock{}
	}
	return o.Clock
}

// location resolves Timezone once.
func (o *RootOptions) location() (*time.Location, error) {
	if o.loc != nil {
		return o.loc, nil
	}
	loc, err := loadLocation(o.Timezone)
	if err != nil {
		return nil, err
	}
	o.loc = loc
	return loc, nil
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
