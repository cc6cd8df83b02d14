package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/report"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Kind string // optional - one event kind only
}

// ReplayResult holds the replayed events.
type ReplayResult struct {
	Events []report.TraceEvent `json:"events"`
	Total  int                 `json:"total"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the ledger and print every event",
		Long: `Replay the ledger from the start and print the events it decodes to,
one per line.

Replay stops at the first malformed or structurally inconsistent row; the
events before it are still printed.

Exit codes:
  0 - The ledger replayed cleanly
  1 - The ledger is corrupt or malformed
  2 - Command error (ledger not readable, etc.)

Examples:
  tillbook replay
  tillbook replay --kind sale
  tillbook replay --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "print only events of this kind (begin_period, sale, ...)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	trace := &report.Trace{}
	replayErr := s.ledger.Replay(trace)

	result := ReplayResult{Events: make([]report.TraceEvent, 0, len(trace.Events))}
	for _, e := range trace.Events {
		if opts.Kind == "" || e.Kind == opts.Kind {
			result.Events = append(result.Events, e)
		}
	}
	result.Total = len(result.Events)
	opts.logger().Debug("ledger replayed", "events", len(trace.Events), "printed", result.Total)

	if formatter.JSON() {
		return outputReplayJSON(formatter, result, replayErr)
	}
	return outputReplayText(formatter, result, replayErr)
}

// outputReplayJSON outputs the replayed events as JSON. A replay error is
// reported next to the events decoded before it.
func outputReplayJSON(f *OutputFormatter, result ReplayResult, replayErr error) error {
	response := CLIResponse{Status: "ok", Data: result}
	if replayErr != nil {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    errorCode(replayErr, ErrCodeGeneric),
			Message: replayErr.Error(),
		}
	}

	if err := f.encode(response); err != nil {
		return err
	}
	if replayErr != nil {
		return WrapExitError(ledgerExitCode(replayErr), "replay failed", replayErr)
	}
	return nil
}

// outputReplayText outputs the replayed events as text.
func outputReplayText(f *OutputFormatter, result ReplayResult, replayErr error) error {
	w := f.Writer

	for _, e := range result.Events {
		fmt.Fprintln(w, e.String())
	}

	if replayErr != nil {
		fmt.Fprintf(w, "✗ Replay failed: %v\n", replayErr)
		return WrapExitError(ledgerExitCode(replayErr), "replay failed", replayErr)
	}

	f.VerboseLog("%d event(s)", result.Total)
	return nil
}
