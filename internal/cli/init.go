package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// InitResult is the output of the init command.
type InitResult struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the ledger file",
		Long: `Create the ledger file with its header line.

An existing ledger is left untouched.

Examples:
  tillbook init
  tillbook init --ledger ./2024.tsv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	_, statErr := os.Stat(opts.Ledger)
	created := os.IsNotExist(statErr)

	s, err := openSession(opts)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	result := InitResult{Path: s.ledger.Path(), Created: created}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	if created {
		fmt.Fprintf(formatter.Writer, "✓ Created ledger %s\n", result.Path)
	} else {
		fmt.Fprintf(formatter.Writer, "Ledger %s already exists\n", result.Path)
	}
	return nil
}
