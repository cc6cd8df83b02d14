// Command tillbook records and replays point-of-sale events in an
// append-only ledger file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tillbook/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
