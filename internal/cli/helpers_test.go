package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/testutil"
)

var testStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

const testCatalog = `articles:
  - name: Kávé
    selling_price: 450
  - name: Sör
    barcode: "5990001"
    selling_price: 600
`

// newTestOptions points every path into a fresh temp dir. The clock starts
// at testStart and advances one minute per reading.
func newTestOptions(t *testing.T) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	return &RootOptions{
		Format:   "text",
		Ledger:   filepath.Join(dir, "sales.tsv"),
		Database: filepath.Join(dir, "tillbook.db"),
		Timezone: "UTC",
		Clock:    testutil.NewSteppingClock(testStart, time.Minute),
	}
}

// withCatalog adds the test catalog to opts.
func withCatalog(t *testing.T, opts *RootOptions) *RootOptions {
	t.Helper()
	opts.Catalog = testutil.WriteFile(t, "articles.yaml", testCatalog)
	return opts
}

// execute runs a freshly built command and returns its stdout.
func execute(t *testing.T, newCmd func(*RootOptions) *cobra.Command, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newCmd(opts)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// mustExecute is execute that fails the test on error.
func mustExecute(t *testing.T, newCmd func(*RootOptions) *cobra.Command, opts *RootOptions, args ...string) string {
	t.Helper()
	out, err := execute(t, newCmd, opts, args...)
	if err != nil {
		t.Fatalf("%v: %v\noutput:\n%s", args, err, out)
	}
	return out
}

// tradingDay records one closed period, a cash withdrawal and a staff
// payment:
//
//	08:00 anna opens with 10000
//	08:01 2 × Kávé cash, 08:02 Sör on bela's bill, 08:03 Kávé by card
//	08:04 close with 10900 counted, 450 on the card terminal
//	08:05 admin takes 500 out, 08:06 bela pays 600
func tradingDay(t *testing.T, opts *RootOptions) {
	t.Helper()
	mustExecute(t, NewInitCommand, opts)
	mustExecute(t, NewOpenCommand, opts, "--user", "anna", "--cash", "10000")
	mustExecute(t, NewSellCommand, opts, "Kávé", "--qty", "2")
	mustExecute(t, NewSellCommand, opts, "Sör", "--staff", "bela")
	mustExecute(t, NewSellCommand, opts, "Kávé", "--card")
	mustExecute(t, NewCloseCommand, opts, "--cash", "10900", "--card", "450", "--comment", "short")
	mustExecute(t, NewCashCommand, opts, "--actor", "admin", "--amount=-500")
	mustExecute(t, NewStaffPayCommand, opts, "bela", "600", "--admin", "anna")
}
