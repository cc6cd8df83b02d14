package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/store"
	"github.com/roach88/tillbook/internal/testutil"
)

func TestProject_ThenQuery(t *testing.T) {
	opts := withCatalog(t, newTestOptions(t))
	tradingDay(t, opts)

	out := mustExecute(t, NewProjectCommand, opts)
	assert.Contains(t, out, "✓ Projected")
	assert.Contains(t, out, "7 events, 1 periods, 3 sales")

	opts.Format = "json"

	out = mustExecute(t, NewQueryCommand, opts, "run")
	var runResp struct {
		Data store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runResp))
	assert.Equal(t, opts.Ledger, runResp.Data.LedgerPath)
	assert.Equal(t, 7, runResp.Data.Events)

	out = mustExecute(t, NewQueryCommand, opts, "staff")
	var staffResp struct {
		Data []store.StaffBalance `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &staffResp))
	assert.Equal(t, []store.StaffBalance{{Username: "bela", Charged: 600, Paid: 600}}, staffResp.Data)

	out = mustExecute(t, NewQueryCommand, opts, "article", "Kávé")
	var dailyResp struct {
		Data []store.DailyTotal `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dailyResp))
	assert.Equal(t, []store.DailyTotal{{Day: "2024-03-01", Quantity: 3, Revenue: 1350}}, dailyResp.Data)

	out = mustExecute(t, NewQueryCommand, opts, "cash")
	var cashResp struct {
		Data []store.CashModification `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cashResp))
	require.Len(t, cashResp.Data, 1)
	assert.Equal(t, -500, cashResp.Data[0].Amount)
}

func TestQuery_TextRows(t *testing.T) {
	opts := withCatalog(t, newTestOptions(t))
	tradingDay(t, opts)
	mustExecute(t, NewProjectCommand, opts)

	out := mustExecute(t, NewQueryCommand, opts, "sales")
	assert.Contains(t, out, "2024-03-01T08:02\tSör\t1 × 600 = 600\tanna\tbill bela\n")

	out = mustExecute(t, NewQueryCommand, opts, "periods")
	assert.Contains(t, out, "period 1\tanna\tclosed\topen 10000\texpected 10900\tclosed 10900\n")
}

func TestQuery_BeforeProject(t *testing.T) {
	opts := newTestOptions(t)

	_, err := execute(t, NewQueryCommand, opts, "run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "never projected")

	out := mustExecute(t, NewQueryCommand, opts, "periods")
	assert.Empty(t, out)
}

func TestProject_CorruptLedgerLeavesDatabase(t *testing.T) {
	opts := withCatalog(t, newTestOptions(t))
	tradingDay(t, opts)
	mustExecute(t, NewProjectCommand, opts)

	opts.Ledger = testutil.WriteFile(t, "broken.tsv", ledger.HeaderLine+
		"2024-03-02T08:05\tKávé\t1\t450\tanna\t1\t-\t-\n")
	_, err := execute(t, NewProjectCommand, opts)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	opts.Format = "json"
	out := mustExecute(t, NewQueryCommand, opts, "periods")
	var resp struct {
		Data []store.PeriodRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "anna", resp.Data[0].Seller)
}
