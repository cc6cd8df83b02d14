package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tillbook/internal/ledger"
)

func TestFindLastPeriod(t *testing.T) {
	l := twoDayLedger(t)

	p, err := FindLastPeriod(l)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "bela", p.Username)
	assert.True(t, p.IsOpen())
	assert.Len(t, p.Sales, 1)
}

func TestLastPeriod_NextIDAndUnclosed(t *testing.T) {
	l := twoDayLedger(t)

	v := &LastPeriod{}
	require.NoError(t, l.Replay(v))
	assert.Equal(t, 3, v.NextID())
	assert.True(t, v.Unclosed())
}

func TestLastPeriod_EmptyLedger(t *testing.T) {
	l, err := ledger.Open(filepath.Join(t.TempDir(), "sales.tsv"), ledger.WithSync(false))
	require.NoError(t, err)
	defer l.Close()

	v := &LastPeriod{}
	require.NoError(t, l.Replay(v))
	assert.Nil(t, v.Period)
	assert.Equal(t, 1, v.NextID())
	assert.False(t, v.Unclosed())
}

func TestFindLastPeriod_WrapsReplayError(t *testing.T) {
	l := twoDayLedger(t)
	require.NoError(t, l.Close())

	_, err := FindLastPeriod(l)
	require.Error(t, err)
	assert.True(t, ledger.IsStorageError(err))
	assert.Contains(t, err.Error(), "find last period")
}
