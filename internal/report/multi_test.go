package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulti_FeedsEveryVisitor(t *testing.T) {
	l := twoDayLedger(t)

	last := &LastPeriod{}
	balance := &Balance{}
	trace := &Trace{}
	require.NoError(t, l.Replay(Multi{last, balance, trace}))

	alone := &Trace{}
	require.NoError(t, l.Replay(alone))

	require.NotNil(t, last.Period)
	assert.Equal(t, 2, last.Period.ID)
	assert.Equal(t, 13200, balance.Cash)
	assert.Equal(t, alone.Events, trace.Events)
}
