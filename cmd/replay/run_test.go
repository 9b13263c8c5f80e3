package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/scenario"
)

func TestRun_示例场景多次重放一致(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "../../configs/scenarios/two_players.yml", "--times", "3"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "run 3: 5 ticks")
}

func TestFirstDivergence(t *testing.T) {
	a := []scenario.TickDigest{{Tick: 1, Digest: 10}, {Tick: 2, Digest: 20}}
	b := []scenario.TickDigest{{Tick: 1, Digest: 10}, {Tick: 2, Digest: 21}}

	_, same := firstDivergence(a, a)
	assert.True(t, same)
	tick, same := firstDivergence(a, b)
	assert.False(t, same)
	assert.Equal(t, uint64(2), tick)
	_, same = firstDivergence(a, a[:1])
	assert.False(t, same)
}
