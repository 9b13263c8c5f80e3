package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
)

func env(kind command.Kind, player domain.PlayerID) command.Envelope {
	return command.Envelope{Kind: kind, Player: player}
}

func TestCommandBuffer_先进先出(t *testing.T) {
	b := NewCommandBuffer(3)
	require.True(t, b.Push(env(command.KindQuickSave, 0)))
	require.True(t, b.Push(env(command.KindAbort, 1)))
	require.True(t, b.Push(env(command.KindBuild, 2)))
	assert.False(t, b.Push(env(command.KindBuild, 3)))
	assert.Equal(t, uint64(1), b.Overflow())

	out := b.Drain()
	require.Len(t, out, 3)
	assert.Equal(t, command.KindQuickSave, out[0].Kind)
	assert.Equal(t, command.KindAbort, out[1].Kind)
	assert.Equal(t, command.KindBuild, out[2].Kind)
	assert.Zero(t, b.Len())
	assert.Nil(t, b.Drain())
}

func TestCommandBuffer_绕回后顺序不变(t *testing.T) {
	b := NewCommandBuffer(2)
	require.True(t, b.Push(env(command.KindQuickSave, 0)))
	b.Drain()
	require.True(t, b.Push(env(command.KindAbort, 1)))
	require.True(t, b.Push(env(command.KindBuild, 2)))

	out := b.Drain()
	require.Len(t, out, 2)
	assert.Equal(t, domain.PlayerID(1), out[0].Player)
	assert.Equal(t, domain.PlayerID(2), out[1].Player)
}

func TestCommandBuffer_容量至少为1(t *testing.T) {
	assert.Equal(t, 1, NewCommandBuffer(0).Capacity())
	var b *CommandBuffer
	assert.False(t, b.Push(env(command.KindAbort, 0)))
	assert.Zero(t, b.Len())
}
