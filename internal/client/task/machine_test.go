package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
)

func TestMachine_建造标记更新后点选只产生一条Build(t *testing.T) {
	m := NewMachine(2)
	p := domain.Pos(7, 9)

	out := m.Handle(ShowConstructionMarks{Type: domain.BuildingLumberjack})
	assert.Empty(t, out.Commands)

	out = m.Handle(ShowConstructionMarks{Type: domain.BuildingSawmill})
	assert.Empty(t, out.Commands, "同种任务更新不应取消")
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, domain.BuildingSawmill, active.Building)

	out = m.Handle(SelectPoint{At: p})
	assert.Equal(t, []command.Command{
		command.Build{Header: command.By(2), Type: domain.BuildingSawmill, At: p},
		command.ClearConstructionMarks{Header: command.By(2)},
	}, out.Commands)
	assert.False(t, m.IsTaskActive())
}

func TestMachine_施法任务取消只产生Abort(t *testing.T) {
	m := NewMachine(0)
	m.Handle(AskCastSpell{Spell: domain.SpellGift})

	out := m.Handle(Abort{})
	assert.Equal(t, []command.Command{command.Abort{Header: command.By(0)}}, out.Commands)
	assert.False(t, m.IsTaskActive())
}

func TestMachine_Idle时结束不产生任何东西(t *testing.T) {
	m := NewMachine(0)
	assert.Equal(t, Output{}, m.Handle(Abort{}))
	assert.Equal(t, Output{}, m.Handle(SelectPoint{At: domain.Pos(1, 1)}))
	assert.Equal(t, Output{}, m.Handle(ShowConstructionMarks{Type: domain.BuildingUnknown}))
}

func TestMachine_切换任务种类先取消旧任务(t *testing.T) {
	m := NewMachine(0)
	m.Handle(ShowConstructionMarks{Type: domain.BuildingTower})

	out := m.Handle(AskSetDock{Building: domain.Pos(3, 3)})
	assert.Equal(t, []command.Command{command.ClearConstructionMarks{Header: command.By(0)}}, out.Commands)
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, KindSetDock, active.Kind)

	out = m.Handle(SelectPoint{At: domain.Pos(4, 5)})
	assert.Equal(t, []command.Command{
		command.SetDock{Header: command.By(0), Building: domain.Pos(3, 3), Dock: domain.Pos(4, 5)},
		command.Abort{Header: command.By(0)},
	}, out.Commands)
}

func TestMachine_收起标记(t *testing.T) {
	m := NewMachine(0)
	m.Handle(ShowConstructionMarks{Type: domain.BuildingTower})
	out := m.Handle(ShowConstructionMarks{Type: domain.BuildingUnknown})
	assert.Equal(t, []command.Command{command.ClearConstructionMarks{Header: command.By(0)}}, out.Commands)
	assert.False(t, m.IsTaskActive())
}

func TestMachine_选择变化取消任务(t *testing.T) {
	m := NewMachine(0)
	m.Handle(SelectionChanged{Selection: domain.Selection{1, 2}})
	m.Handle(AskSetWorkArea{Building: domain.Pos(5, 5)})

	out := m.Handle(SelectionChanged{Selection: domain.Selection{1, 2, 2}})
	assert.Empty(t, out.Commands, "去重后选择没变")
	assert.True(t, m.IsTaskActive())

	out = m.Handle(SelectionChanged{Selection: domain.Selection{3}})
	assert.Equal(t, []command.Command{command.Abort{Header: command.By(0)}}, out.Commands)
	assert.False(t, m.IsTaskActive())
}

func TestMachine_空选择时移动被抑制(t *testing.T) {
	m := NewMachine(1)
	assert.Empty(t, m.Handle(MoveTo{At: domain.Pos(3, 3)}).Commands)

	m.Handle(SelectionChanged{Selection: domain.Selection{4, 5}})
	out := m.Handle(MoveTo{At: domain.Pos(3, 3), Mode: domain.MoveToPatrol})
	require.Len(t, out.Commands, 1)
	assert.Equal(t, command.MoveTo{
		Header:    command.By(1),
		Selection: domain.Selection{4, 5},
		At:        domain.Pos(3, 3),
		Mode:      domain.MoveToPatrol,
	}, out.Commands[0])
}

func TestMachine_施法点选带上当前选择(t *testing.T) {
	m := NewMachine(0)
	m.Handle(SelectionChanged{Selection: domain.Selection{9}})
	m.Handle(AskCastSpell{Spell: domain.SpellIrrigate})

	out := m.Handle(SelectPoint{At: domain.Pos(2, 8)})
	require.Len(t, out.Commands, 1)
	assert.Equal(t, command.CastSpell{
		Header:    command.By(0),
		Selection: domain.Selection{9},
		Spell:     domain.SpellIrrigate,
		At:        domain.Pos(2, 8),
	}, out.Commands[0])
}

func TestMachine_终结意图在任务中发出指令并取消(t *testing.T) {
	m := NewMachine(0)
	m.Handle(AskSetTradingWaypoint{Building: domain.Pos(1, 1), Waypoint: domain.WaypointTwo})

	out := m.Handle(Build{Type: domain.BuildingStock, At: domain.Pos(6, 6)})
	require.Len(t, out.Commands, 2)
	assert.Equal(t, command.KindBuild, out.Commands[0].Kind())
	assert.Equal(t, command.KindAbort, out.Commands[1].Kind())

	// Idle 时终结意图只发出自己的指令
	out = m.Handle(SetWorkArea{Building: domain.Pos(1, 1), Center: domain.Pos(2, 2)})
	require.Len(t, out.Commands, 1)
	assert.Equal(t, command.KindSetWorkArea, out.Commands[0].Kind())
}

func TestMachine_普通指令不影响任务(t *testing.T) {
	m := NewMachine(0)
	m.Handle(ShowConstructionMarks{Type: domain.BuildingTower})
	out := m.Handle(Issue{Command: command.UpgradeSoldiers{Header: command.By(0), Soldier: domain.SoldierBow}})
	require.Len(t, out.Commands, 1)
	assert.Equal(t, command.KindUpgradeSoldiers, out.Commands[0].Kind())
	assert.True(t, m.IsTaskActive())
}
