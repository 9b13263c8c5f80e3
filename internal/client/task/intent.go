package task

import (
	"Settlers/internal/command"
	"Settlers/internal/game/domain"
)

// Intent 界面层产生的玩家意图，由 Machine 翻译成指令。
type Intent interface {
	intent()
}

type isIntent struct{}

func (isIntent) intent() {}

// ShowConstructionMarks 显示某类建筑的可建造标记；Type 为 BuildingUnknown 表示收起标记。
type ShowConstructionMarks struct {
	isIntent
	Type domain.BuildingType
}

type AskSetWorkArea struct {
	isIntent
	Building domain.Position
}

type AskCastSpell struct {
	isIntent
	Spell domain.SpellType
}

type AskSetDock struct {
	isIntent
	Building domain.Position
}

type AskSetTradingWaypoint struct {
	isIntent
	Building domain.Position
	Waypoint domain.WaypointType
}

// SelectPoint 玩家在地图上点了一个位置。
type SelectPoint struct {
	isIntent
	At domain.Position
}

type MoveTo struct {
	isIntent
	At   domain.Position
	Mode domain.MoveToType
}

// 以下是结束任务的意图，界面直接给出了完整参数。

type Build struct {
	isIntent
	Type domain.BuildingType
	At   domain.Position
}

type SetWorkArea struct {
	isIntent
	Building domain.Position
	Center   domain.Position
}

type CastSpell struct {
	isIntent
	Spell domain.SpellType
	At    domain.Position
}

type SetDock struct {
	isIntent
	Building domain.Position
	Dock     domain.Position
}

type SetTradingWaypoint struct {
	isIntent
	Building domain.Position
	Waypoint domain.WaypointType
	At       domain.Position
}

type Abort struct {
	isIntent
}

type SelectionChanged struct {
	isIntent
	Selection domain.Selection
}

// Issue 与多步任务无关的指令（改优先级、调整驻军等），原样发出，不影响当前任务。
type Issue struct {
	isIntent
	Command command.Command
}
