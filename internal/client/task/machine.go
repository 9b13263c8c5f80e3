package task

import (
	"slices"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
)

// Kind 多步任务的种类。
type Kind uint8

const (
	KindNone Kind = iota
	KindConstructionMarks
	KindSetWorkArea
	KindCastSpell
	KindSetDock
	KindSetTradingWaypoint
)

var kindNames = []string{"none", "construction_marks", "set_work_area", "cast_spell", "set_dock", "set_trading_waypoint"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Task 进行中的任务及其载荷。
type Task struct {
	Kind     Kind
	Building domain.BuildingType // KindConstructionMarks
	Target   domain.Position     // 工作区/码头/交易路点所属建筑
	Spell    domain.SpellType
	Waypoint domain.WaypointType
}

// Output 一次 Handle 产出的指令，按顺序进入同步通道。
type Output struct {
	Commands []command.Command
}

func (o *Output) emit(c command.Command) { o.Commands = append(o.Commands, c) }

// Machine 本地多步操作状态机：Idle / Active(task)。只在界面线程使用，不并发。
type Machine struct {
	player    domain.PlayerID
	active    *Task
	selection domain.Selection
}

func NewMachine(player domain.PlayerID) *Machine {
	return &Machine{player: player}
}

func (m *Machine) IsTaskActive() bool {
	return m.active != nil
}

func (m *Machine) Active() (Task, bool) {
	if m.active == nil {
		return Task{}, false
	}
	return *m.active, true
}

func (m *Machine) Selection() domain.Selection {
	return slices.Clone(m.selection)
}

func (m *Machine) Handle(in Intent) Output {
	var out Output
	h := command.By(m.player)

	switch v := in.(type) {
	case ShowConstructionMarks:
		if v.Type == domain.BuildingUnknown {
			if m.active != nil && m.active.Kind == KindConstructionMarks {
				m.finish(&out)
			}
			return out
		}
		m.start(&out, Task{Kind: KindConstructionMarks, Building: v.Type})
	case AskSetWorkArea:
		m.start(&out, Task{Kind: KindSetWorkArea, Target: v.Building})
	case AskCastSpell:
		m.start(&out, Task{Kind: KindCastSpell, Spell: v.Spell})
	case AskSetDock:
		m.start(&out, Task{Kind: KindSetDock, Target: v.Building})
	case AskSetTradingWaypoint:
		m.start(&out, Task{Kind: KindSetTradingWaypoint, Target: v.Building, Waypoint: v.Waypoint})

	case SelectPoint:
		if m.active == nil {
			return out
		}
		out.emit(m.translate(h, *m.active, v.At))
		m.finish(&out)

	case MoveTo:
		if m.selection.Empty() {
			return out
		}
		out.emit(command.MoveTo{Header: h, Selection: m.Selection(), At: v.At, Mode: v.Mode})

	case Build:
		out.emit(command.Build{Header: h, Type: v.Type, At: v.At})
		m.finish(&out)
	case SetWorkArea:
		out.emit(command.SetWorkArea{Header: h, Building: v.Building, Center: v.Center})
		m.finish(&out)
	case CastSpell:
		out.emit(command.CastSpell{Header: h, Selection: m.Selection(), Spell: v.Spell, At: v.At})
		m.finish(&out)
	case SetDock:
		out.emit(command.SetDock{Header: h, Building: v.Building, Dock: v.Dock})
		m.finish(&out)
	case SetTradingWaypoint:
		out.emit(command.SetTradingWaypoint{Header: h, Building: v.Building, Waypoint: v.Waypoint, At: v.At})
		m.finish(&out)

	case Abort:
		m.finish(&out)

	case SelectionChanged:
		next := v.Selection.Dedup()
		if slices.Equal(next, m.selection) {
			return out
		}
		m.selection = next
		m.finish(&out)

	case Issue:
		if v.Command != nil {
			out.emit(v.Command)
		}
	}
	return out
}

// start 同种任务只替换载荷；不同种类先取消旧任务。
func (m *Machine) start(out *Output, t Task) {
	if m.active != nil && m.active.Kind != t.Kind {
		m.finish(out)
	}
	m.active = &t
}

// finish 回到 Idle 并按任务种类发出取消指令，执行端对这两条都是空操作，重复发送无害。
// Idle 时什么都不做。
func (m *Machine) finish(out *Output) {
	if m.active == nil {
		return
	}
	h := command.By(m.player)
	if m.active.Kind == KindConstructionMarks {
		out.emit(command.ClearConstructionMarks{Header: h})
	} else {
		out.emit(command.Abort{Header: h})
	}
	m.active = nil
}

func (m *Machine) translate(h command.Header, t Task, at domain.Position) command.Command {
	switch t.Kind {
	case KindConstructionMarks:
		return command.Build{Header: h, Type: t.Building, At: at}
	case KindSetWorkArea:
		return command.SetWorkArea{Header: h, Building: t.Target, Center: at}
	case KindCastSpell:
		return command.CastSpell{Header: h, Selection: m.Selection(), Spell: t.Spell, At: at}
	case KindSetDock:
		return command.SetDock{Header: h, Building: t.Target, Dock: at}
	default:
		return command.SetTradingWaypoint{Header: h, Building: t.Target, Waypoint: t.Waypoint, At: at}
	}
}
