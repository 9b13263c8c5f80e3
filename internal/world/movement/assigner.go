package movement

import "Settlers/internal/game/domain"

// Terrain 分配时需要的只读地形信息。
type Terrain interface {
	Width() int
	Height() int
	IsBlocked(p domain.Position) bool
	IsNavigable(p domain.Position) bool
	BlockedPartition(p domain.Position) int16
}

// Mover 待分配的单位。
type Mover interface {
	ID() domain.UnitID
	Position() domain.Position
	IsShip() bool
	// CanBoardFerry 人形单位可以登船，船只/牲畜不行。
	CanBoardFerry() bool
}

// FerryEntrance 渡船及其登船点。
type FerryEntrance struct {
	Ferry    domain.UnitID   `json:"ferry"`
	Entrance domain.Position `json:"entrance"`
}

// FerryLocator 目标位置上是否有该玩家可用的渡船。
type FerryLocator interface {
	FerryAt(p domain.Position, player domain.PlayerID) (FerryEntrance, bool)
}

type Assignment struct {
	Unit domain.UnitID
	Cell domain.Position
}

// Plan 分配结果。Ferry 非空时走渡船分支，Boarders 为登船单位，Assignments 为空。
type Plan struct {
	Assignments []Assignment
	Ferry       *FerryEntrance
	Boarders    []domain.UnitID
	Unassigned  []domain.UnitID
}

// 外扩环搜索的耐心参数：连续 minPatience 圈没有分配成功就停，
// 靠近中心时放宽到 patienceBase-radius 圈。
const (
	minPatience  = 5
	patienceBase = 15
	ringStride   = 2
)

// Assigner 把一组单位分散到目标点周围的不同格子上。纯计算，不修改世界。
type Assigner struct {
	terrain Terrain
	ferries FerryLocator
}

func NewAssigner(terrain Terrain, ferries FerryLocator) *Assigner {
	return &Assigner{terrain: terrain, ferries: ferries}
}

// Assign 计算 units 的移动分配。units 的顺序决定优先级，结果对同样输入完全确定。
func (a *Assigner) Assign(target domain.Position, player domain.PlayerID, units []Mover) Plan {
	if len(units) == 0 {
		return Plan{}
	}

	// 渡船分支只在这里检查一次
	if a.ferries != nil && !units[0].IsShip() && a.terrain.IsBlocked(target) {
		if entrance, ok := a.ferries.FerryAt(target, player); ok {
			plan := Plan{Ferry: &entrance}
			for _, u := range units {
				if u.CanBoardFerry() {
					plan.Boarders = append(plan.Boarders, u.ID())
				} else {
					plan.Unassigned = append(plan.Unassigned, u.ID())
				}
			}
			return plan
		}
	}

	remaining := append([]Mover(nil), units...)
	plan := Plan{Assignments: make([]Assignment, 0, len(units))}
	w, h := a.terrain.Width(), a.terrain.Height()

	for radius, misses := 0, 0; misses <= max(minPatience, patienceBase-radius+misses) && len(remaining) > 0; radius++ {
		sent := 0
		for _, cell := range HexBorder(target, radius).FilterBounds(w, h).Every(ringStride) {
			idx := a.firstReaching(remaining, cell)
			if idx < 0 {
				continue
			}
			plan.Assignments = append(plan.Assignments, Assignment{Unit: remaining[idx].ID(), Cell: cell})
			remaining = append(remaining[:idx], remaining[idx+1:]...)
			sent++
			if len(remaining) == 0 {
				break
			}
		}
		if sent > 0 {
			misses = 0
		} else {
			misses++
		}
	}

	for _, u := range remaining {
		plan.Unassigned = append(plan.Unassigned, u.ID())
	}
	return plan
}

func (a *Assigner) firstReaching(units []Mover, cell domain.Position) int {
	for i, u := range units {
		if a.CanReach(u, cell) {
			return i
		}
	}
	return -1
}

// CanReach 船只看水域是否可航行；其他单位要求目标不阻塞且与当前位置处于同一阻塞分区。
func (a *Assigner) CanReach(u Mover, cell domain.Position) bool {
	if u.IsShip() && a.terrain.IsNavigable(cell) {
		return true
	}
	return !a.terrain.IsBlocked(cell) &&
		a.terrain.BlockedPartition(u.Position()) == a.terrain.BlockedPartition(cell)
}
