package entity

import (
	"errors"
	"fmt"
	"slices"

	"Settlers/internal/game/domain"
	"Settlers/internal/world/movement"
	"Settlers/internal/world/search"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrOccupied    = errors.New("position already occupied")
)

// World 一局对局的完整可变状态。只由会话 actor 的单线程修改。
type World struct {
	grid      *Grid
	units     *MovableRegistry
	buildings map[domain.Position]Building
	players   map[domain.PlayerID]*Player
	settings  map[domain.PlayerID]*PartitionSettings
	dirty     bool
}

func NewWorld(width, height int) *World {
	w := &World{
		grid:      NewGrid(width, height),
		units:     NewMovableRegistry(),
		buildings: make(map[domain.Position]Building),
		players:   make(map[domain.PlayerID]*Player),
		settings:  make(map[domain.PlayerID]*PartitionSettings),
	}
	w.units.onDirty = w.touch
	return w
}

func (w *World) touch()                  { w.dirty = true }
func (w *World) Dirty() bool             { return w.dirty }
func (w *World) ClearDirty()             { w.dirty = false }
func (w *World) Grid() *Grid             { return w.grid }
func (w *World) Width() int              { return w.grid.Width() }
func (w *World) Height() int             { return w.grid.Height() }
func (w *World) Units() *MovableRegistry { return w.units }

// ---- 玩家 ----

func (w *World) AddPlayer(p *Player) {
	w.players[p.ID] = p
	w.settings[p.ID] = newPartitionSettings(w.touch)
	w.touch()
}

func (w *World) Player(id domain.PlayerID) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Players 按 id 升序。
func (w *World) Players() []*Player {
	ids := make([]domain.PlayerID, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*Player, len(ids))
	for i, id := range ids {
		out[i] = w.players[id]
	}
	return out
}

// HasLost 不存在的玩家按已出局处理。
func (w *World) HasLost(id domain.PlayerID) bool {
	p, ok := w.players[id]
	return !ok || p.Lost
}

func (w *World) MarkLost(id domain.PlayerID) bool {
	p, ok := w.players[id]
	if !ok || p.Lost {
		return false
	}
	p.Lost = true
	w.touch()
	return true
}

// UpgradeSoldiers 消耗法力提升兵种等级；法力不足、已满级或玩家不存在时返回 false。
func (w *World) UpgradeSoldiers(id domain.PlayerID, s domain.SoldierType) bool {
	p, ok := w.players[id]
	if !ok || !p.Manna.Upgrade(s) {
		return false
	}
	w.touch()
	return true
}

func (w *World) Civilisation(id domain.PlayerID) domain.Civilisation {
	if p, ok := w.players[id]; ok {
		return p.Civ
	}
	return domain.CivRoman
}

// PlayerBlockedPartition 玩家大本营所在的阻塞分区。
func (w *World) PlayerBlockedPartition(id domain.PlayerID) (int16, bool) {
	p, ok := w.players[id]
	if !ok || p.Home == nil {
		return 0, false
	}
	c, ok := w.grid.Cell(*p.Home)
	if !ok || c.Partition == 0 {
		return 0, false
	}
	return c.Partition, true
}

func (w *World) Settings(id domain.PlayerID) (*PartitionSettings, bool) {
	s, ok := w.settings[id]
	return s, ok
}

// SettingsAt 位置所在领地的分区设置；无主领地返回 false。
func (w *World) SettingsAt(p domain.Position) (*PartitionSettings, bool) {
	c, ok := w.grid.Cell(p)
	if !ok || c.Owner == NoOwner {
		return nil, false
	}
	return w.Settings(domain.PlayerID(c.Owner))
}

// ---- 地形 ----

// IsBlocked 越界、障碍、水域以及建筑占用的格子都视为阻塞。
func (w *World) IsBlocked(p domain.Position) bool {
	c, ok := w.grid.Cell(p)
	if !ok || c.Blocked || c.Water {
		return true
	}
	_, occupied := w.BuildingAt(p)
	return occupied
}

func (w *World) IsNavigable(p domain.Position) bool {
	c, ok := w.grid.Cell(p)
	return ok && c.Water
}

func (w *World) BlockedPartition(p domain.Position) int16 {
	c, _ := w.grid.Cell(p)
	return c.Partition
}

func (w *World) ResourceAt(p domain.Position) (domain.ResourceType, uint8) {
	c, _ := w.grid.Cell(p)
	return c.Resource, c.Amount
}

func (w *World) OwnerAt(p domain.Position) (domain.PlayerID, bool) {
	c, ok := w.grid.Cell(p)
	if !ok || c.Owner == NoOwner {
		return 0, false
	}
	return domain.PlayerID(c.Owner), true
}

// SetOwner 修改领地归属。
func (w *World) SetOwner(p domain.Position, player domain.PlayerID) {
	if w.grid.Update(p, func(c *Cell) { c.Owner = int8(player) }) {
		w.touch()
	}
}

// ---- 建筑 ----

// PlaceBuilding 直接放置一座建筑（场景加载），不检查领地。
func (w *World) PlaceBuilding(t domain.BuildingType, p domain.Position, player domain.PlayerID) (Building, error) {
	if !p.InBounds(w.Width(), w.Height()) {
		return nil, fmt.Errorf("place %s at %v: %w", t, p, ErrOutOfBounds)
	}
	if _, ok := w.BuildingAt(p); ok {
		return nil, fmt.Errorf("place %s at %v: %w", t, p, ErrOccupied)
	}
	b := newBuilding(t, p, player, w.touch)
	w.buildings[p] = b
	w.touch()
	return b, nil
}

// ConstructBuildingAt 玩家下令建造：位置必须可行走、归属该玩家且没有建筑。不满足时返回 false。
func (w *World) ConstructBuildingAt(p domain.Position, t domain.BuildingType, player domain.PlayerID) bool {
	if t == domain.BuildingUnknown || w.IsBlocked(p) {
		return false
	}
	if owner, ok := w.OwnerAt(p); !ok || owner != player {
		return false
	}
	_, err := w.PlaceBuilding(t, p, player)
	return err == nil
}

// BuildingAt 只返回存活的建筑。
func (w *World) BuildingAt(p domain.Position) (Building, bool) {
	b, ok := w.buildings[p]
	if !ok || !b.Alive() {
		return nil, false
	}
	return b, true
}

// Buildings 按扫描顺序返回所有建筑（含已摧毁）。
func (w *World) Buildings() []Building {
	keys := make([]domain.Position, 0, len(w.buildings))
	for p := range w.buildings {
		keys = append(keys, p)
	}
	slices.SortFunc(keys, func(a, b domain.Position) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	out := make([]Building, len(keys))
	for i, k := range keys {
		out[i] = w.buildings[k]
	}
	return out
}

func (w *World) BuildingCount(t domain.BuildingType, player domain.PlayerID) int {
	n := 0
	for _, b := range w.buildings {
		if b.Alive() && b.Type() == t && b.Player() == player {
			n++
		}
	}
	return n
}

var protectedTiles = map[domain.BuildingType]int{
	domain.BuildingLumberjack:  9,
	domain.BuildingSawmill:     12,
	domain.BuildingStonecutter: 9,
	domain.BuildingCoalMine:    6,
	domain.BuildingIronMine:    6,
	domain.BuildingGoldMine:    6,
	domain.BuildingGemsMine:    6,
	domain.BuildingSulfurMine:  6,
	domain.BuildingTower:       12,
	domain.BuildingBigTower:    19,
	domain.BuildingCastle:      37,
	domain.BuildingStock:       19,
	domain.BuildingMarket:      19,
	domain.BuildingHarbor:      19,
	domain.BuildingDockyard:    19,
	domain.BuildingTemple:      19,
	domain.BuildingSmallLiving: 9,
}

// ProtectedTiles 建筑占用的保护格数量。各文明目前使用同一张表。
func (w *World) ProtectedTiles(t domain.BuildingType, _ domain.Civilisation) int {
	return protectedTiles[t]
}

// ---- AI 统计 ----

func (w *World) ResourceCountOfPlayer(rt domain.ResourceType, player domain.PlayerID) int {
	n := 0
	for _, c := range w.grid.cells {
		if c.Owner == int8(player) && c.Resource == rt && c.Amount > 0 {
			n++
		}
	}
	return n
}

// DefaultPartitionResources 无主领地中有该资源的格子。
func (w *World) DefaultPartitionResources(rt domain.ResourceType) *search.Frontier {
	f := search.NewFrontier()
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			p := domain.Pos(x, y)
			c, _ := w.grid.Cell(p)
			if c.Owner == NoOwner && c.Resource == rt && c.Amount > 0 {
				f.Add(p)
			}
		}
	}
	return f
}

// Border 玩家领地的边界：属于玩家且至少一个邻居不属于玩家（或在地图外）的格子。
func (w *World) Border(player domain.PlayerID) *search.Frontier {
	f := search.NewFrontier()
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			p := domain.Pos(x, y)
			if owner, ok := w.OwnerAt(p); !ok || owner != player {
				continue
			}
			for _, n := range p.Neighbours() {
				if owner, ok := w.OwnerAt(n); !ok || owner != player {
					f.Add(p)
					break
				}
			}
		}
	}
	return f
}

// ---- 渡船 ----

// FerryAt 目标位置上停着该玩家的渡船时返回渡船和登船点（渡船周围第一个可行走的格子）。
func (w *World) FerryAt(p domain.Position, player domain.PlayerID) (movement.FerryEntrance, bool) {
	for _, m := range w.units.All() {
		if !m.Alive() || m.Type() != domain.MovableFerry || m.Player() != player || m.Position() != p {
			continue
		}
		for _, n := range p.Neighbours() {
			if !w.IsBlocked(n) {
				return movement.FerryEntrance{Ferry: m.ID(), Entrance: n}, true
			}
		}
	}
	return movement.FerryEntrance{}, false
}

func (w *World) Ferry(id domain.UnitID) (Ferry, bool) {
	m, ok := w.units.Get(id)
	if !ok {
		return nil, false
	}
	f, ok := m.(Ferry)
	return f, ok
}
