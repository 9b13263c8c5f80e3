package entity

import (
	"slices"

	"Settlers/internal/game/domain"
)

// Building 所有建筑共有的能力；驻军、仓库、交易、码头、船坞能力由具体变体实现。
type Building interface {
	Pos() domain.Position
	Type() domain.BuildingType
	Player() domain.PlayerID
	Alive() bool
	Priority() domain.Priority
	SetPriority(p domain.Priority)
	SetWorkAreaCenter(p domain.Position)
	Kill()

	state() *buildingState
}

// Occupying 可驻军建筑（塔楼、城堡）。
type Occupying interface {
	Building
	RequestFullSoldiers()
	RequestSoldier(kind domain.SoldierType)
	ReleaseSoldiers()
	ReleaseSoldier(kind domain.SoldierType)
	Garrison() (present, requested []domain.SoldierType)
}

// Stock 仓库，可以设置接收哪些材料。
type Stock interface {
	Building
	SetAcceptedMaterial(m domain.MaterialType, accepted bool)
	Accepts(m domain.MaterialType) bool
}

// Trading 市场/港口。
type Trading interface {
	Building
	ChangeRequestedMaterial(m domain.MaterialType, amount int, relative bool)
	RequestedMaterial(m domain.MaterialType) int
	SetWaypoint(w domain.WaypointType, p domain.Position)
}

// DockBuilding 需要码头位置的建筑。
type DockBuilding interface {
	Building
	SetDock(p domain.Position)
	Dock() (domain.Position, bool)
}

// Dockyard 造船厂。
type Dockyard interface {
	DockBuilding
	OrderShip(t domain.ShipType)
	OrderedShips() []domain.ShipType
}

// MaxTradeRequest 单种材料交易请求上限。
const MaxTradeRequest = 99

type buildingState struct {
	pos        domain.Position
	typ        domain.BuildingType
	player     domain.PlayerID
	alive      bool
	priority   domain.Priority
	workCenter *domain.Position

	// 驻军
	soldiers  []domain.SoldierType
	requested []domain.SoldierType
	// 仓库：未出现在 map 中的材料默认接收
	accepted map[domain.MaterialType]bool
	// 交易
	trade     map[domain.MaterialType]int
	waypoints [4]*domain.Position
	// 码头 / 船坞
	dock  *domain.Position
	ships []domain.ShipType

	touch func()
}

func (b *buildingState) Pos() domain.Position      { return b.pos }
func (b *buildingState) Type() domain.BuildingType { return b.typ }
func (b *buildingState) Player() domain.PlayerID   { return b.player }
func (b *buildingState) Alive() bool               { return b.alive }
func (b *buildingState) Priority() domain.Priority { return b.priority }
func (b *buildingState) state() *buildingState     { return b }

func (b *buildingState) dirty() {
	if b.touch != nil {
		b.touch()
	}
}

func (b *buildingState) SetPriority(p domain.Priority) {
	if !b.alive || b.priority == p {
		return
	}
	b.priority = p
	b.dirty()
}

func (b *buildingState) SetWorkAreaCenter(p domain.Position) {
	if !b.alive {
		return
	}
	b.workCenter = &p
	b.dirty()
}

func (b *buildingState) Kill() {
	if !b.alive {
		return
	}
	b.alive = false
	b.dirty()
}

type plainBuilding struct{ *buildingState }

// occupyingBuilding 塔楼/城堡。
type occupyingBuilding struct {
	*buildingState
	capacity int
}

func (o occupyingBuilding) total() int {
	return len(o.soldiers) + len(o.requested)
}

func (o occupyingBuilding) RequestFullSoldiers() {
	if !o.alive {
		return
	}
	for o.total() < o.capacity {
		o.requested = append(o.requested, domain.SoldierSword)
	}
	o.dirty()
}

func (o occupyingBuilding) RequestSoldier(kind domain.SoldierType) {
	if !o.alive || o.total() >= o.capacity {
		return
	}
	o.requested = append(o.requested, kind)
	o.dirty()
}

// ReleaseSoldiers 只留第一名驻军，取消所有请求。
func (o occupyingBuilding) ReleaseSoldiers() {
	if !o.alive {
		return
	}
	if len(o.soldiers) > 1 {
		o.soldiers = o.soldiers[:1]
	}
	o.requested = o.requested[:0]
	o.dirty()
}

// ReleaseSoldier 先撤销一条该兵种的请求，没有请求时释放一名该兵种驻军；最后一名驻军不释放。
func (o occupyingBuilding) ReleaseSoldier(kind domain.SoldierType) {
	if !o.alive {
		return
	}
	if i := lastIndex(o.requested, kind); i >= 0 {
		o.requested = slices.Delete(o.requested, i, i+1)
		o.dirty()
		return
	}
	if len(o.soldiers) <= 1 {
		return
	}
	if i := lastIndex(o.soldiers, kind); i >= 0 {
		o.soldiers = slices.Delete(o.soldiers, i, i+1)
		o.dirty()
	}
}

func (o occupyingBuilding) Garrison() (present, requested []domain.SoldierType) {
	return slices.Clone(o.soldiers), slices.Clone(o.requested)
}

func lastIndex(s []domain.SoldierType, kind domain.SoldierType) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == kind {
			return i
		}
	}
	return -1
}

type stockBuilding struct{ *buildingState }

func (s stockBuilding) SetAcceptedMaterial(m domain.MaterialType, accepted bool) {
	if !s.alive {
		return
	}
	if s.accepted == nil {
		s.accepted = make(map[domain.MaterialType]bool)
	}
	s.accepted[m] = accepted
	s.dirty()
}

func (s stockBuilding) Accepts(m domain.MaterialType) bool {
	v, ok := s.accepted[m]
	return !ok || v
}

type tradingState struct{ *buildingState }

func (t tradingState) ChangeRequestedMaterial(m domain.MaterialType, amount int, relative bool) {
	if !t.alive {
		return
	}
	if t.trade == nil {
		t.trade = make(map[domain.MaterialType]int)
	}
	next := amount
	if relative {
		next = t.trade[m] + amount
	}
	t.trade[m] = min(max(next, 0), MaxTradeRequest)
	t.dirty()
}

func (t tradingState) RequestedMaterial(m domain.MaterialType) int {
	return t.trade[m]
}

func (t tradingState) SetWaypoint(w domain.WaypointType, p domain.Position) {
	if !t.alive || int(w) >= len(t.waypoints) {
		return
	}
	t.waypoints[w] = &p
	t.dirty()
}

type dockState struct{ *buildingState }

func (d dockState) SetDock(p domain.Position) {
	if !d.alive {
		return
	}
	d.dock = &p
	d.dirty()
}

func (d dockState) Dock() (domain.Position, bool) {
	if d.dock == nil {
		return domain.Position{}, false
	}
	return *d.dock, true
}

type marketBuilding struct{ tradingState }

// harborBuilding 港口既能交易也需要码头。
type harborBuilding struct {
	*buildingState
	tradingState
	dockState
}

type dockyardBuilding struct{ dockState }

func (d dockyardBuilding) OrderShip(t domain.ShipType) {
	if !d.alive {
		return
	}
	if _, ok := d.Dock(); !ok {
		return
	}
	d.ships = append(d.ships, t)
	d.dirty()
}

func (d dockyardBuilding) OrderedShips() []domain.ShipType {
	return slices.Clone(d.ships)
}

func garrisonCapacity(t domain.BuildingType) int {
	switch t {
	case domain.BuildingTower:
		return 3
	case domain.BuildingBigTower:
		return 5
	case domain.BuildingCastle:
		return 9
	default:
		return 0
	}
}

// newBuilding 根据建筑类型选择变体。
func newBuilding(t domain.BuildingType, pos domain.Position, player domain.PlayerID, touch func()) Building {
	s := &buildingState{pos: pos, typ: t, player: player, alive: true, touch: touch}
	switch t {
	case domain.BuildingTower, domain.BuildingBigTower, domain.BuildingCastle:
		return occupyingBuilding{buildingState: s, capacity: garrisonCapacity(t)}
	case domain.BuildingStock:
		return stockBuilding{s}
	case domain.BuildingMarket:
		return marketBuilding{tradingState{s}}
	case domain.BuildingHarbor:
		return harborBuilding{s, tradingState{s}, dockState{s}}
	case domain.BuildingDockyard:
		return dockyardBuilding{dockState{s}}
	default:
		return plainBuilding{s}
	}
}
