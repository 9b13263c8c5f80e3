package entity

import "Settlers/internal/game/domain"

// Movable 所有单位共有的能力。具体能力（转职、施法、渡船）由各单位变体额外实现，
// 调用方用类型断言匹配能力接口，而不是判断 MovableType。
type Movable interface {
	ID() domain.UnitID
	Type() domain.MovableType
	Player() domain.PlayerID
	Position() domain.Position
	Alive() bool
	IsShip() bool
	CanBoardFerry() bool
	MoveTo(p domain.Position, mode domain.MoveToType)
	Kill()
	SetWorking(working bool)

	state() *unitState
}

// Bearer 搬运工，可以转职为地质学家/先锋/小偷。
type Bearer interface {
	Movable
	ConvertTo(target domain.MovableType) bool
}

// Pioneer 先锋，可以转回搬运工。
type Pioneer interface {
	Movable
	ConvertToBearer()
}

type Mage interface {
	Movable
	MoveToCast(at domain.Position, spell domain.SpellType)
}

type Ferry interface {
	Movable
	Board(passenger domain.UnitID) bool
	Passengers() []domain.UnitID
	Unload() int
}

// FerryBoarder 可以登上渡船的人形单位。
type FerryBoarder interface {
	Movable
	MoveToFerry(ferry Ferry, entrance domain.Position)
}

// FerryCapacity 单艘渡船载客上限。
const FerryCapacity = 7

type castOrder struct {
	At    domain.Position
	Spell domain.SpellType
}

// unitState 单位的可变状态，所有变体共用。
type unitState struct {
	id       domain.UnitID
	typ      domain.MovableType
	player   domain.PlayerID
	pos      domain.Position
	alive    bool
	working  bool
	target   *domain.Position
	mode     domain.MoveToType
	cast     *castOrder
	boarding domain.UnitID // 正在登上的渡船，0 表示没有

	reg *MovableRegistry
}

func (u *unitState) ID() domain.UnitID         { return u.id }
func (u *unitState) Type() domain.MovableType  { return u.typ }
func (u *unitState) Player() domain.PlayerID   { return u.player }
func (u *unitState) Position() domain.Position { return u.pos }
func (u *unitState) Alive() bool               { return u.alive }
func (u *unitState) IsShip() bool              { return u.typ.IsShip() }
func (u *unitState) state() *unitState         { return u }

// Target 当前移动目标。
func (u *unitState) Target() (domain.Position, bool) {
	if u.target == nil {
		return domain.Position{}, false
	}
	return *u.target, true
}

func (u *unitState) MoveTo(p domain.Position, mode domain.MoveToType) {
	if !u.alive {
		return
	}
	u.target = &p
	u.mode = mode
	u.cast = nil
	u.boarding = 0
	u.reg.touch()
}

func (u *unitState) Kill() {
	if !u.alive {
		return
	}
	u.alive = false
	u.target = nil
	u.reg.touch()
}

func (u *unitState) SetWorking(working bool) {
	if !u.alive || u.working == working {
		return
	}
	u.working = working
	u.reg.touch()
}

func (u *unitState) moveToFerry(ferry Ferry, entrance domain.Position) {
	if !u.alive || !ferry.Alive() || !ferry.Board(u.id) {
		return
	}
	u.target = &entrance
	u.mode = domain.MoveToDefault
	u.boarding = ferry.ID()
	u.reg.touch()
}

// bearerUnit 搬运工。
type bearerUnit struct{ *unitState }

func (b bearerUnit) CanBoardFerry() bool { return true }

func (b bearerUnit) MoveToFerry(ferry Ferry, entrance domain.Position) {
	b.moveToFerry(ferry, entrance)
}

func (b bearerUnit) ConvertTo(target domain.MovableType) bool {
	switch target {
	case domain.MovableGeologist, domain.MovablePioneer, domain.MovableThief:
	default:
		return false
	}
	if !b.alive {
		return false
	}
	b.reg.convert(b.unitState, target)
	return true
}

// pioneerUnit 先锋。
type pioneerUnit struct{ *unitState }

func (p pioneerUnit) CanBoardFerry() bool { return true }

func (p pioneerUnit) MoveToFerry(ferry Ferry, entrance domain.Position) {
	p.moveToFerry(ferry, entrance)
}

func (p pioneerUnit) ConvertToBearer() {
	if p.alive {
		p.reg.convert(p.unitState, domain.MovableBearer)
	}
}

// humanUnit 地质学家、小偷、士兵等没有特殊指令的人形单位。
type humanUnit struct{ *unitState }

func (h humanUnit) CanBoardFerry() bool { return true }

func (h humanUnit) MoveToFerry(ferry Ferry, entrance domain.Position) {
	h.moveToFerry(ferry, entrance)
}

type mageUnit struct{ *unitState }

func (m mageUnit) CanBoardFerry() bool { return true }

func (m mageUnit) MoveToFerry(ferry Ferry, entrance domain.Position) {
	m.moveToFerry(ferry, entrance)
}

func (m mageUnit) MoveToCast(at domain.Position, spell domain.SpellType) {
	if !m.alive {
		return
	}
	m.target = &at
	m.mode = domain.MoveToForced
	m.cast = &castOrder{At: at, Spell: spell}
	m.reg.touch()
}

// animalUnit 驴等牲畜，不能登船。
type animalUnit struct{ *unitState }

func (a animalUnit) CanBoardFerry() bool { return false }

// shipUnit 货船。
type shipUnit struct{ *unitState }

func (s shipUnit) CanBoardFerry() bool { return false }

type ferryUnit struct {
	*unitState
	passengers *[]domain.UnitID
}

func (f ferryUnit) CanBoardFerry() bool { return false }

func (f ferryUnit) Board(passenger domain.UnitID) bool {
	if !f.alive || len(*f.passengers) >= FerryCapacity {
		return false
	}
	for _, id := range *f.passengers {
		if id == passenger {
			return true
		}
	}
	*f.passengers = append(*f.passengers, passenger)
	return true
}

func (f ferryUnit) Passengers() []domain.UnitID {
	return append([]domain.UnitID(nil), *f.passengers...)
}

// Unload 乘客下船，停在各自登船时的入口处。返回下船人数。
func (f ferryUnit) Unload() int {
	if !f.alive || len(*f.passengers) == 0 {
		return 0
	}
	n := 0
	for _, id := range *f.passengers {
		m, ok := f.reg.Get(id)
		if !ok {
			continue
		}
		s := m.state()
		if s.boarding != f.id {
			continue
		}
		if s.target != nil {
			s.pos = *s.target
		}
		s.target = nil
		s.boarding = 0
		n++
	}
	*f.passengers = (*f.passengers)[:0]
	f.reg.touch()
	return n
}

// newVariant 根据单位类型选择变体，能力集合由变体决定。
func newVariant(s *unitState) Movable {
	switch s.typ {
	case domain.MovableBearer:
		return bearerUnit{s}
	case domain.MovablePioneer:
		return pioneerUnit{s}
	case domain.MovableMage:
		return mageUnit{s}
	case domain.MovableFerry:
		return ferryUnit{unitState: s, passengers: new([]domain.UnitID)}
	case domain.MovableCargoShip:
		return shipUnit{s}
	case domain.MovableDonkey:
		return animalUnit{s}
	default:
		return humanUnit{s}
	}
}
