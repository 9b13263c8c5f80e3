package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/game/domain"
)

type fakeTerrain struct {
	w, h      int
	blocked   map[domain.Position]bool
	water     map[domain.Position]bool
	partition map[domain.Position]int16
	allBlock  bool
}

func newTerrain(w, h int) *fakeTerrain {
	return &fakeTerrain{
		w: w, h: h,
		blocked:   map[domain.Position]bool{},
		water:     map[domain.Position]bool{},
		partition: map[domain.Position]int16{},
	}
}

func (f *fakeTerrain) Width() int  { return f.w }
func (f *fakeTerrain) Height() int { return f.h }
func (f *fakeTerrain) IsBlocked(p domain.Position) bool {
	return f.allBlock || f.blocked[p] || f.water[p]
}
func (f *fakeTerrain) IsNavigable(p domain.Position) bool { return f.water[p] }
func (f *fakeTerrain) BlockedPartition(p domain.Position) int16 {
	if v, ok := f.partition[p]; ok {
		return v
	}
	return 1
}

type unit struct {
	id    domain.UnitID
	pos   domain.Position
	ship  bool
	board bool
}

func (u unit) ID() domain.UnitID         { return u.id }
func (u unit) Position() domain.Position { return u.pos }
func (u unit) IsShip() bool              { return u.ship }
func (u unit) CanBoardFerry() bool       { return u.board }

type ferries map[domain.Position]FerryEntrance

func (f ferries) FerryAt(p domain.Position, _ domain.PlayerID) (FerryEntrance, bool) {
	e, ok := f[p]
	return e, ok
}

func movers(n int, at domain.Position) []Mover {
	out := make([]Mover, n)
	for i := range out {
		out[i] = unit{id: domain.UnitID(i + 1), pos: at, board: true}
	}
	return out
}

func TestHexBorder_每圈6r个且距离都是r(t *testing.T) {
	c := domain.Pos(20, 20)
	assert.Equal(t, Ring{c}, HexBorder(c, 0))
	for r := 1; r <= 6; r++ {
		ring := HexBorder(c, r)
		require.Len(t, ring, 6*r)
		seen := map[domain.Position]bool{}
		for _, p := range ring {
			assert.Equal(t, r, c.OnGridDist(p))
			assert.False(t, seen[p], "重复格子 %v", p)
			seen[p] = true
		}
	}
	assert.Equal(t, domain.Pos(20, 18), HexBorder(c, 2)[0])
}

func TestRing_FilterBounds与Every(t *testing.T) {
	ring := HexBorder(domain.Pos(0, 0), 1).FilterBounds(10, 10)
	for _, p := range ring {
		assert.True(t, p.InBounds(10, 10))
	}
	full := HexBorder(domain.Pos(5, 5), 2)
	every := full.Every(2)
	require.Len(t, every, 6)
	assert.Equal(t, full[0], every[0])
	assert.Equal(t, full[2], every[1])
}

func TestAssign_不会把两个单位分到同一格(t *testing.T) {
	a := NewAssigner(newTerrain(64, 64), nil)
	plan := a.Assign(domain.Pos(30, 30), 0, movers(40, domain.Pos(10, 10)))

	assert.Empty(t, plan.Unassigned)
	require.Len(t, plan.Assignments, 40)
	cells := map[domain.Position]bool{}
	units := map[domain.UnitID]bool{}
	for _, as := range plan.Assignments {
		assert.False(t, cells[as.Cell], "格子 %v 被重复分配", as.Cell)
		assert.False(t, units[as.Unit], "单位 %d 被重复分配", as.Unit)
		cells[as.Cell] = true
		units[as.Unit] = true
	}
	assert.Equal(t, Assignment{Unit: 1, Cell: domain.Pos(30, 30)}, plan.Assignments[0])
}

func TestAssign_全阻塞地图应终止(t *testing.T) {
	tr := newTerrain(64, 64)
	tr.allBlock = true
	plan := NewAssigner(tr, nil).Assign(domain.Pos(30, 30), 0, movers(3, domain.Pos(1, 1)))

	assert.Empty(t, plan.Assignments)
	assert.Equal(t, []domain.UnitID{1, 2, 3}, plan.Unassigned)
}

func TestAssign_不同分区的格子不分配(t *testing.T) {
	tr := newTerrain(32, 32)
	// 单位所在位置是分区 2，地图内都是分区 1
	tr.partition[domain.Pos(100, 100)] = 2
	plan := NewAssigner(tr, nil).Assign(domain.Pos(16, 16), 0, []Mover{unit{id: 9, pos: domain.Pos(100, 100)}})

	assert.Empty(t, plan.Assignments)
	assert.Equal(t, []domain.UnitID{9}, plan.Unassigned)
}

func TestAssign_船只只去可航行水域(t *testing.T) {
	tr := newTerrain(32, 32)
	tr.water[domain.Pos(10, 12)] = true
	tr.partition[domain.Pos(3, 3)] = 3
	ship := unit{id: 5, pos: domain.Pos(3, 3), ship: true}

	plan := NewAssigner(tr, nil).Assign(domain.Pos(10, 10), 0, []Mover{ship})
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, domain.Pos(10, 12), plan.Assignments[0].Cell)
}

func TestAssign_目标阻塞且有渡船时登船(t *testing.T) {
	tr := newTerrain(32, 32)
	target := domain.Pos(8, 8)
	tr.water[target] = true
	entrance := FerryEntrance{Ferry: 77, Entrance: domain.Pos(7, 8)}
	units := []Mover{
		unit{id: 1, pos: domain.Pos(2, 2), board: true},
		unit{id: 2, pos: domain.Pos(2, 3), board: false},
		unit{id: 3, pos: domain.Pos(2, 4), board: true},
	}

	plan := NewAssigner(tr, ferries{target: entrance}).Assign(target, 0, units)
	require.NotNil(t, plan.Ferry)
	assert.Equal(t, entrance, *plan.Ferry)
	assert.Equal(t, []domain.UnitID{1, 3}, plan.Boarders)
	assert.Equal(t, []domain.UnitID{2}, plan.Unassigned)
	assert.Empty(t, plan.Assignments)
}

func TestAssign_首个单位是船时不走渡船(t *testing.T) {
	tr := newTerrain(32, 32)
	target := domain.Pos(8, 8)
	tr.water[target] = true
	units := []Mover{unit{id: 1, pos: domain.Pos(2, 2), ship: true}}

	plan := NewAssigner(tr, ferries{target: {Ferry: 77}}).Assign(target, 0, units)
	assert.Nil(t, plan.Ferry)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, target, plan.Assignments[0].Cell)
}

func TestAssign_同样输入结果相同(t *testing.T) {
	tr := newTerrain(48, 48)
	for x := 0; x < 48; x += 3 {
		tr.blocked[domain.Pos(x, 20)] = true
	}
	a := NewAssigner(tr, nil)
	first := a.Assign(domain.Pos(20, 20), 0, movers(25, domain.Pos(5, 5)))
	second := a.Assign(domain.Pos(20, 20), 0, movers(25, domain.Pos(5, 5)))
	assert.Equal(t, first, second)
}
