package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/game/domain"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(8, 8)
	w.AddPlayer(NewPlayer(0, domain.CivRoman, 100))
	w.AddPlayer(NewPlayer(1, domain.CivAsian, 0))
	return w
}

func TestRecomputePartitions_按扫描顺序编号(t *testing.T) {
	g := NewGrid(5, 3)
	for y := 0; y < 3; y++ {
		g.Update(domain.Pos(2, y), func(c *Cell) { c.Blocked = true })
	}

	n := g.RecomputePartitions()
	require.Equal(t, 2, n)

	left, _ := g.Cell(domain.Pos(0, 0))
	right, _ := g.Cell(domain.Pos(4, 2))
	wall, _ := g.Cell(domain.Pos(2, 1))
	assert.Equal(t, int16(1), left.Partition)
	assert.Equal(t, int16(2), right.Partition)
	assert.Equal(t, int16(0), wall.Partition)
}

func TestGrid_越界视为阻塞(t *testing.T) {
	w := newTestWorld(t)
	assert.True(t, w.IsBlocked(domain.Pos(-1, 0)))
	assert.True(t, w.IsBlocked(domain.Pos(8, 0)))
	assert.False(t, w.IsNavigable(domain.Pos(0, 99)))
}

func TestRegistry_死亡单位查不到(t *testing.T) {
	w := newTestWorld(t)
	m := w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))

	got, ok := w.Units().Get(m.ID())
	require.True(t, ok)
	assert.Equal(t, m.ID(), got.ID())

	m.Kill()
	_, ok = w.Units().Get(m.ID())
	assert.False(t, ok)
	_, ok = w.Units().Get(999)
	assert.False(t, ok)
}

func TestRegistry_Resolve去重并跳过无效id(t *testing.T) {
	w := newTestWorld(t)
	a := w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))
	b := w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(2, 1))

	got := w.Units().Resolve(domain.Selection{b.ID(), 42, a.ID(), b.ID()})
	require.Len(t, got, 2)
	assert.Equal(t, b.ID(), got[0].ID())
	assert.Equal(t, a.ID(), got[1].ID())
}

func TestRegistry_Insert拒绝重复id(t *testing.T) {
	r := NewMovableRegistry()
	_, err := r.Insert(5, domain.MovableBearer, 0, domain.Pos(0, 0))
	require.NoError(t, err)
	_, err = r.Insert(5, domain.MovableBearer, 0, domain.Pos(0, 0))
	assert.Error(t, err)

	next := r.Spawn(domain.MovableBearer, 0, domain.Pos(0, 0))
	assert.Equal(t, domain.UnitID(6), next.ID())
}

func TestConvert_搬运工转职后能力随之变化(t *testing.T) {
	w := newTestWorld(t)
	m := w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))

	bearer, ok := m.(Bearer)
	require.True(t, ok)
	assert.False(t, bearer.ConvertTo(domain.MovableMage))
	require.True(t, bearer.ConvertTo(domain.MovablePioneer))

	got, ok := w.Units().Get(m.ID())
	require.True(t, ok)
	assert.Equal(t, domain.MovablePioneer, got.Type())
	_, isBearer := got.(Bearer)
	assert.False(t, isBearer)

	pioneer, ok := got.(Pioneer)
	require.True(t, ok)
	pioneer.ConvertToBearer()
	got, _ = w.Units().Get(m.ID())
	assert.Equal(t, domain.MovableBearer, got.Type())
}

func TestGarrison_请求与释放(t *testing.T) {
	w := newTestWorld(t)
	b, err := w.PlaceBuilding(domain.BuildingTower, domain.Pos(3, 3), 0)
	require.NoError(t, err)
	tower, ok := b.(Occupying)
	require.True(t, ok)

	tower.RequestFullSoldiers()
	_, requested := tower.Garrison()
	assert.Len(t, requested, 3)

	tower.RequestSoldier(domain.SoldierBow)
	_, requested = tower.Garrison()
	assert.Len(t, requested, 3, "满员后不再接受请求")

	tower.ReleaseSoldier(domain.SoldierSword)
	_, requested = tower.Garrison()
	assert.Len(t, requested, 2)

	tower.ReleaseSoldiers()
	present, requested := tower.Garrison()
	assert.Empty(t, present)
	assert.Empty(t, requested)
}

func TestBuilding_能力由类型决定(t *testing.T) {
	w := newTestWorld(t)
	harbor, err := w.PlaceBuilding(domain.BuildingHarbor, domain.Pos(1, 1), 0)
	require.NoError(t, err)
	_, isTrading := harbor.(Trading)
	_, isDock := harbor.(DockBuilding)
	_, isDockyard := harbor.(Dockyard)
	assert.True(t, isTrading)
	assert.True(t, isDock)
	assert.False(t, isDockyard)

	lumberjack, err := w.PlaceBuilding(domain.BuildingLumberjack, domain.Pos(2, 2), 0)
	require.NoError(t, err)
	_, isOccupying := lumberjack.(Occupying)
	assert.False(t, isOccupying)
}

func TestDockyard_没有码头不能造船(t *testing.T) {
	w := newTestWorld(t)
	b, err := w.PlaceBuilding(domain.BuildingDockyard, domain.Pos(1, 1), 0)
	require.NoError(t, err)
	yard := b.(Dockyard)

	yard.OrderShip(domain.ShipFerry)
	assert.Empty(t, yard.OrderedShips())

	yard.SetDock(domain.Pos(0, 1))
	yard.OrderShip(domain.ShipCargo)
	assert.Equal(t, []domain.ShipType{domain.ShipCargo}, yard.OrderedShips())
}

func TestTrading_请求数量限制在范围内(t *testing.T) {
	w := newTestWorld(t)
	b, err := w.PlaceBuilding(domain.BuildingMarket, domain.Pos(1, 1), 0)
	require.NoError(t, err)
	market := b.(Trading)

	market.ChangeRequestedMaterial(domain.MaterialCoal, 5, true)
	market.ChangeRequestedMaterial(domain.MaterialCoal, -8, true)
	assert.Equal(t, 0, market.RequestedMaterial(domain.MaterialCoal))

	market.ChangeRequestedMaterial(domain.MaterialCoal, 500, false)
	assert.Equal(t, MaxTradeRequest, market.RequestedMaterial(domain.MaterialCoal))
}

func TestFerry_登船与下船(t *testing.T) {
	w := newTestWorld(t)
	ferry := w.Units().Spawn(domain.MovableFerry, 0, domain.Pos(4, 4)).(Ferry)
	m := w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))

	entrance, ok := w.FerryAt(domain.Pos(4, 4), 0)
	require.True(t, ok)
	assert.Equal(t, ferry.ID(), entrance.Ferry)

	m.(FerryBoarder).MoveToFerry(ferry, entrance.Entrance)
	assert.Equal(t, []domain.UnitID{m.ID()}, ferry.Passengers())

	assert.Equal(t, 1, ferry.Unload())
	assert.Empty(t, ferry.Passengers())
	assert.Equal(t, entrance.Entrance, m.Position())
}

func TestFerry_载客上限(t *testing.T) {
	w := newTestWorld(t)
	ferry := w.Units().Spawn(domain.MovableFerry, 0, domain.Pos(4, 4)).(Ferry)
	for i := 0; i < FerryCapacity; i++ {
		require.True(t, ferry.Board(domain.UnitID(100+i)))
	}
	assert.False(t, ferry.Board(200))
}

func TestManna_升级消耗法力(t *testing.T) {
	p := NewPlayer(0, domain.CivRoman, 30)
	require.True(t, p.Manna.Upgrade(domain.SoldierBow))
	require.True(t, p.Manna.Upgrade(domain.SoldierBow))
	assert.Equal(t, 0, p.Manna.Amount())
	assert.Equal(t, uint8(2), p.Manna.Level(domain.SoldierBow))
	assert.False(t, p.Manna.Upgrade(domain.SoldierBow))
}

func TestSettings_优先级去重(t *testing.T) {
	w := newTestWorld(t)
	s, ok := w.Settings(0)
	require.True(t, ok)
	s.SetPriorities([]domain.MaterialType{domain.MaterialCoal, domain.MaterialNone, domain.MaterialIron, domain.MaterialCoal})
	assert.Equal(t, []domain.MaterialType{domain.MaterialCoal, domain.MaterialIron}, s.Priorities())

	s.DecreaseAbsoluteProduction(domain.MaterialSword)
	assert.Equal(t, 0, s.AbsoluteProduction(domain.MaterialSword))
	s.SetRelativeProduction(domain.MaterialBow, 3)
	assert.Equal(t, float32(1), s.RelativeProduction(domain.MaterialBow))
}

func TestHasLost_未知玩家视为出局(t *testing.T) {
	w := newTestWorld(t)
	assert.False(t, w.HasLost(0))
	assert.True(t, w.HasLost(7))
	require.True(t, w.MarkLost(1))
	assert.True(t, w.HasLost(1))
	assert.False(t, w.MarkLost(1))
}

func TestBorder_领地边缘(t *testing.T) {
	w := NewWorld(5, 5)
	w.AddPlayer(NewPlayer(0, domain.CivRoman, 0))
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			w.SetOwner(domain.Pos(x, y), 0)
		}
	}
	border := w.Border(0)
	assert.Equal(t, 8, border.Len())
	assert.False(t, border.Contains(domain.Pos(2, 2)))
}

func TestDigest_相同操作得到相同值(t *testing.T) {
	build := func() *World {
		w := newTestWorld(t)
		w.Grid().Update(domain.Pos(3, 0), func(c *Cell) { c.Resource, c.Amount = domain.ResourceCoal, 4 })
		w.Grid().RecomputePartitions()
		m := w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))
		m.MoveTo(domain.Pos(2, 2), domain.MoveToForced)
		b, _ := w.PlaceBuilding(domain.BuildingStock, domain.Pos(5, 5), 1)
		b.(Stock).SetAcceptedMaterial(domain.MaterialFish, false)
		s, _ := w.Settings(0)
		s.SetDistribution(domain.MaterialCoal, domain.BuildingSawmill, 0.5)
		s.SetDistribution(domain.MaterialIron, domain.BuildingCastle, 0.25)
		return w
	}

	a, b := build(), build()
	assert.Equal(t, a.Digest(), b.Digest())

	m, _ := b.Units().Get(1)
	m.SetWorking(true)
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestBuildPersistSnapshot_导出全部单位和建筑(t *testing.T) {
	w := newTestWorld(t)
	w.Units().Spawn(domain.MovableBearer, 0, domain.Pos(1, 1))
	w.Units().Spawn(domain.MovableMage, 1, domain.Pos(2, 1)).Kill()
	_, err := w.PlaceBuilding(domain.BuildingTower, domain.Pos(4, 4), 0)
	require.NoError(t, err)

	s := w.BuildPersistSnapshot("s1", 3, 10)
	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, uint64(3), s.Version)
	assert.Equal(t, w.Digest(), s.Digest)
	require.Len(t, s.Units, 2)
	assert.False(t, s.Units[1].Alive)
	require.Len(t, s.Buildings, 1)
	assert.Len(t, s.Players, 2)
}
