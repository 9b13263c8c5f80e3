package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/game/domain"
	"Settlers/internal/world/search"
)

type stubStats struct {
	w, h        int
	resources   map[domain.Position]domain.ResourceType
	pool        *search.Frontier
	playerCount int
	buildings   int
	protected   int
	partition   map[domain.PlayerID]int16

	cellReads int
}

func newStats() *stubStats {
	return &stubStats{
		w: 64, h: 64,
		resources: map[domain.Position]domain.ResourceType{},
		pool:      search.NewFrontier(),
		protected: 6,
		partition: map[domain.PlayerID]int16{0: 0},
	}
}

// addDeposit 以 center 为中心铺一块 7 格的资源并加入无主资源池。
func (s *stubStats) addDeposit(center domain.Position, rt domain.ResourceType) {
	ns := center.Neighbours()
	for _, p := range append(ns[:], center) {
		s.resources[p] = rt
		s.pool.Add(p)
	}
}

func (s *stubStats) Width() int                         { return s.w }
func (s *stubStats) Height() int                        { return s.h }
func (s *stubStats) IsBlocked(domain.Position) bool     { s.cellReads++; return false }
func (s *stubStats) IsNavigable(domain.Position) bool   { s.cellReads++; return false }
func (s *stubStats) BlockedPartition(domain.Position) int16 {
	s.cellReads++
	return 0
}
func (s *stubStats) ResourceAt(p domain.Position) (domain.ResourceType, uint8) {
	s.cellReads++
	rt, ok := s.resources[p]
	if !ok {
		return domain.ResourceNone, 0
	}
	return rt, 5
}
func (s *stubStats) PlayerBlockedPartition(p domain.PlayerID) (int16, bool) {
	v, ok := s.partition[p]
	return v, ok
}
func (s *stubStats) Civilisation(domain.PlayerID) domain.Civilisation { return domain.CivRoman }
func (s *stubStats) ProtectedTiles(domain.BuildingType, domain.Civilisation) int {
	return s.protected
}
func (s *stubStats) BuildingCount(domain.BuildingType, domain.PlayerID) int { return s.buildings }
func (s *stubStats) ResourceCountOfPlayer(domain.ResourceType, domain.PlayerID) int {
	return s.playerCount
}
func (s *stubStats) DefaultPartitionResources(domain.ResourceType) *search.Frontier {
	return s.pool
}

func TestMineTargetFinder_找到资源后映射到边界(t *testing.T) {
	stats := newStats()
	stats.addDeposit(domain.Pos(20, 20), domain.ResourceCoal)
	border := search.NewFrontier(domain.Pos(16, 20), domain.Pos(10, 10))

	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingCoalMine)
	got, ok := f.FindTarget(border, domain.Pos(12, 12))
	require.True(t, ok)
	assert.Equal(t, domain.Pos(16, 20), got)
}

func TestMineTargetFinder_资源达到上限时不扫描(t *testing.T) {
	stats := newStats()
	stats.addDeposit(domain.Pos(20, 20), domain.ResourceCoal)
	stats.buildings = 1
	// cap = 6*2*(1+1) = 24
	stats.playerCount = 24

	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingCoalMine)
	assert.Equal(t, 24, f.ResourceCap())
	stats.cellReads = 0

	_, ok := f.FindTarget(search.NewFrontier(domain.Pos(16, 20)), domain.Pos(12, 12))
	assert.False(t, ok)
	assert.Equal(t, 0, stats.cellReads, "达到上限时不应读取任何格子")

	stats.playerCount = 23
	_, ok = f.FindTarget(search.NewFrontier(domain.Pos(16, 20)), domain.Pos(12, 12))
	assert.True(t, ok)
}

func TestMineTargetFinder_无主资源池为空(t *testing.T) {
	stats := newStats()
	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingIronMine)
	_, ok := f.FindTarget(search.NewFrontier(domain.Pos(1, 1)), domain.Pos(1, 1))
	assert.False(t, ok)
}

func TestMineTargetFinder_资源不成片不选(t *testing.T) {
	stats := newStats()
	// 只有单格资源，邻居没有
	stats.resources[domain.Pos(20, 20)] = domain.ResourceGold
	stats.pool.Add(domain.Pos(20, 20))

	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingGoldMine)
	_, ok := f.FindTarget(search.NewFrontier(domain.Pos(18, 20)), domain.Pos(18, 20))
	assert.False(t, ok)
}

func TestMineTargetFinder_玩家不在同一分区(t *testing.T) {
	stats := newStats()
	stats.addDeposit(domain.Pos(20, 20), domain.ResourceCoal)
	stats.partition[0] = 7

	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingCoalMine)
	_, ok := f.FindTarget(search.NewFrontier(domain.Pos(16, 20)), domain.Pos(12, 12))
	assert.False(t, ok)
}

func TestMineTargetFinder_表达式过滤(t *testing.T) {
	stats := newStats()
	stats.addDeposit(domain.Pos(20, 20), domain.ResourceCoal)
	filter, err := search.CompileFilter("X > 40")
	require.NoError(t, err)

	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingCoalMine, WithFilter(filter))
	_, ok := f.FindTarget(search.NewFrontier(domain.Pos(16, 20)), domain.Pos(12, 12))
	assert.False(t, ok)
}

func TestMineTargetFinder_非矿井建筑(t *testing.T) {
	stats := newStats()
	stats.addDeposit(domain.Pos(20, 20), domain.ResourceCoal)
	f := NewMineTargetFinder(stats, 0, 30, domain.BuildingSawmill)
	_, ok := f.FindTarget(search.NewFrontier(domain.Pos(16, 20)), domain.Pos(12, 12))
	assert.False(t, ok)
}

func TestCompileFilters_按资源名编译(t *testing.T) {
	filters, err := CompileFilters(map[string]string{"coal": "ResourceAmount >= 4", "Iron": "!Blocked"})
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, "ResourceAmount >= 4", filters[domain.ResourceCoal].String())
	assert.Contains(t, filters, domain.ResourceIron)

	_, err = CompileFilters(map[string]string{"mithril": "true"})
	assert.Error(t, err)
	_, err = CompileFilters(map[string]string{"coal": "ResourceAmount >="})
	assert.Error(t, err)
}
