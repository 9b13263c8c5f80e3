package target

import (
	"Settlers/internal/game/domain"
	"Settlers/internal/world/search"
)

// MineTargetFinder 找无主领地里适合建矿的位置，再映射到玩家边界上最近的点。
type MineTargetFinder struct {
	stats       Statistics
	player      domain.PlayerID
	distance    int
	building    domain.BuildingType
	resource    domain.ResourceType
	neededSpace int
	filters     search.Predicate
}

type Option func(*MineTargetFinder)

// WithFilter 追加配置里的表达式过滤，放在内置过滤之后求值。
func WithFilter(f *search.Filter) Option {
	return func(m *MineTargetFinder) {
		if f != nil {
			m.filters = search.And(m.filters, f.Bind(m.stats))
		}
	}
}

func NewMineTargetFinder(stats Statistics, player domain.PlayerID, distance int, building domain.BuildingType, opts ...Option) *MineTargetFinder {
	m := &MineTargetFinder{
		stats:       stats,
		player:      player,
		distance:    distance,
		building:    building,
		resource:    building.MineResource(),
		neededSpace: stats.ProtectedTiles(building, stats.Civilisation(player)) * 2,
	}
	m.filters = search.And(
		search.SamePartitionAsPlayer(stats, stats, player),
		search.SurroundedByResource(stats, m.resource),
	)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ResourceCap 玩家已有资源达到该值就不再扩张：每座矿（含将要建的这座）需要 neededSpace 格。
func (m *MineTargetFinder) ResourceCap() int {
	return m.neededSpace * (m.stats.BuildingCount(m.building, m.player) + 1)
}

func (m *MineTargetFinder) FindTarget(border *search.Frontier, center domain.Position) (domain.Position, bool) {
	if m.resource == domain.ResourceNone {
		return domain.Position{}, false
	}
	pool := m.stats.DefaultPartitionResources(m.resource)
	if pool.Len() == 0 {
		return domain.Position{}, false
	}
	if m.stats.ResourceCountOfPlayer(m.resource, m.player) >= m.ResourceCap() {
		return domain.Position{}, false
	}
	abroad, ok := pool.NearestPoint(center, m.distance, m.filters)
	if !ok {
		return domain.Position{}, false
	}
	return border.NearestPoint(abroad, m.distance, nil)
}
