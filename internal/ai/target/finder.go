package target

import (
	"Settlers/internal/game/domain"
	"Settlers/internal/world/search"
)

// Statistics AI 选址需要的世界统计，由世界实体实现。
type Statistics interface {
	search.View
	search.PartitionOwner
	Civilisation(player domain.PlayerID) domain.Civilisation
	// ProtectedTiles 该文明下建筑占用的保护格数量。
	ProtectedTiles(building domain.BuildingType, civ domain.Civilisation) int
	BuildingCount(building domain.BuildingType, player domain.PlayerID) int
	// ResourceCountOfPlayer 玩家领地内该资源的格子数。
	ResourceCountOfPlayer(resource domain.ResourceType, player domain.PlayerID) int
	// DefaultPartitionResources 无主领地内有该资源的格子。
	DefaultPartitionResources(resource domain.ResourceType) *search.Frontier
}

// Finder 为先锋选择扩张目标。
type Finder interface {
	FindTarget(border *search.Frontier, center domain.Position) (domain.Position, bool)
}
