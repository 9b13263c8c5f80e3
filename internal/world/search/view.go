package search

import "Settlers/internal/game/domain"

// View 搜索用到的只读世界视图，谓词在求值期间不会修改它。
type View interface {
	Width() int
	Height() int
	IsBlocked(p domain.Position) bool
	IsNavigable(p domain.Position) bool
	BlockedPartition(p domain.Position) int16
	ResourceAt(p domain.Position) (domain.ResourceType, uint8)
}
