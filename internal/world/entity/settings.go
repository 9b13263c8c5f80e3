package entity

import (
	"maps"
	"slices"

	"Settlers/internal/game/domain"
)

// PartitionSettings 一个玩家领地分区的经济设置：材料分配、优先级、生产请求、仓库接收、人口限制。
type PartitionSettings struct {
	distribution    map[domain.MaterialType]map[domain.BuildingType]float32
	priorities      []domain.MaterialType
	absolute        map[domain.MaterialType]int
	relative        map[domain.MaterialType]float32
	accepted        map[domain.MaterialType]bool
	movableAmount   map[domain.MovableType]int
	movableRelative map[domain.MovableType]bool

	touch func()
}

// MaxProductionRequest 绝对生产请求上限。
const MaxProductionRequest = 99

func newPartitionSettings(touch func()) *PartitionSettings {
	return &PartitionSettings{
		distribution:    make(map[domain.MaterialType]map[domain.BuildingType]float32),
		absolute:        make(map[domain.MaterialType]int),
		relative:        make(map[domain.MaterialType]float32),
		accepted:        make(map[domain.MaterialType]bool),
		movableAmount:   make(map[domain.MovableType]int),
		movableRelative: make(map[domain.MovableType]bool),
		touch:           touch,
	}
}

func (s *PartitionSettings) dirty() {
	if s.touch != nil {
		s.touch()
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func (s *PartitionSettings) SetDistribution(m domain.MaterialType, b domain.BuildingType, ratio float32) {
	byBuilding, ok := s.distribution[m]
	if !ok {
		byBuilding = make(map[domain.BuildingType]float32)
		s.distribution[m] = byBuilding
	}
	byBuilding[b] = clamp01(ratio)
	s.dirty()
}

func (s *PartitionSettings) Distribution(m domain.MaterialType, b domain.BuildingType) (float32, bool) {
	v, ok := s.distribution[m][b]
	return v, ok
}

// SetPriorities 整体替换材料优先级顺序，重复项保留第一次出现。
func (s *PartitionSettings) SetPriorities(order []domain.MaterialType) {
	seen := make(map[domain.MaterialType]struct{}, len(order))
	next := make([]domain.MaterialType, 0, len(order))
	for _, m := range order {
		if _, ok := seen[m]; ok || m == domain.MaterialNone {
			continue
		}
		seen[m] = struct{}{}
		next = append(next, m)
	}
	s.priorities = next
	s.dirty()
}

func (s *PartitionSettings) Priorities() []domain.MaterialType {
	return slices.Clone(s.priorities)
}

func (s *PartitionSettings) IncreaseAbsoluteProduction(m domain.MaterialType) {
	s.SetAbsoluteProduction(m, s.absolute[m]+1)
}

func (s *PartitionSettings) DecreaseAbsoluteProduction(m domain.MaterialType) {
	s.SetAbsoluteProduction(m, s.absolute[m]-1)
}

func (s *PartitionSettings) SetAbsoluteProduction(m domain.MaterialType, n int) {
	s.absolute[m] = min(max(n, 0), MaxProductionRequest)
	s.dirty()
}

func (s *PartitionSettings) AbsoluteProduction(m domain.MaterialType) int {
	return s.absolute[m]
}

func (s *PartitionSettings) SetRelativeProduction(m domain.MaterialType, ratio float32) {
	s.relative[m] = clamp01(ratio)
	s.dirty()
}

func (s *PartitionSettings) RelativeProduction(m domain.MaterialType) float32 {
	return s.relative[m]
}

// SetAcceptedStockMaterial 分区内仓库的默认接收设置；单个仓库可以单独覆盖。
func (s *PartitionSettings) SetAcceptedStockMaterial(m domain.MaterialType, accepted bool) {
	s.accepted[m] = accepted
	s.dirty()
}

func (s *PartitionSettings) AcceptsStockMaterial(m domain.MaterialType) bool {
	v, ok := s.accepted[m]
	return !ok || v
}

// ChangeMovableSettings relative 时 amount 是增量，否则是目标值；结果不小于 0。
func (s *PartitionSettings) ChangeMovableSettings(t domain.MovableType, relative bool, amount int) {
	next := amount
	if relative {
		next = s.movableAmount[t] + amount
	}
	s.movableAmount[t] = max(next, 0)
	s.dirty()
}

func (s *PartitionSettings) MovableAmount(t domain.MovableType) int {
	return s.movableAmount[t]
}

func (s *PartitionSettings) SetMovableLimitType(t domain.MovableType, relative bool) {
	s.movableRelative[t] = relative
	s.dirty()
}

func (s *PartitionSettings) MovableLimitRelative(t domain.MovableType) bool {
	return s.movableRelative[t]
}

func sortedKeys[K ~uint8, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
