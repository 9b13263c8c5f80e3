package search

import "Settlers/internal/game/domain"

// Predicate 对单个位置的纯判断。
type Predicate func(p domain.Position) bool

// Any 接受所有位置。
func Any(domain.Position) bool { return true }

// And p1 为 false 时不会调用 p2。nil 视为接受所有位置。
func And(p1, p2 Predicate) Predicate {
	switch {
	case p1 == nil && p2 == nil:
		return Any
	case p1 == nil:
		return p2
	case p2 == nil:
		return p1
	}
	return func(p domain.Position) bool {
		return p1(p) && p2(p)
	}
}

// All 从左到右折叠 And。
func All(ps ...Predicate) Predicate {
	out := Predicate(Any)
	for _, p := range ps {
		if p != nil {
			out = And(out, p)
		}
	}
	return out
}

func NotBlocked(v View) Predicate {
	return func(p domain.Position) bool {
		return p.InBounds(v.Width(), v.Height()) && !v.IsBlocked(p)
	}
}

func Navigable(v View) Predicate {
	return func(p domain.Position) bool {
		return p.InBounds(v.Width(), v.Height()) && v.IsNavigable(p)
	}
}

func InPartition(v View, partition int16) Predicate {
	return func(p domain.Position) bool {
		return p.InBounds(v.Width(), v.Height()) && v.BlockedPartition(p) == partition
	}
}

// PartitionOwner 查询玩家主体所在的阻塞分区。
type PartitionOwner interface {
	PlayerBlockedPartition(player domain.PlayerID) (int16, bool)
}

// SamePartitionAsPlayer 位置与玩家处于同一阻塞分区；玩家没有分区时一律拒绝。
// 分区在构造时取一次，搜索期间世界不变。
func SamePartitionAsPlayer(v View, owner PartitionOwner, player domain.PlayerID) Predicate {
	partition, ok := owner.PlayerBlockedPartition(player)
	if !ok {
		return func(domain.Position) bool { return false }
	}
	return InPartition(v, partition)
}

// SurroundedByResource 位置本身及 6 个邻居都在地图内，并且都有该资源（数量 > 0）。
func SurroundedByResource(v View, resource domain.ResourceType) Predicate {
	has := func(p domain.Position) bool {
		if !p.InBounds(v.Width(), v.Height()) {
			return false
		}
		t, amount := v.ResourceAt(p)
		return t == resource && amount > 0
	}
	return func(p domain.Position) bool {
		if !has(p) {
			return false
		}
		for _, n := range p.Neighbours() {
			if !has(n) {
				return false
			}
		}
		return true
	}
}
