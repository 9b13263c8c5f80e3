package search

import (
	"slices"

	"Settlers/internal/game/domain"
	"Settlers/internal/world/movement"
)

// Frontier 有序位置集合（先 Y 后 X），用作玩家边界、资源池等候选点集。
// 只由仿真线程修改，搜索期间只读。
type Frontier struct {
	points []domain.Position
}

func NewFrontier(points ...domain.Position) *Frontier {
	f := &Frontier{}
	for _, p := range points {
		f.Add(p)
	}
	return f
}

func compare(a, b domain.Position) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

// Add 已存在时返回 false。
func (f *Frontier) Add(p domain.Position) bool {
	i, found := slices.BinarySearchFunc(f.points, p, compare)
	if found {
		return false
	}
	f.points = slices.Insert(f.points, i, p)
	return true
}

func (f *Frontier) Remove(p domain.Position) bool {
	i, found := slices.BinarySearchFunc(f.points, p, compare)
	if !found {
		return false
	}
	f.points = slices.Delete(f.points, i, i+1)
	return true
}

func (f *Frontier) Contains(p domain.Position) bool {
	if f == nil {
		return false
	}
	_, found := slices.BinarySearchFunc(f.points, p, compare)
	return found
}

func (f *Frontier) Len() int {
	if f == nil {
		return 0
	}
	return len(f.points)
}

// Points 返回拷贝。
func (f *Frontier) Points() []domain.Position {
	if f == nil {
		return nil
	}
	return slices.Clone(f.points)
}

// NearestPoint 在 radius（含）范围内找离 center 最近且满足 pred 的点；
// 距离相同时取扫描顺序靠前的。pred 为 nil 表示不过滤。
func (f *Frontier) NearestPoint(center domain.Position, radius int, pred Predicate) (domain.Position, bool) {
	if f.Len() == 0 || radius < 0 {
		return domain.Position{}, false
	}
	minY := int(center.Y) - radius
	start, _ := slices.BinarySearchFunc(f.points, minY, func(p domain.Position, y int) int {
		return int(p.Y) - y
	})

	var (
		best     domain.Position
		bestDist = radius + 1
	)
	for _, p := range f.points[start:] {
		if int(p.Y) > int(center.Y)+radius {
			break
		}
		d := center.OnGridDist(p)
		if d >= bestDist {
			continue
		}
		if pred != nil && !pred(p) {
			continue
		}
		best, bestDist = p, d
	}
	return best, bestDist <= radius
}

// ProjectOntoFrontier 把任意目标点映射到 frontier 上最近的点。
func ProjectOntoFrontier(f *Frontier, target domain.Position, radius int) (domain.Position, bool) {
	return f.NearestPoint(target, radius, nil)
}

// NearestMatch 没有候选点集时直接扫地图：从 center 起逐圈外扩，返回第一个满足 pred 的格子。
// 圈内顺序固定，平局由它决定。
func NearestMatch(v View, center domain.Position, radius int, pred Predicate) (domain.Position, bool) {
	if pred == nil {
		pred = Any
	}
	for r := 0; r <= radius; r++ {
		for _, p := range movement.HexBorder(center, r).FilterBounds(v.Width(), v.Height()) {
			if pred(p) {
				return p, true
			}
		}
	}
	return domain.Position{}, false
}
