package movement

import "Settlers/internal/game/domain"

// ringSides 环的六条边依次行走的方向，起点在 center 正北（NE 方向 r 步）。
var ringSides = [6]domain.Direction{
	domain.SouthEast,
	domain.SouthWest,
	domain.West,
	domain.NorthWest,
	domain.NorthEast,
	domain.East,
}

// Ring 按固定顺序排列的一圈六边形格子。
type Ring []domain.Position

// HexBorder 返回到 center 距离恰好为 radius 的一圈格子，共 6*radius 个；radius 为 0 时只有 center。
// 顺序固定，分配和搜索的确定性依赖它。
func HexBorder(center domain.Position, radius int) Ring {
	if radius <= 0 {
		return Ring{center}
	}
	out := make(Ring, 0, 6*radius)
	cur := center.StepN(domain.NorthEast, radius)
	for _, d := range ringSides {
		for i := 0; i < radius; i++ {
			out = append(out, cur)
			cur = cur.Step(d)
		}
	}
	return out
}

// FilterBounds 去掉地图外的格子，保持顺序。
func (r Ring) FilterBounds(width, height int) Ring {
	out := r[:0:0]
	for _, p := range r {
		if p.InBounds(width, height) {
			out = append(out, p)
		}
	}
	return out
}

// Every 取第 0、n、2n... 个元素。
func (r Ring) Every(n int) Ring {
	if n <= 1 {
		return r
	}
	out := make(Ring, 0, (len(r)+n-1)/n)
	for i := 0; i < len(r); i += n {
		out = append(out, r[i])
	}
	return out
}
