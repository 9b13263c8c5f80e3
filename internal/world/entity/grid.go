package entity

import "Settlers/internal/game/domain"

// NoOwner 无主领地。
const NoOwner int8 = -1

// Cell 单个格子的地形状态。
type Cell struct {
	Blocked   bool
	Water     bool
	Partition int16 // 阻塞分区 id，阻塞格和水域为 0
	Resource  domain.ResourceType
	Amount    uint8
	Owner     int8
}

// Grid 地形网格，按行存储。
type Grid struct {
	width, height int
	cells         []Cell
}

func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, cells: make([]Cell, width*height)}
	for i := range g.cells {
		g.cells[i].Owner = NoOwner
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(p domain.Position) (int, bool) {
	if !p.InBounds(g.width, g.height) {
		return 0, false
	}
	return int(p.Y)*g.width + int(p.X), true
}

// Cell 越界返回零值（视为阻塞）。
func (g *Grid) Cell(p domain.Position) (Cell, bool) {
	i, ok := g.index(p)
	if !ok {
		return Cell{Blocked: true, Owner: NoOwner}, false
	}
	return g.cells[i], true
}

// Update 修改格子；越界忽略。修改阻塞/水域后需要 RecomputePartitions。
func (g *Grid) Update(p domain.Position, fn func(c *Cell)) bool {
	i, ok := g.index(p)
	if !ok {
		return false
	}
	fn(&g.cells[i])
	return true
}

func (g *Grid) walkable(i int) bool {
	return !g.cells[i].Blocked && !g.cells[i].Water
}

// RecomputePartitions 按扫描顺序洪泛填充，给连通的可行走区域分配分区 id（从 1 开始）。
// 同样的地形总是得到同样的编号。
func (g *Grid) RecomputePartitions() int {
	for i := range g.cells {
		g.cells[i].Partition = 0
	}
	var next int16
	queue := make([]domain.Position, 0, 64)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			start := domain.Pos(x, y)
			si, _ := g.index(start)
			if !g.walkable(si) || g.cells[si].Partition != 0 {
				continue
			}
			next++
			g.cells[si].Partition = next
			queue = append(queue[:0], start)
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, n := range cur.Neighbours() {
					ni, ok := g.index(n)
					if !ok || !g.walkable(ni) || g.cells[ni].Partition != 0 {
						continue
					}
					g.cells[ni].Partition = next
					queue = append(queue, n)
				}
			}
		}
	}
	return int(next)
}
