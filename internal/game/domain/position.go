package domain

import "fmt"

// MaxPlayers 一局游戏允许的最大玩家数。
const MaxPlayers = 32

type PlayerID int8

type UnitID int32

// Position 网格坐标。地图使用六边形网格的轴向坐标表示，
// 邻居方向为 E(1,0) SE(1,1) SW(0,1) W(-1,0) NW(-1,-1) NE(0,-1)。
type Position struct {
	X int16 `json:"x" yaml:"x" bson:"x"`
	Y int16 `json:"y" yaml:"y" bson:"y"`
}

func Pos(x, y int) Position {
	return Position{X: int16(x), Y: int16(y)}
}

// Direction 六边形网格上的单步位移。
type Direction struct {
	DX, DY int16
}

var (
	East      = Direction{1, 0}
	SouthEast = Direction{1, 1}
	SouthWest = Direction{0, 1}
	West      = Direction{-1, 0}
	NorthWest = Direction{-1, -1}
	NorthEast = Direction{0, -1}
)

// Directions 固定顺序，所有遍历邻居的代码都依赖这个顺序保证确定性。
var Directions = [6]Direction{East, SouthEast, SouthWest, West, NorthWest, NorthEast}

func (p Position) Step(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

func (p Position) StepN(d Direction, n int) Position {
	return Position{X: p.X + d.DX*int16(n), Y: p.Y + d.DY*int16(n)}
}

// Neighbours 按 Directions 顺序返回 6 个邻居（不做边界过滤）。
func (p Position) Neighbours() [6]Position {
	var out [6]Position
	for i, d := range Directions {
		out[i] = p.Step(d)
	}
	return out
}

// OnGridDist 六边形网格上的步数距离。
func (p Position) OnGridDist(o Position) int {
	dx := int(o.X) - int(p.X)
	dy := int(o.Y) - int(p.Y)
	if (dx >= 0) == (dy >= 0) {
		return max(abs(dx), abs(dy))
	}
	return abs(dx) + abs(dy)
}

func (p Position) InBounds(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && int(p.X) < width && int(p.Y) < height
}

// Less 扫描顺序：先 Y 后 X。搜索的平局裁决依赖它。
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
