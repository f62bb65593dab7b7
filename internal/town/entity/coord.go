package entity

import "fmt"

// Coord 是整数瓦片坐标 (x, z)，可直接作为稀疏网格的 map 键。
type Coord struct {
	X int `json:"x" bson:"x"`
	Z int `json:"z" bson:"z"`
}

func C(x, z int) Coord {
	return Coord{X: x, Z: z}
}

func (c Coord) Add(dx, dz int) Coord {
	return Coord{X: c.X + dx, Z: c.Z + dz}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Orthogonal 依次是 东、西、南、北。
var Orthogonal = [4]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Surrounding 是 8 邻域（正交 + 对角）。
var Surrounding = [8]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
