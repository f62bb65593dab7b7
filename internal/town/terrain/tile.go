package terrain

// TileType 瓦片地形类型。TileNone 表示越界。
type TileType uint8

const (
	TileNone TileType = iota
	Grass
	Dirt
	Sand
	Water
	Mountain
)

func (t TileType) String() string {
	switch t {
	case Grass:
		return "grass"
	case Dirt:
		return "dirt"
	case Sand:
		return "sand"
	case Water:
		return "water"
	case Mountain:
		return "mountain"
	default:
		return "none"
	}
}

func (t TileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// 高度分档。地形类型只由高度决定，生成后不再改变。
const (
	SandLevel     = 0.0
	GrassLevel    = 0.4
	DirtLevel     = 3.0
	MountainLevel = 4.5
)

func TypeForHeight(h float64) TileType {
	switch {
	case h < SandLevel:
		return Water
	case h < GrassLevel:
		return Sand
	case h < DirtLevel:
		return Grass
	case h < MountainLevel:
		return Dirt
	default:
		return Mountain
	}
}

// Bounds 是闭区间 [MinX,MaxX]×[MinZ,MaxZ]。
type Bounds struct {
	MinX int `json:"minX"`
	MaxX int `json:"maxX"`
	MinZ int `json:"minZ"`
	MaxZ int `json:"maxZ"`
}

func Square(halfSize int) Bounds {
	if halfSize < 0 {
		halfSize = 0
	}
	return Bounds{MinX: -halfSize, MaxX: halfSize, MinZ: -halfSize, MaxZ: halfSize}
}

func (b Bounds) Contains(x, z int) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

func (b Bounds) Width() int {
	return b.MaxX - b.MinX + 1
}

func (b Bounds) Depth() int {
	return b.MaxZ - b.MinZ + 1
}
