package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Terrain 是生成后只读的高度/地形网格。越界查询返回哨兵值而不是错误。
type Terrain struct {
	bounds  Bounds
	seed    int64
	heights []float64
	types   []TileType
}

func (t *Terrain) index(x, z int) (int, bool) {
	if t == nil || !t.bounds.Contains(x, z) {
		return 0, false
	}
	return (z-t.bounds.MinZ)*t.bounds.Width() + (x - t.bounds.MinX), true
}

func (t *Terrain) TileType(x, z int) (TileType, bool) {
	i, ok := t.index(x, z)
	if !ok {
		return TileNone, false
	}
	return t.types[i], true
}

func (t *Terrain) TileHeight(x, z int) (float64, bool) {
	i, ok := t.index(x, z)
	if !ok {
		return 0, false
	}
	return t.heights[i], true
}

// IsBuildableTile 只有高度 > 0 的草地和泥地可以建造。
func (t *Terrain) IsBuildableTile(x, z int) bool {
	i, ok := t.index(x, z)
	if !ok {
		return false
	}
	tt := t.types[i]
	return (tt == Grass || tt == Dirt) && t.heights[i] > 0
}

func (t *Terrain) Bounds() Bounds {
	return t.bounds
}

func (t *Terrain) Seed() int64 {
	return t.seed
}

// Options 地形生成参数，零值字段取默认。
type Options struct {
	Seed     int64
	HalfSize int

	// 噪声采样缩放，越小地形越平缓
	Scale float64
	// 噪声高度振幅
	Amplitude float64
	// 中心高地：半径内高度向 PlateauHeight 插值，保证原点附近是平整草地
	PlateauRadius float64
	PlateauHeight float64
}

const (
	DefaultHalfSize      = 32
	DefaultScale         = 0.08
	DefaultAmplitude     = 7.0
	DefaultPlateauRadius = 14.0
	DefaultPlateauHeight = 1.5
)

func (o Options) withDefaults() Options {
	if o.HalfSize <= 0 {
		o.HalfSize = DefaultHalfSize
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Amplitude <= 0 {
		o.Amplitude = DefaultAmplitude
	}
	if o.PlateauRadius <= 0 {
		o.PlateauRadius = DefaultPlateauRadius
	}
	if o.PlateauHeight <= 0 {
		o.PlateauHeight = DefaultPlateauHeight
	}
	return o
}

// Generate 同一 seed 生成完全相同的地形。
func Generate(opts Options) *Terrain {
	opts = opts.withDefaults()
	noise := perlin.NewPerlin(2, 2, 3, opts.Seed)

	t := FromFunc(Square(opts.HalfSize), func(x, z int) float64 {
		h := noise.Noise2D(float64(x)*opts.Scale, float64(z)*opts.Scale) * opts.Amplitude
		d := math.Hypot(float64(x), float64(z))
		if d < opts.PlateauRadius {
			// smoothstep 过渡，d=0 处正好是 PlateauHeight
			w := d / opts.PlateauRadius
			w = w * w * (3 - 2*w)
			h = opts.PlateauHeight*(1-w) + h*w
		}
		return h
	})
	t.seed = opts.Seed
	return t
}

// FromFunc 用任意高度函数构造地形，地形类型由 TypeForHeight 推出。
func FromFunc(b Bounds, height func(x, z int) float64) *Terrain {
	return FromTiles(b, func(x, z int) (TileType, float64) {
		h := height(x, z)
		return TypeForHeight(h), h
	})
}

// FromTiles 直接指定每格的类型与高度，测试和固定地图用。
func FromTiles(b Bounds, tile func(x, z int) (TileType, float64)) *Terrain {
	n := b.Width() * b.Depth()
	if n < 0 {
		n = 0
	}
	t := &Terrain{
		bounds:  b,
		heights: make([]float64, n),
		types:   make([]TileType, n),
	}
	for z := b.MinZ; z <= b.MaxZ; z++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			i, _ := t.index(x, z)
			t.types[i], t.heights[i] = tile(x, z)
		}
	}
	return t
}
