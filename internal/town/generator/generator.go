package generator

import (
	"math"
	"math/rand/v2"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/placement"
	"TownBuilder/internal/town/terrain"
)

type Config struct {
	// 四个方向主路长度
	RoadLength int
	// 主路每格长出支路的概率，支路长 3~5
	BranchChance float64
	Connectors   int
	// 普通建筑数量
	BuildingQuota int
	// 普通建筑的尝试上限，到达后跳过剩余配额
	MaxBuildAttempts int
	ChurchAttempts   int
	AirportAttempts  int
}

func DefaultConfig() Config {
	return Config{
		RoadLength:       12,
		BranchChance:     0.3,
		Connectors:       5,
		BuildingQuota:    28,
		MaxBuildAttempts: 2000,
		ChurchAttempts:   200,
		AirportAttempts:  100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RoadLength <= 0 {
		c.RoadLength = d.RoadLength
	}
	if c.BranchChance <= 0 {
		c.BranchChance = d.BranchChance
	}
	if c.Connectors < 0 {
		c.Connectors = 0
	}
	if c.BuildingQuota < 0 {
		c.BuildingQuota = 0
	}
	if c.MaxBuildAttempts <= 0 {
		c.MaxBuildAttempts = d.MaxBuildAttempts
	}
	if c.ChurchAttempts <= 0 {
		c.ChurchAttempts = d.ChurchAttempts
	}
	if c.AirportAttempts <= 0 {
		c.AirportAttempts = d.AirportAttempts
	}
	return c
}

// Report 记录一次生成的结果。Shortfall 是因尝试上限未放下的普通建筑数量。
type Report struct {
	Roads     int          `json:"roads"`
	Buildings int          `json:"buildings"`
	Attempts  int          `json:"attempts"`
	Shortfall int          `json:"shortfall"`
	Church    bool         `json:"church"`
	Airport   bool         `json:"airport"`
	AirportAt entity.Coord `json:"airportAt"`
}

// Generator 一次性铺设初始城镇，全部使用免费放置，不动用启动资金。
type Generator struct {
	cfg    Config
	engine *placement.Engine
	bounds terrain.Bounds
	rng    *rand.Rand
	roads  []entity.Coord
	report Report
}

func New(cfg Config, engine *placement.Engine, bounds terrain.Bounds, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg.withDefaults(), engine: engine, bounds: bounds, rng: rng}
}

func (g *Generator) Run() Report {
	g.report = Report{}
	g.roads = g.roads[:0]

	g.layCenter()
	g.growRoads()
	g.fillBuildings()
	g.placeChurch()
	g.placeAirport()
	return g.report
}

func (g *Generator) placeRoad(p entity.Coord) bool {
	if !g.engine.Place(p.X, p.Z, building.Road, building.TypeRoad, true) {
		return false
	}
	g.roads = append(g.roads, p)
	g.report.Roads++
	return true
}

func (g *Generator) placeBuilding(p entity.Coord, c entity.Category, typ string) bool {
	if !g.engine.Place(p.X, p.Z, c, typ, true) {
		return false
	}
	g.report.Buildings++
	return true
}

// layCenter 原点一圈道路，中心放市政厅。
func (g *Generator) layCenter() {
	for _, d := range entity.Surrounding {
		g.placeRoad(d)
	}
	g.placeBuilding(entity.C(0, 0), building.Civic, building.TypeTownHall)
}

func (g *Generator) growRoads() {
	for _, dir := range entity.Orthogonal {
		for i := 2; i <= g.cfg.RoadLength; i++ {
			p := entity.C(dir.X*i, dir.Z*i)
			if !g.placeRoad(p) {
				continue
			}
			if g.rng.Float64() < g.cfg.BranchChance {
				// 垂直方向：交换 x/z，随机取正负
				side := 1
				if g.rng.IntN(2) == 0 {
					side = -1
				}
				g.layLine(p, entity.C(dir.Z*side, dir.X*side), 3+g.rng.IntN(3))
			}
		}
	}
	for i := 0; i < g.cfg.Connectors && len(g.roads) > 0; i++ {
		from := g.roads[g.rng.IntN(len(g.roads))]
		dir := entity.Orthogonal[g.rng.IntN(len(entity.Orthogonal))]
		g.layLine(from, dir, 2+g.rng.IntN(3))
	}
}

func (g *Generator) layLine(from, dir entity.Coord, n int) {
	p := from
	for i := 0; i < n; i++ {
		p = p.Add(dir.X, dir.Z)
		g.placeRoad(p)
	}
}

// fillBuildings 随机挑一段路，在它空着的正交邻格放建筑，方向打乱，先成功者为准。
func (g *Generator) fillBuildings() {
	if len(g.roads) == 0 {
		g.report.Shortfall = g.cfg.BuildingQuota
		return
	}
	placed := 0
	for placed < g.cfg.BuildingQuota && g.report.Attempts < g.cfg.MaxBuildAttempts {
		g.report.Attempts++
		road := g.roads[g.rng.IntN(len(g.roads))]
		for _, d := range g.shuffledDirs() {
			p := road.Add(d.X, d.Z)
			if g.engine.Occupied(p.X, p.Z) {
				continue
			}
			c := g.categoryFor(p)
			def, ok := g.engine.Registry().FirstType(c)
			if !ok {
				continue
			}
			if g.placeBuilding(p, c, def.Type) {
				placed++
				break
			}
		}
	}
	g.report.Shortfall = g.cfg.BuildingQuota - placed
}

var (
	innerRing  = []entity.Category{building.Civic, building.Commercial, building.Recreational}
	middleRing = []entity.Category{building.Residential, building.Commercial, building.Industrial, building.Civic, building.Recreational, building.Agricultural}
	outerRing  = []entity.Category{building.Industrial, building.Residential}
)

// categoryFor 按离原点的欧氏距离分三圈选类别。
func (g *Generator) categoryFor(p entity.Coord) entity.Category {
	d := math.Hypot(float64(p.X), float64(p.Z))
	r := float64(g.cfg.RoadLength)
	pool := outerRing
	switch {
	case d < r/3:
		pool = innerRing
	case d < r*2/3:
		pool = middleRing
	}
	return pool[g.rng.IntN(len(pool))]
}

func (g *Generator) shuffledDirs() [4]entity.Coord {
	dirs := entity.Orthogonal
	g.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	return dirs
}

func (g *Generator) placeChurch() {
	if len(g.roads) == 0 {
		return
	}
	for i := 0; i < g.cfg.ChurchAttempts; i++ {
		road := g.roads[g.rng.IntN(len(g.roads))]
		for _, d := range g.shuffledDirs() {
			p := road.Add(d.X, d.Z)
			if g.placeBuilding(p, building.Civic, building.TypeChurch) {
				g.report.Church = true
				return
			}
		}
	}
}

// placeAirport 拒绝采样找平整草地，再铺一条 L 形通路连到最近的道路。
func (g *Generator) placeAirport() {
	for i := 0; i < g.cfg.AirportAttempts; i++ {
		p := entity.C(
			g.bounds.MinX+g.rng.IntN(g.bounds.Width()),
			g.bounds.MinZ+g.rng.IntN(g.bounds.Depth()),
		)
		if g.engine.Occupied(p.X, p.Z) || !g.engine.AirportSiteOK(p.X, p.Z) {
			continue
		}
		g.layAccessRoad(p)
		if g.placeBuilding(p, building.Transport, building.TypeAirport) {
			g.report.Airport = true
			g.report.AirportAt = p
			return
		}
	}
}

func (g *Generator) layAccessRoad(site entity.Coord) {
	target, ok := g.nearestRoad(site)
	if !ok {
		return
	}
	start := site
	best := math.MaxInt
	for _, d := range entity.Orthogonal {
		n := site.Add(d.X, d.Z)
		if dist := manhattan(n, target); dist < best {
			best, start = dist, n
		}
	}

	p := start
	for {
		if !g.engine.Occupied(p.X, p.Z) {
			g.placeRoad(p)
		}
		if p == target {
			return
		}
		switch {
		case p.X != target.X:
			p.X += sign(target.X - p.X)
		default:
			p.Z += sign(target.Z - p.Z)
		}
	}
}

func (g *Generator) nearestRoad(from entity.Coord) (entity.Coord, bool) {
	var (
		best  entity.Coord
		dist  = math.MaxInt
		found bool
	)
	for _, b := range g.engine.BuildingsByCategory(building.Road) {
		if !b.IsRoad() {
			continue
		}
		if d := manhattan(from, b.Pos); d < dist {
			best, dist, found = b.Pos, d, true
		}
	}
	return best, found
}

func manhattan(a, b entity.Coord) int {
	return abs(a.X-b.X) + abs(a.Z-b.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
