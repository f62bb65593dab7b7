package placement

import (
	"math"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/terrain"
)

const (
	// 机场四邻高差上限
	airportFlatness = 0.3
	// 机场周围不允许出现山地/泥地的扫描半径
	airportBuffer = 5
)

// Check 按固定优先级校验，返回第一条失败原因。
//
//  1. 已占用
//  2. 机场：草地 + 四邻平整 + 5 格内无山地泥地
//  3. 农田：草地 + 8 邻有农舍，满足即通过，不再看后续规则
//  4. 地形可建造（港口/水渠/桥可以建在水上）
//  5. 道路类不要求邻路
//  6. 其余要求 8 邻内有道路（水渠不算）
func (e *Engine) Check(x, z int, category entity.Category, typ string) Reason {
	pos := entity.C(x, z)
	if _, ok := e.grid[pos]; ok {
		return ReasonOccupied
	}
	if _, ok := e.registry.Lookup(category, typ); !ok {
		return ReasonUnknownType
	}

	if typ == building.TypeAirport && !e.AirportSiteOK(x, z) {
		return ReasonAirportTerrain
	}

	if typ == building.TypeFarmField {
		if tt, _ := e.terrain.TileType(x, z); tt == terrain.Grass && e.hasNeighborType(pos, building.TypeFarmHouse) {
			return ReasonOK
		}
		return ReasonFarmHouseMissing
	}

	if !e.terrainOK(pos, typ) {
		return ReasonTerrain
	}

	if category == building.Road {
		return ReasonOK
	}

	if !e.nearRoad(pos) {
		return ReasonNoRoad
	}
	return ReasonOK
}

func (e *Engine) CanPlace(x, z int, category entity.Category, typ string) bool {
	return e.Check(x, z, category, typ).OK()
}

// AirportSiteOK 只看地形，不看占用。生成器的拒绝采样也用它。
func (e *Engine) AirportSiteOK(x, z int) bool {
	tt, ok := e.terrain.TileType(x, z)
	if !ok || tt != terrain.Grass {
		return false
	}
	h, _ := e.terrain.TileHeight(x, z)
	for _, d := range entity.Orthogonal {
		nh, ok := e.terrain.TileHeight(x+d.X, z+d.Z)
		if !ok || math.Abs(nh-h) > airportFlatness {
			return false
		}
	}
	for dz := -airportBuffer; dz <= airportBuffer; dz++ {
		for dx := -airportBuffer; dx <= airportBuffer; dx++ {
			nt, _ := e.terrain.TileType(x+dx, z+dz)
			if nt == terrain.Mountain || nt == terrain.Dirt {
				return false
			}
		}
	}
	return true
}

func (e *Engine) terrainOK(pos entity.Coord, typ string) bool {
	tt, _ := e.terrain.TileType(pos.X, pos.Z)
	if !e.terrain.IsBuildableTile(pos.X, pos.Z) {
		if tt != terrain.Water {
			return false
		}
		switch typ {
		case building.TypePort:
			return e.isAdjacentToLand(pos)
		case building.TypeWaterChannel:
			return true
		case building.TypeBridge:
			return e.hasRoadConnectionsForBridge(pos)
		default:
			return false
		}
	}
	if typ == building.TypeWaterChannel {
		return e.adjacentToWater(pos)
	}
	return true
}

// isAdjacentToLand 正交四邻里有非水瓦片。
func (e *Engine) isAdjacentToLand(pos entity.Coord) bool {
	for _, d := range entity.Orthogonal {
		n := pos.Add(d.X, d.Z)
		if tt, ok := e.terrain.TileType(n.X, n.Z); ok && tt != terrain.Water {
			return true
		}
	}
	return false
}

// adjacentToWater 正交四邻里有水瓦片或已有水渠。
func (e *Engine) adjacentToWater(pos entity.Coord) bool {
	for _, d := range entity.Orthogonal {
		n := pos.Add(d.X, d.Z)
		if tt, _ := e.terrain.TileType(n.X, n.Z); tt == terrain.Water {
			return true
		}
		if b, ok := e.grid[n]; ok && b.Type == building.TypeWaterChannel {
			return true
		}
	}
	return false
}

// hasRoadConnectionsForBridge 东西两侧或南北两侧同时有路/桥。
func (e *Engine) hasRoadConnectionsForBridge(pos entity.Coord) bool {
	road := func(dx, dz int) bool {
		b, ok := e.grid[pos.Add(dx, dz)]
		return ok && b.IsRoad()
	}
	return (road(1, 0) && road(-1, 0)) || (road(0, 1) && road(0, -1))
}

func (e *Engine) nearRoad(pos entity.Coord) bool {
	for _, d := range entity.Surrounding {
		if b, ok := e.grid[pos.Add(d.X, d.Z)]; ok && b.IsRoad() {
			return true
		}
	}
	return false
}

func (e *Engine) hasNeighborType(pos entity.Coord, typ string) bool {
	for _, d := range entity.Surrounding {
		if b, ok := e.grid[pos.Add(d.X, d.Z)]; ok && b.Type == typ {
			return true
		}
	}
	return false
}
