package placement

import (
	"maps"
	"math/rand/v2"
	"testing"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/terrain"
	"TownBuilder/modules/kit/errx"
)

// 平整草地，x==5 是一条南北向的河，(8,-8) 是山。
func riverTerrain() *terrain.Terrain {
	return terrain.FromTiles(terrain.Square(20), func(x, z int) (terrain.TileType, float64) {
		switch {
		case x == 5:
			return terrain.Water, -1
		case x == 8 && z == -8:
			return terrain.Mountain, 6
		default:
			return terrain.Grass, 1
		}
	})
}

func flatTerrain() *terrain.Terrain {
	return terrain.FromTiles(terrain.Square(20), func(x, z int) (terrain.TileType, float64) {
		return terrain.Grass, 1
	})
}

func newEngineOn(t *terrain.Terrain) (*Engine, *entity.Ledger, *[]string) {
	ledger := entity.NewLedger(1, 50000, 10)
	bus := entity.NewBus()
	var names []string
	bus.Subscribe(func(e entity.Event) { names = append(names, e.EventName()) })
	return New(building.Default(), t, ledger, WithPublisher(bus)), ledger, &names
}

func assertCountsConsistent(t *testing.T, e *Engine, l *entity.Ledger) {
	t.Helper()
	if got, want := l.Counts(), e.CountByCategory(); !maps.Equal(got, want) {
		t.Fatalf("计数与网格不一致: ledger=%v grid=%v", got, want)
	}
}

func TestPlace_免费道路不扣钱(t *testing.T) {
	e, l, _ := newEngineOn(flatTerrain())
	if !e.Place(0, 0, building.Road, building.TypeRoad, true) {
		t.Fatalf("免费放置道路应成功")
	}
	if l.Money() != 50000 {
		t.Fatalf("免费放置不应扣钱, money=%v", l.Money())
	}
	if e.Len() != 1 {
		t.Fatalf("网格应只有一个建筑, len=%d", e.Len())
	}
	if _, ok := e.BuildingAt(0, 0); !ok {
		t.Fatalf("(0,0) 应有建筑")
	}
}

func TestPlace_无邻路住宅失败且无副作用(t *testing.T) {
	e, l, names := newEngineOn(flatTerrain())
	if e.Place(5, 5, building.Residential, "small_house", false) {
		t.Fatalf("没有邻路应失败")
	}
	if r := e.Check(5, 5, building.Residential, "small_house"); r != ReasonNoRoad {
		t.Fatalf("原因应为 no_road, got=%v", r)
	}
	if l.Money() != 50000 || e.Len() != 0 || len(*names) != 0 {
		t.Fatalf("失败不应改变状态: money=%v len=%d events=%v", l.Money(), e.Len(), *names)
	}
}

func TestPlace_邻路住宅入住七成(t *testing.T) {
	e, l, names := newEngineOn(flatTerrain())
	if !e.Place(5, 4, building.Road, building.TypeRoad, false) {
		t.Fatalf("道路放置失败")
	}
	if !e.Place(5, 5, building.Residential, "small_house", false) {
		t.Fatalf("邻路住宅应成功")
	}
	if l.Population() != 3 {
		t.Fatalf("人口应增加 floor(5*0.7)=3, got=%d", l.Population())
	}
	if l.Count(building.Residential) != 1 {
		t.Fatalf("住宅计数应为 1, got=%d", l.Count(building.Residential))
	}
	if l.Money() != 50000-10-200 {
		t.Fatalf("应扣除道路与住宅造价, money=%v", l.Money())
	}
	want := []string{entity.EventBuildingPlaced, entity.EventBuildingPlaced, entity.EventPopulationChanged}
	if len(*names) != len(want) {
		t.Fatalf("事件序列 got=%v want=%v", *names, want)
	}
	for i := range want {
		if (*names)[i] != want[i] {
			t.Fatalf("事件序列 got=%v want=%v", *names, want)
		}
	}
	assertCountsConsistent(t, e, l)
}

func TestCheck_机场附近有山失败(t *testing.T) {
	e, _, _ := newEngineOn(riverTerrain())
	e.Place(10, -7, building.Road, building.TypeRoad, true)
	if e.CanPlace(10, -8, building.Transport, building.TypeAirport) {
		t.Fatalf("5 格内有山不应允许机场")
	}
	if r := e.Check(10, -8, building.Transport, building.TypeAirport); r != ReasonAirportTerrain {
		t.Fatalf("原因应为 airport_terrain, got=%v", r)
	}
}

func TestCheck_机场平整草地且邻路通过(t *testing.T) {
	e, _, _ := newEngineOn(flatTerrain())
	if r := e.Check(-10, 10, building.Transport, building.TypeAirport); r != ReasonNoRoad {
		t.Fatalf("地形合格但无路应为 no_road, got=%v", r)
	}
	e.Place(-10, 11, building.Road, building.TypeRoad, true)
	if !e.CanPlace(-10, 10, building.Transport, building.TypeAirport) {
		t.Fatalf("平整草地且邻路应允许机场")
	}
}

func TestCheck_机场要求四邻平整(t *testing.T) {
	tr := terrain.FromTiles(terrain.Square(10), func(x, z int) (terrain.TileType, float64) {
		if x == 1 && z == 0 {
			return terrain.Grass, 1.5
		}
		return terrain.Grass, 1
	})
	e, _, _ := newEngineOn(tr)
	if e.AirportSiteOK(0, 0) {
		t.Fatalf("东侧高差 0.5 不应通过平整检查")
	}
	if !e.AirportSiteOK(-3, -3) {
		t.Fatalf("平整处应通过")
	}
}

func TestCheck_农田无农舍失败(t *testing.T) {
	e, l, _ := newEngineOn(flatTerrain())
	e.Place(0, 1, building.Road, building.TypeRoad, true)
	if e.Place(0, 0, building.Agricultural, building.TypeFarmField, false) {
		t.Fatalf("没有农舍的农田应失败")
	}
	if r := e.Check(0, 0, building.Agricultural, building.TypeFarmField); r != ReasonFarmHouseMissing {
		t.Fatalf("原因应为 farm_house_missing, got=%v", r)
	}
	if l.Money() != 50000 {
		t.Fatalf("失败不应扣钱")
	}
}

func TestCheck_农田有农舍时不要求邻路(t *testing.T) {
	e, _, _ := newEngineOn(flatTerrain())
	e.Place(0, 1, building.Road, building.TypeRoad, true)
	if !e.Place(1, 1, building.Agricultural, building.TypeFarmHouse, false) {
		t.Fatalf("农舍放置失败")
	}
	if !e.Place(2, 2, building.Agricultural, building.TypeFarmField, false) {
		t.Fatalf("斜邻农舍的农田应成功")
	}
}

func TestCheck_水上建筑例外(t *testing.T) {
	e, _, _ := newEngineOn(riverTerrain())

	if r := e.Check(5, 0, building.Road, building.TypeBridge); r != ReasonTerrain {
		t.Fatalf("两侧无路的桥应失败, got=%v", r)
	}
	e.Place(4, 0, building.Road, building.TypeRoad, true)
	if r := e.Check(5, 0, building.Road, building.TypeBridge); r != ReasonTerrain {
		t.Fatalf("只有一侧有路的桥应失败, got=%v", r)
	}
	e.Place(6, 0, building.Road, building.TypeRoad, true)
	if !e.Place(5, 0, building.Road, building.TypeBridge, true) {
		t.Fatalf("东西两侧有路的桥应成功")
	}

	if !e.CanPlace(5, 9, building.Road, building.TypeWaterChannel) {
		t.Fatalf("水渠可以直接建在水上")
	}
	if e.CanPlace(5, 3, building.Road, building.TypeRoad) {
		t.Fatalf("普通道路不能建在水上")
	}

	e.Place(4, 1, building.Road, building.TypeRoad, true)
	if !e.CanPlace(5, 1, building.Transport, building.TypePort) {
		t.Fatalf("临岸水面且邻路的港口应成功")
	}
}

func TestCheck_陆地水渠须临水且不算道路(t *testing.T) {
	e, _, _ := newEngineOn(riverTerrain())
	if e.CanPlace(2, 3, building.Road, building.TypeWaterChannel) {
		t.Fatalf("不临水的陆地水渠应失败")
	}
	if !e.Place(4, 3, building.Road, building.TypeWaterChannel, true) {
		t.Fatalf("临水陆地水渠应成功")
	}
	if !e.Place(3, 3, building.Road, building.TypeWaterChannel, true) {
		t.Fatalf("与已有水渠相邻的水渠应成功")
	}
	if r := e.Check(3, 4, building.Residential, "small_house"); r != ReasonNoRoad {
		t.Fatalf("水渠不算道路, got=%v", r)
	}
}

func TestPlace_资金不足失败无副作用(t *testing.T) {
	e, l, _ := newEngineOn(flatTerrain())
	e.Place(0, 0, building.Road, building.TypeRoad, true)
	l.AddMoney(-l.Money() + 100)
	if _, r := e.PlaceBuilding(0, 1, building.Residential, "small_house", false); r != ReasonInsufficientFunds {
		t.Fatalf("原因应为 insufficient_funds, got=%v", r)
	}
	if l.Money() != 100 || e.Len() != 1 || l.Population() != 0 {
		t.Fatalf("资金不足不应改变状态")
	}
	l.SetSandbox(true)
	if !e.Place(0, 1, building.Residential, "small_house", false) {
		t.Fatalf("沙盒模式应允许")
	}
	if l.Money() != 100 {
		t.Fatalf("沙盒模式不扣钱, money=%v", l.Money())
	}
}

func TestMove_保留身份(t *testing.T) {
	e, l, _ := newEngineOn(flatTerrain())
	e.Place(0, 0, building.Road, building.TypeRoad, true)
	e.Place(0, 1, building.Residential, "small_house", false)
	before, _ := e.BuildingAt(0, 1)

	if e.Move(0, 1, 0, 0) {
		t.Fatalf("目标已占用应失败")
	}
	if e.Move(3, 3, 4, 4) {
		t.Fatalf("源位置为空应失败")
	}
	if e.Move(0, 1, 50, 50) {
		t.Fatalf("越界目标应失败")
	}
	if !e.Move(0, 1, 7, 7) {
		t.Fatalf("移动应成功")
	}
	after, ok := e.BuildingAt(7, 7)
	if !ok || after.ID != before.ID || after.Cost != before.Cost {
		t.Fatalf("移动后身份应保持, before=%+v after=%+v", before, after)
	}
	if e.Occupied(0, 1) {
		t.Fatalf("原位置应被清空")
	}
	assertCountsConsistent(t, e, l)
}

func TestRemove_不退还人口(t *testing.T) {
	e, l, _ := newEngineOn(flatTerrain())
	e.Place(0, 0, building.Road, building.TypeRoad, true)
	e.Place(0, 1, building.Residential, "small_house", false)
	if e.Remove(2, 2) {
		t.Fatalf("空位置拆除应失败")
	}
	if !e.Remove(0, 1) {
		t.Fatalf("拆除应成功")
	}
	if l.Population() != 3 {
		t.Fatalf("拆除不退还人口, population=%d", l.Population())
	}
	if l.Count(building.Residential) != 0 {
		t.Fatalf("住宅计数应归零")
	}
	assertCountsConsistent(t, e, l)
}

func TestRemove_超大坐标不命中已有建筑(t *testing.T) {
	e, l, _ := newEngineOn(flatTerrain())
	e.Place(0, 0, building.Road, building.TypeRoad, true)
	e.Place(0, 1, building.Residential, "small_house", false)
	if _, ok := e.BuildingAt(1<<32, 1); ok {
		t.Fatalf("(1<<32,1) 不应查到 (0,1) 的建筑")
	}
	if e.Remove(1<<32, 1) {
		t.Fatalf("超大坐标拆除应失败")
	}
	if e.Move(1<<32, 1, 3, 3) {
		t.Fatalf("超大坐标搬迁应失败")
	}
	if !e.Occupied(0, 1) || l.Count(building.Residential) != 1 {
		t.Fatalf("(0,1) 的住宅应原样保留")
	}
	assertCountsConsistent(t, e, l)
}

func TestEngine_随机操作序列保持不变式(t *testing.T) {
	e, l, _ := newEngineOn(riverTerrain())
	rng := rand.New(rand.NewPCG(7, 11))
	reg := building.Default()
	cats := reg.Categories()

	for i := 0; i < 3000; i++ {
		x, z := rng.IntN(21)-10, rng.IntN(21)-10
		money, n, counts := l.Money(), e.Len(), l.Counts()

		var ok bool
		switch rng.IntN(4) {
		case 0, 1:
			cat := cats[rng.IntN(len(cats))]
			types := reg.Types(cat)
			ok = e.Place(x, z, cat, types[rng.IntN(len(types))].Type, rng.IntN(2) == 0)
		case 2:
			ok = e.Move(x, z, rng.IntN(21)-10, rng.IntN(21)-10)
		default:
			ok = e.Remove(x, z)
		}
		if !ok && (l.Money() != money || e.Len() != n || !maps.Equal(counts, l.Counts())) {
			t.Fatalf("第 %d 步失败操作改变了状态", i)
		}
		assertCountsConsistent(t, e, l)

		seen := make(map[entity.Coord]bool, e.Len())
		for _, b := range e.All() {
			if seen[b.Pos] {
				t.Fatalf("第 %d 步 %v 出现多个建筑", i, b.Pos)
			}
			seen[b.Pos] = true
			if got, _ := e.BuildingAt(b.Pos.X, b.Pos.Z); got.ID != b.ID {
				t.Fatalf("第 %d 步 %v 键与位置不一致", i, b.Pos)
			}
		}
	}
}

func TestBuildingsByCategory_按类别查询(t *testing.T) {
	e, _, _ := newEngineOn(flatTerrain())
	e.Place(0, 0, building.Road, building.TypeRoad, true)
	e.Place(1, 0, building.Road, building.TypeRoad, true)
	e.Place(0, 1, building.Commercial, "shop", true)
	if got := e.BuildingsByCategory(building.Road); len(got) != 2 || got[0].ID > got[1].ID {
		t.Fatalf("道路查询结果错误: %+v", got)
	}
	if got := e.BuildingsByCategory(building.Industrial); len(got) != 0 {
		t.Fatalf("不应有工业建筑")
	}
	s := e.Stats()
	if s.Total != 3 || s.Jobs != 5 || s.CommercialIncome != 50 {
		t.Fatalf("统计错误: %+v", s)
	}
}

func TestReason_包装为业务错误(t *testing.T) {
	if ReasonOK.Err() != nil {
		t.Fatalf("OK 不应有错误")
	}
	e, ok := errx.As(ReasonNoRoad.Err())
	if !ok || e.IsSys() || e.Code() != CodePlaceRejected {
		t.Fatalf("应为放置拒绝业务错误: %v", e)
	}
	if e.Reason() != "no_road" {
		t.Fatalf("reason=%v", e.Reason())
	}
}
