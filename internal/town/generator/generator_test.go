package generator

import (
	"maps"
	"math/rand/v2"
	"testing"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/placement"
	"TownBuilder/internal/town/terrain"
)

func run(t *testing.T, tr *terrain.Terrain, seed uint64) (Report, *placement.Engine, *entity.Ledger) {
	t.Helper()
	ledger := entity.NewLedger(1, 50000, 10)
	engine := placement.New(building.Default(), tr, ledger)
	g := New(DefaultConfig(), engine, tr.Bounds(), rand.New(rand.NewPCG(seed, 1)))
	return g.Run(), engine, ledger
}

func TestRun_平地生成完整城镇(t *testing.T) {
	tr := terrain.FromTiles(terrain.Square(32), func(x, z int) (terrain.TileType, float64) {
		return terrain.Grass, 1
	})
	rep, e, l := run(t, tr, 1)

	if l.Money() != 50000 {
		t.Fatalf("生成不应花钱, money=%v", l.Money())
	}
	if rep.Shortfall != 0 {
		t.Fatalf("平地应放满配额, report=%+v", rep)
	}
	if !rep.Church || !rep.Airport {
		t.Fatalf("平地应有教堂和机场, report=%+v", rep)
	}

	churches, airports := 0, 0
	for _, b := range e.All() {
		switch b.Type {
		case building.TypeChurch:
			churches++
		case building.TypeAirport:
			airports++
		}
	}
	if churches != 1 || airports != 1 {
		t.Fatalf("教堂=%d 机场=%d, 都应恰好 1 个", churches, airports)
	}
	if got := len(e.All()) - rep.Roads; got != rep.Buildings {
		t.Fatalf("非道路建筑数 %d 与报告 %d 不符", got, rep.Buildings)
	}
	if !maps.Equal(l.Counts(), e.CountByCategory()) {
		t.Fatalf("计数与网格不一致")
	}
	if b, ok := e.BuildingAt(0, 0); !ok || b.Type != building.TypeTownHall {
		t.Fatalf("原点应是市政厅, got=%+v", b)
	}
}

func TestRun_同种子结果一致(t *testing.T) {
	tr := terrain.Generate(terrain.Options{Seed: 5})
	a, ea, _ := run(t, tr, 9)
	b, eb, _ := run(t, tr, 9)
	if a != b {
		t.Fatalf("报告不一致: %+v vs %+v", a, b)
	}
	ba, bb := ea.All(), eb.All()
	for i := range ba {
		if ba[i].Pos != bb[i].Pos || ba[i].Type != bb[i].Type {
			t.Fatalf("第 %d 个建筑不一致", i)
		}
	}
}

func TestRun_恶劣地形按上限终止(t *testing.T) {
	tr := terrain.FromTiles(terrain.Square(10), func(x, z int) (terrain.TileType, float64) {
		if x >= -1 && x <= 1 && z >= -1 && z <= 1 {
			return terrain.Grass, 1
		}
		return terrain.Water, -1
	})
	rep, _, l := run(t, tr, 3)
	if rep.Attempts != DefaultConfig().MaxBuildAttempts {
		t.Fatalf("应用满尝试上限, attempts=%d", rep.Attempts)
	}
	if rep.Shortfall != DefaultConfig().BuildingQuota {
		t.Fatalf("应报告全部配额未完成, shortfall=%d", rep.Shortfall)
	}
	if rep.Airport || rep.Church {
		t.Fatalf("没有空地不应有机场和教堂, report=%+v", rep)
	}
	if l.Money() != 50000 {
		t.Fatalf("生成不应花钱")
	}
}

func TestRun_生成地形多种子不花钱(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		tr := terrain.Generate(terrain.Options{Seed: seed})
		rep, e, l := run(t, tr, uint64(seed))
		if l.Money() != 50000 {
			t.Fatalf("seed=%d 生成花了钱", seed)
		}
		if rep.Buildings+rep.Roads != e.Len() {
			t.Fatalf("seed=%d 报告与网格不符", seed)
		}
	}
}
