package service

import (
	"testing"
	"time"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/economy"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/placement"
)

func newTown(t *testing.T) *Town {
	t.Helper()
	cfg := Options{
		Seed:          11,
		StartingMoney: 50000,
		TaxRate:       10,
		GameSpeed:     1,
		DayLength:     time.Second,
	}
	cfg.Economy = economy.DefaultConfig()
	cfg.Economy.EventChance = 0
	return New(cfg)
}

func TestNew_生成后资金不变(t *testing.T) {
	town := newTown(t)
	s := town.State()
	if s.Money != 50000 {
		t.Fatalf("生成不应花钱, money=%v", s.Money)
	}
	if s.Generation.Roads == 0 || s.Generation.Buildings == 0 {
		t.Fatalf("应生成道路和建筑, gen=%+v", s.Generation)
	}
	if s.DayCount != 0 {
		t.Fatalf("初始天数应为 0")
	}
}

func TestAdvance_按天长与速度推进(t *testing.T) {
	town := newTown(t)
	if got := town.Advance(500 * time.Millisecond); len(got) != 0 {
		t.Fatalf("不足一天不应结算")
	}
	if got := town.Advance(500 * time.Millisecond); len(got) != 1 {
		t.Fatalf("满一天应结算 1 次, got=%d", len(got))
	}
	if got := town.Advance(0); len(got) != 0 {
		t.Fatalf("同一天再次调用不应结算")
	}

	town.SetGameSpeed(3)
	if got := town.Advance(time.Second); len(got) != 3 {
		t.Fatalf("3 倍速应逐日结算 3 天, got=%d", len(got))
	}
	if town.State().DayCount != 4 {
		t.Fatalf("天数应为 4, got=%d", town.State().DayCount)
	}

	town.SetGameSpeed(0)
	if got := town.Advance(time.Hour); len(got) != 0 {
		t.Fatalf("暂停时不应推进")
	}
}

func TestSetGameSpeed_钳制(t *testing.T) {
	town := newTown(t)
	if got := town.SetGameSpeed(99); got != MaxGameSpeed {
		t.Fatalf("速度应钳制到 10, got=%v", got)
	}
	if got := town.SetGameSpeed(-1); got != MinGameSpeed {
		t.Fatalf("速度应钳制到 0, got=%v", got)
	}
	if got := town.SetTaxRate(50); got != entity.MaxTaxRate {
		t.Fatalf("税率应钳制到 30, got=%v", got)
	}
}

func TestPlace_邻路空地放住宅(t *testing.T) {
	town := newTown(t)
	for _, road := range town.BuildingsByCategory(building.Road) {
		for _, d := range entity.Orthogonal {
			p := road.Pos.Add(d.X, d.Z)
			if !town.Check(p.X, p.Z, building.Residential, "small_house").OK() {
				continue
			}
			before := town.State()
			b, r := town.Place(p.X, p.Z, building.Residential, "small_house")
			if !r.OK() {
				t.Fatalf("校验通过但放置失败: %v", r)
			}
			after := town.State()
			if after.Money != before.Money-200 || after.Population != before.Population+3 {
				t.Fatalf("资金/人口变化不对: before=%+v after=%+v", before.Summary, after.Summary)
			}
			if got, ok := town.BuildingAt(p.X, p.Z); !ok || got.ID != b.ID {
				t.Fatalf("放置后查询不到")
			}
			return
		}
	}
	t.Fatalf("生成的城镇里找不到可放住宅的位置")
}

func TestMove_目标重新校验(t *testing.T) {
	town := newTown(t)
	if _, r := town.Move(1000, 1000, 0, 0); r != placement.ReasonNotFound {
		t.Fatalf("源为空应为 not_found, got=%v", r)
	}
	if _, r := town.Move(1, 0, 0, 0); r != placement.ReasonOccupied {
		t.Fatalf("目标已占用应为 occupied, got=%v", r)
	}
	if _, r := town.Move(1, 0, 1000, 1000); r != placement.ReasonTerrain {
		t.Fatalf("越界目标应为 terrain, got=%v", r)
	}
}

func TestRegenerate_发布生成事件(t *testing.T) {
	town := newTown(t)
	var got []entity.TownGenerated
	town.Bus().Subscribe(func(e entity.Event) {
		if g, ok := e.(entity.TownGenerated); ok {
			got = append(got, g)
		}
	})
	town.Advance(2 * time.Second)
	rep := town.Regenerate(99)
	if len(got) != 1 || got[0].Seed != 99 || got[0].Roads != rep.Roads {
		t.Fatalf("应发布一次 TownGenerated, got=%+v", got)
	}
	if s := town.State(); s.DayCount != 0 || s.Seed != 99 {
		t.Fatalf("重新生成后应是新城镇, state=%+v", s.Summary)
	}
}
