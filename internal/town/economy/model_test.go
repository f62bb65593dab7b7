package economy

import (
	"math/rand/v2"
	"testing"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
)

type fakeBuildings struct {
	stats entity.BuildingStats
}

func (f *fakeBuildings) Stats() entity.BuildingStats {
	return f.stats
}

func newModel(seed uint64) (*Model, *entity.Ledger, *fakeBuildings, *[]entity.Event) {
	cfg := DefaultConfig()
	cfg.EventChance = 0
	ledger := entity.NewLedger(1, 50000, 10)
	fb := &fakeBuildings{}
	var got []entity.Event
	pub := entity.PublisherFunc(func(e entity.Event) { got = append(got, e) })
	return New(cfg, ledger, fb, pub, rand.New(rand.NewPCG(seed, seed+1))), ledger, fb, &got
}

func taxEvents(evs []entity.Event) []entity.TaxCollected {
	var out []entity.TaxCollected
	for _, e := range evs {
		if tc, ok := e.(entity.TaxCollected); ok {
			out = append(out, tc)
		}
	}
	return out
}

func TestUpdate_人头税只收一次(t *testing.T) {
	m, l, _, evs := newModel(1)
	l.SetPopulation(100)
	l.SetHappiness(100)

	l.AdvanceDay()
	reports := m.Update()
	if len(reports) != 1 || reports[0].TaxRevenue != 500 {
		t.Fatalf("税收应为 500, reports=%+v", reports)
	}
	taxes := taxEvents(*evs)
	if len(taxes) != 1 || taxes[0].Amount != 500 || taxes[0].Day != 1 {
		t.Fatalf("应只有一次 TaxCollected(500), got=%+v", taxes)
	}
	// 税收 500，人口维护 100*0.5
	if l.Money() != 50000+500-50 {
		t.Fatalf("money got=%v", l.Money())
	}

	money, pop, h := l.Money(), l.Population(), l.Happiness()
	if again := m.Update(); len(again) != 0 {
		t.Fatalf("同一天重复调用不应再次结算")
	}
	if l.Money() != money || l.Population() != pop || l.Happiness() != h {
		t.Fatalf("同一天重复调用改变了状态")
	}
	if len(taxEvents(*evs)) != 1 {
		t.Fatalf("同一天重复调用又收了一次税")
	}
}

func TestUpdate_跳过的天逐日结算(t *testing.T) {
	m, l, _, evs := newModel(2)
	l.SetPopulation(10)
	l.AdvanceDay()
	l.AdvanceDay()
	l.AdvanceDay()
	reports := m.Update()
	if len(reports) != 3 {
		t.Fatalf("应结算 3 天, got=%d", len(reports))
	}
	for i, r := range reports {
		if r.Day != i+1 {
			t.Fatalf("第 %d 份日报 day=%d", i, r.Day)
		}
	}
	if len(taxEvents(*evs)) != 3 {
		t.Fatalf("应收税 3 次")
	}
	if m.LastProcessedDay() != 3 {
		t.Fatalf("水位线应为 3, got=%d", m.LastProcessedDay())
	}
	if len(l.History().Money) != 3 {
		t.Fatalf("历史应有 3 天")
	}
}

func TestUpdate_零人口不出错(t *testing.T) {
	m, l, _, _ := newModel(3)
	l.AddMoney(-60000)
	l.AdvanceDay()
	r := m.Update()[0]
	if r.TaxRevenue != 0 || r.Population != 0 {
		t.Fatalf("零人口应零税收, got=%+v", r)
	}
	if l.Money() != -10000 {
		t.Fatalf("负资金也应正常结算, money=%v", l.Money())
	}
}

func TestUpdate_人口向容量靠拢(t *testing.T) {
	m, l, _, _ := newModel(4)
	l.IncCount(building.Residential)
	l.IncCount(building.Residential)
	l.SetPopulation(3)
	l.SetHappiness(50)
	l.AdvanceDay()
	m.Update()
	// ceil(3*0.05*0.5)+1 = 2
	if l.Population() != 5 {
		t.Fatalf("人口应增长到 5, got=%d", l.Population())
	}

	l.SetPopulation(19)
	l.AdvanceDay()
	m.Update()
	if l.Population() != 20 {
		t.Fatalf("增长不应超过容量 20, got=%d", l.Population())
	}

	l.DecCount(building.Residential)
	l.SetPopulation(30)
	l.AdvanceDay()
	m.Update()
	// 超出 20，减少 ceil(20*0.2)=4
	if l.Population() != 26 {
		t.Fatalf("住房不足应迁出 4 人, got=%d", l.Population())
	}
}

func TestUpdate_幸福度与价格始终在范围内(t *testing.T) {
	m, l, fb, _ := newModel(5)
	rng := rand.New(rand.NewPCG(9, 9))
	cats := []entity.Category{building.Residential, building.Commercial, building.Industrial, building.Civic}
	for day := 0; day < 400; day++ {
		switch rng.IntN(5) {
		case 0:
			l.SetPopulation(rng.IntN(200000))
		case 1:
			l.SetTaxRate(rng.IntN(40) - 5)
		case 2:
			fb.stats = entity.BuildingStats{
				Jobs:           rng.IntN(5000),
				Pollution:      rng.IntN(500),
				CivicHappiness: rng.IntN(100) - 50,
			}
		case 3:
			l.IncCount(cats[rng.IntN(len(cats))])
		default:
			m.TriggerEvent(EventKinds()[rng.IntN(len(EventKinds()))])
		}
		l.AdvanceDay()
		m.Update()

		if h := l.Happiness(); h < 0 || h > 100 {
			t.Fatalf("第 %d 天幸福度越界: %v", day, h)
		}
		for _, c := range entity.MarketCategories {
			if p := l.MarketPrice(c); p < 0.5 || p > 2.0 {
				t.Fatalf("第 %d 天 %s 价格越界: %v", day, c, p)
			}
		}
	}
}

func TestUpdate_注入随机源可复现(t *testing.T) {
	run := func() map[entity.Category]float64 {
		m, l, _, _ := newModel(42)
		l.IncCount(building.Residential)
		l.IncCount(building.Commercial)
		l.SetPopulation(8)
		for i := 0; i < 10; i++ {
			l.AdvanceDay()
			m.Update()
		}
		return l.MarketPrices()
	}
	a, b := run(), run()
	for _, c := range entity.MarketCategories {
		if a[c] != b[c] {
			t.Fatalf("%s 价格不可复现: %v vs %v", c, a[c], b[c])
		}
	}
}

func TestTriggerEvent_到期移除(t *testing.T) {
	m, l, _, evs := newModel(6)
	if _, ok := m.TriggerEvent("meteor"); ok {
		t.Fatalf("未知事件应失败")
	}
	ev, ok := m.TriggerEvent("festival")
	if !ok || ev.RemainingDays != 3 {
		t.Fatalf("节日事件应持续 3 天, got=%+v", ev)
	}
	for i := 0; i < 3; i++ {
		l.AdvanceDay()
		m.Update()
	}
	if len(m.ActiveEvents()) != 0 {
		t.Fatalf("3 天后事件应结束, active=%+v", m.ActiveEvents())
	}
	var ended int
	for _, e := range *evs {
		if _, ok := e.(entity.TownEventEnded); ok {
			ended++
		}
	}
	if ended != 1 {
		t.Fatalf("应发出一次事件结束, got=%d", ended)
	}
}

func TestApplyTrade_入账并扰动价格(t *testing.T) {
	m, l, _, _ := newModel(7)
	tc := m.ApplyTrade(120)
	if l.Money() != 50120 {
		t.Fatalf("贸易收入应入账, money=%v", l.Money())
	}
	if tc.Price < 0.99 || tc.Price > 1.01 {
		t.Fatalf("价格扰动应在 ±1%% 内, got=%v", tc.Price)
	}
}

func TestJobModifier_分段(t *testing.T) {
	if jobModifier(0, 0) != 0 {
		t.Fatalf("零人口不计岗位修正")
	}
	if jobModifier(0, 100) != -10 {
		t.Fatalf("无岗位应 -10")
	}
	if jobModifier(200, 100) != 10 {
		t.Fatalf("岗位过剩应封顶 10")
	}
}

func TestSettleFinance_维护费累加顺序固定(t *testing.T) {
	maint := map[entity.Category]float64{
		building.Residential:  0.1,
		building.Commercial:   0.7,
		building.Industrial:   1.3,
		building.Civic:        2.9,
		building.Recreational: 0.3,
		building.Road:         0.01,
	}
	want := 0.0
	for _, c := range []entity.Category{building.Civic, building.Commercial, building.Industrial, building.Recreational, building.Residential, building.Road} {
		want += float64(3) * maint[c]
	}
	for i := 0; i < 50; i++ {
		m, l, _, _ := newModel(1)
		m.cfg.Maintenance = maint
		m.cfg.UpkeepPerCitizen = 0
		for c := range maint {
			for j := 0; j < 3; j++ {
				l.IncCount(c)
			}
		}
		if _, got := m.settleFinance(); got != want {
			t.Fatalf("第 %d 次维护费 %v, 期望 %v", i, got, want)
		}
	}
}
