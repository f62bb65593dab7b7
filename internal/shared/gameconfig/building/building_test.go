package building

import "testing"

func TestDefault_内置目录可加载(t *testing.T) {
	r := Default()
	d, ok := r.Lookup(Residential, "small_house")
	if !ok {
		t.Fatalf("期望存在 residential/small_house")
	}
	if d.Cost != 200 || d.Capacity != 5 || d.Category != Residential {
		t.Fatalf("small_house 定义不符合预期: %+v", d)
	}
	if _, ok := r.Lookup(Road, TypeWaterChannel); !ok {
		t.Fatalf("期望 water_channel 属于 road 类别")
	}
	if _, ok := r.Lookup(Residential, "factory"); ok {
		t.Fatalf("factory 不应出现在 residential 下")
	}
}

func TestFirstType_保持yaml顺序(t *testing.T) {
	r := Default()
	cases := map[Category]string{
		Residential:  "small_house",
		Commercial:   "shop",
		Industrial:   "workshop",
		Civic:        "school",
		Recreational: "park",
		Agricultural: TypeFarmHouse,
		Road:         TypeRoad,
	}
	for c, want := range cases {
		d, ok := r.FirstType(c)
		if !ok || d.Type != want {
			t.Fatalf("FirstType(%s) got=%q want=%q", c, d.Type, want)
		}
	}
	cats := r.Categories()
	if len(cats) != 8 || cats[0] != Residential || cats[len(cats)-1] != Road {
		t.Fatalf("类别顺序不符合预期: %v", cats)
	}
	if c, ok := r.CategoryOf(TypeAirport); !ok || c != Transport {
		t.Fatalf("CategoryOf(airport) got=%q", c)
	}
}

func TestParse_拒绝重复与空类别(t *testing.T) {
	dup := []byte(`
categories:
  - name: road
    types:
      - type: road
      - type: road
`)
	if _, err := Parse(dup); err == nil {
		t.Fatalf("期望重复类型报错")
	}
	empty := []byte(`
categories:
  - name: civic
    types: []
`)
	if _, err := Parse(empty); err == nil {
		t.Fatalf("期望空类别报错")
	}
}

func TestLookup_返回拷贝(t *testing.T) {
	r := Default()
	d, _ := r.Lookup(Commercial, "shop")
	d.Income = 99999
	again, _ := r.Lookup(Commercial, "shop")
	if again.Income == 99999 {
		t.Fatalf("修改 Lookup 结果不应影响目录")
	}
}
