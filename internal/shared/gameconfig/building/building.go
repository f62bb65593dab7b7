package building

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

type Category string

const (
	Residential  Category = "residential"
	Commercial   Category = "commercial"
	Industrial   Category = "industrial"
	Civic        Category = "civic"
	Recreational Category = "recreational"
	Agricultural Category = "agricultural"
	Transport    Category = "transport"
	Road         Category = "road"
)

// 规则里直接引用到的建筑类型。
const (
	TypeRoad         = "road"
	TypeWaterChannel = "water_channel"
	TypeBridge       = "bridge"
	TypePort         = "port"
	TypeAirport      = "airport"
	TypeFarmField    = "farm_field"
	TypeFarmHouse    = "farm_house"
	TypeChurch       = "church"
	TypeTownHall     = "town_hall"
)

// Definition 是静态目录里的一条建筑定义。放置时按值拷贝到建筑实例上。
type Definition struct {
	Category    Category `yaml:"-" json:"category"`
	Type        string   `yaml:"type" json:"type"`
	Cost        int      `yaml:"cost" json:"cost"`
	Capacity    int      `yaml:"capacity" json:"capacity,omitempty"`
	Jobs        int      `yaml:"jobs" json:"jobs,omitempty"`
	Income      int      `yaml:"income" json:"income,omitempty"`
	Maintenance int      `yaml:"maintenance" json:"maintenance,omitempty"`
	Happiness   int      `yaml:"happiness" json:"happiness,omitempty"`
	Pollution   int      `yaml:"pollution" json:"pollution,omitempty"`
}

type categoryConf struct {
	Name  Category     `yaml:"name"`
	Types []Definition `yaml:"types"`
}

type catalogConf struct {
	Title      string         `yaml:"title"`
	Categories []categoryConf `yaml:"categories"`
}

// Registry 是只读的建筑目录，保持 yaml 中的类别与类型顺序。
type Registry struct {
	title      string
	categories []Category
	types      map[Category][]Definition
	index      map[Category]map[string]int
}

//go:embed buildings.yaml
var defaultCatalog []byte

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default 返回内置目录。内置数据损坏属于编译期错误，直接 panic。
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(defaultCatalog)
		if err != nil {
			panic(fmt.Errorf("load building catalog failed: %w", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

func Parse(raw []byte) (*Registry, error) {
	var conf catalogConf
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return nil, fmt.Errorf("unmarshal building catalog: %w", err)
	}
	r := &Registry{
		title: conf.Title,
		types: make(map[Category][]Definition, len(conf.Categories)),
		index: make(map[Category]map[string]int, len(conf.Categories)),
	}
	for _, c := range conf.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("building category without name")
		}
		if _, dup := r.types[c.Name]; dup {
			return nil, fmt.Errorf("duplicate building category %q", c.Name)
		}
		if len(c.Types) == 0 {
			return nil, fmt.Errorf("building category %q has no types", c.Name)
		}
		idx := make(map[string]int, len(c.Types))
		defs := make([]Definition, 0, len(c.Types))
		for _, d := range c.Types {
			if d.Type == "" {
				return nil, fmt.Errorf("building category %q has a type without name", c.Name)
			}
			if _, dup := idx[d.Type]; dup {
				return nil, fmt.Errorf("duplicate building type %q in %q", d.Type, c.Name)
			}
			if d.Cost < 0 {
				return nil, fmt.Errorf("building %s/%s has negative cost", c.Name, d.Type)
			}
			d.Category = c.Name
			idx[d.Type] = len(defs)
			defs = append(defs, d)
		}
		r.categories = append(r.categories, c.Name)
		r.types[c.Name] = defs
		r.index[c.Name] = idx
	}
	return r, nil
}

func (r *Registry) Title() string {
	return r.title
}

// Lookup 按 (category, type) 查定义，返回值拷贝。
func (r *Registry) Lookup(category Category, typ string) (Definition, bool) {
	idx, ok := r.index[category]
	if !ok {
		return Definition{}, false
	}
	i, ok := idx[typ]
	if !ok {
		return Definition{}, false
	}
	return r.types[category][i], true
}

// CategoryOf 按类型名反查类别；类型名在目录里全局唯一时才有意义。
func (r *Registry) CategoryOf(typ string) (Category, bool) {
	for _, c := range r.categories {
		if _, ok := r.index[c][typ]; ok {
			return c, true
		}
	}
	return "", false
}

func (r *Registry) Categories() []Category {
	return append([]Category(nil), r.categories...)
}

func (r *Registry) Types(category Category) []Definition {
	return append([]Definition(nil), r.types[category]...)
}

// FirstType 返回类别下第一个定义的类型，城镇生成器用它做确定性选择。
func (r *Registry) FirstType(category Category) (Definition, bool) {
	defs := r.types[category]
	if len(defs) == 0 {
		return Definition{}, false
	}
	return defs[0], true
}
