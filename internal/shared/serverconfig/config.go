package serverconfig

import (
	"os"
	"sync"

	"TownBuilder/internal/shared/config"
)

var (
	mu   sync.RWMutex
	Conf Config
)

func Defaults() map[string]any {
	return map[string]any{
		"httpserver.host":                  "0.0.0.0",
		"httpserver.port":                  8080,
		"log.level":                        "info",
		"storage.driver":                   "memory",
		"storage.flush_ms":                 3000,
		"mongodb.database":                 "townbuilder",
		"mongodb.connect_timeout_s":        3,
		"auth.token_ttl_hours":             24,
		"sim.town_id":                      1,
		"sim.seed":                         20240101,
		"sim.half_size":                    32,
		"sim.starting_money":               50000,
		"sim.tax_rate":                     10,
		"sim.game_speed":                   1,
		"sim.day_length_s":                 60,
		"sim.tick_interval_ms":             200,
		"sim.economy.tax_per_citizen":      5,
		"sim.economy.event_chance":         0.05,
		"sim.generator.road_length":        12,
		"sim.generator.building_quota":     28,
		"sim.generator.max_build_attempts": 2000,
	}
}

// Load 读取 configs/conf.yml；返回的 Loader 可用于开启热更新。
func Load(cfgName string) (*config.Loader, error) {
	mu.Lock()
	defer mu.Unlock()
	l, err := config.Load(cfgName, &Conf, Defaults())
	if err != nil {
		return nil, err
	}
	// 环境变量优先于配置文件里的 jwt_secret
	if s := os.Getenv("JWT_SECRET"); s != "" {
		Conf.Auth.JWTSecret = s
	}
	return l, nil
}

// Watch 热更新时在写锁内重新反序列化，读方通过 Snapshot 取副本。
func Watch(l *config.Loader, onErr func(error)) {
	var next Config
	l.OnChange(func() {
		mu.Lock()
		Conf = next
		mu.Unlock()
	})
	l.Watch(&next, onErr)
}

func Snapshot() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Conf
}
