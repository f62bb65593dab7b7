package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader 持有 viper 实例；Watch 后文件变更会重新 Unmarshal 并回调。
type Loader struct {
	v    *viper.Viper
	path string

	mu       sync.Mutex
	onChange []func()
}

// Load 读取配置文件到 out，defaults 在文件缺省字段时生效。
func Load(cfgName string, out any, defaults map[string]any) (*Loader, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return nil, err
	}
	if !fileExist(path) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("unmarshal config %q: %w", path, err)
	}
	return &Loader{v: v, path: path}, nil
}

// MustLoad 与 Load 相同，失败直接 panic，用于进程启动阶段。
func MustLoad(cfgName string, out any, defaults map[string]any) *Loader {
	l, err := Load(cfgName, out, defaults)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Loader) Path() string {
	return l.path
}

func (l *Loader) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch 开启热更新：反序列化到 out 后依次回调。out 的并发读写由回调方自行保证。
func (l *Loader) Watch(out any, onErr func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := l.v.Unmarshal(out); err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("viper unmarshal changed config: %w", err))
			}
			return
		}
		l.mu.Lock()
		callbacks := append([]func(){}, l.onChange...)
		l.mu.Unlock()
		for _, fn := range callbacks {
			fn()
		}
	})
	l.v.WatchConfig()
}
