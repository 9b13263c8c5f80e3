package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Loader 持有一份解析好的配置，文件变更时整体替换。
// 读方通过 Get 拿到值拷贝，不会读到半更新的结构。
type Loader[T any] struct {
	v    *viper.Viper
	path string

	mu       sync.RWMutex
	cur      T
	onChange []func(T)
}

// Load 读取并解析配置文件；cfgName 为空时向上查找 configs/conf.yml。
// 环境变量 SETTLERS_<SECTION>_<KEY> 覆盖文件中的值。
func Load[T any](cfgName string) (*Loader[T], error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return nil, fmt.Errorf("config file not found, name=%q: %w", cfgName, err)
	}
	if !fileExist(path) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("settlers")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	l := &Loader[T]{v: v, path: path}
	cur, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cur = cur
	return l, nil
}

func (l *Loader[T]) decode() (T, error) {
	var out T
	err := l.v.Unmarshal(&out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return out, fmt.Errorf("viper unmarshal config data, path=%v: %w", l.path, err)
	}
	return out, nil
}

func (l *Loader[T]) Path() string {
	return l.path
}

func (l *Loader[T]) Get() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// Watch 监听文件变更，解析成功后替换当前值并回调；解析失败保留旧值并交给 onErr。
func (l *Loader[T]) Watch(onChange func(T), onErr func(error)) {
	l.mu.Lock()
	if onChange != nil {
		l.onChange = append(l.onChange, onChange)
	}
	l.mu.Unlock()

	l.v.OnConfigChange(func(fsnotify.Event) {
		next, err := l.decode()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		l.mu.Lock()
		l.cur = next
		callbacks := append([]func(T){}, l.onChange...)
		l.mu.Unlock()
		for _, fn := range callbacks {
			fn(next)
		}
	})
	l.v.WatchConfig()
}
