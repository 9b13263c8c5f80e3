package scenario

import (
	"context"
	"sync"

	"Settlers/internal/world/app/port"
	"Settlers/internal/world/entity"
)

// Loader 从场景文件构建会话的初始世界。文件只解析一次。
type Loader struct {
	path string

	once sync.Once
	s    *Scenario
	err  error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Scenario() (*Scenario, error) {
	l.once.Do(func() {
		l.s, l.err = Load(l.path)
	})
	return l.s, l.err
}

func (l *Loader) LoadWorld(_ context.Context, _ string) (*entity.World, error) {
	s, err := l.Scenario()
	if err != nil {
		return nil, err
	}
	return s.Build()
}

var _ port.WorldLoader = (*Loader)(nil)
