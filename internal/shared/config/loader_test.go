package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Session struct {
		ID         string        `mapstructure:"id"`
		TickRate   time.Duration `mapstructure:"tick_rate"`
		ControlAll bool          `mapstructure:"control_all"`
	} `mapstructure:"session"`
	Search struct {
		Filters map[string]string `mapstructure:"filters"`
	} `mapstructure:"search"`
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_解析时长与嵌套结构(t *testing.T) {
	path := writeConf(t, `
session:
  id: s-1
  tick_rate: 50ms
  control_all: true
search:
  filters:
    coal: "ResourceAmount > 2"
`)
	l, err := Load[sample](path)
	require.NoError(t, err)

	got := l.Get()
	assert.Equal(t, "s-1", got.Session.ID)
	assert.Equal(t, 50*time.Millisecond, got.Session.TickRate)
	assert.True(t, got.Session.ControlAll)
	assert.Equal(t, "ResourceAmount > 2", got.Search.Filters["coal"])
	assert.Equal(t, path, l.Path())
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	_, err := Load[sample](filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
