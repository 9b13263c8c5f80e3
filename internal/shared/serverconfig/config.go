package serverconfig

import (
	"os"
	"time"

	"Settlers/internal/shared/config"
)

// Load 读取服务配置并补齐默认值。
func Load(cfgName string) (*config.Loader[Config], Config, error) {
	l, err := config.Load[Config](cfgName)
	if err != nil {
		return nil, Config{}, err
	}
	conf := l.Get()
	conf.ApplyDefaults()
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && conf.Admin.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", conf.Admin.JWTSecret)
	}
	return l, conf, nil
}

func (c *Config) ApplyDefaults() {
	if c.Session.TickRate <= 0 {
		c.Session.TickRate = 100 * time.Millisecond
	}
	if c.Session.CommandCapacity <= 0 {
		c.Session.CommandCapacity = 256
	}
	if c.Session.AskTimeout <= 0 {
		c.Session.AskTimeout = 2 * time.Second
	}
	if c.Search.MineDistance <= 0 {
		c.Search.MineDistance = 30
	}
	if c.Journal.Backend == "" {
		c.Journal.Backend = "memory"
	}
	if c.Journal.FlushEvery <= 0 {
		c.Journal.FlushEvery = time.Second
	}
	if c.MySQL.Charset == "" {
		c.MySQL.Charset = "utf8mb4"
	}
	if c.Admin.Port == 0 {
		c.Admin.Port = 8090
	}
}
