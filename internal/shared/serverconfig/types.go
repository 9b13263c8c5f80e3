package serverconfig

import "time"

type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Journal JournalConfig `yaml:"journal" mapstructure:"journal"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	Admin   AdminConfig   `yaml:"admin" mapstructure:"admin"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type SessionConfig struct {
	// ID 为空时启动时生成 uuid。
	ID              string        `yaml:"id" mapstructure:"id"`
	ControlAll      bool          `yaml:"control_all" mapstructure:"control_all"`
	TickRate        time.Duration `yaml:"tick_rate" mapstructure:"tick_rate"`
	CommandCapacity int           `yaml:"command_capacity" mapstructure:"command_capacity"`
	AskTimeout      time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	Scenario        string        `yaml:"scenario" mapstructure:"scenario"`
}

type SearchConfig struct {
	MineDistance int `yaml:"mine_distance" mapstructure:"mine_distance"`
	// Filters 按资源名（coal/iron/...）附加的 expr 过滤条件。
	Filters map[string]string `yaml:"filters" mapstructure:"filters"`
}

type JournalConfig struct {
	Backend    string        `yaml:"backend" mapstructure:"backend"` // memory/mongodb/mysql
	FlushEvery time.Duration `yaml:"flush_every" mapstructure:"flush_every"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	Database string `yaml:"database" mapstructure:"database"`
	// Collection 为空时使用 journal。
	Collection     string        `yaml:"collection" mapstructure:"collection"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type AdminConfig struct {
	Host      string `yaml:"host" mapstructure:"host"`
	Port      int    `yaml:"port" mapstructure:"port"`
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}
