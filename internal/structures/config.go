package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type TwitchConfig struct {
	ClientID string        `yaml:"clientId" validate:"required"`
	BaseURL  string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout  time.Duration `yaml:"timeout"`
	// Optional credential seed for first start; the store wins once
	// it holds a token.
	Token      string `yaml:"token"`
	FollowerID string `yaml:"followerId"`
}

type PollConfig struct {
	Interval     time.Duration `yaml:"interval" validate:"required|min:1"`
	InitialDelay time.Duration `yaml:"initialDelay"`
}

type Persistence struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Twitch      TwitchConfig  `yaml:"twitch"`
	Poll        PollConfig    `yaml:"poll"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
