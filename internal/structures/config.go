package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Dir        string `yaml:"dir" validate:"required|unixPath"`
	MaxBackups int    `yaml:"maxBackups" validate:"required|min:1"`
}

type PersistenceConfig struct {
	FlushInterval  time.Duration `yaml:"flushInterval" validate:"required|min:1"`
	BackupInterval time.Duration `yaml:"backupInterval" validate:"required|min:1"`
}

type SaveConfig struct {
	MaxLevels           int `yaml:"maxLevels" validate:"required|min:1"`
	MinSupportedVersion int `yaml:"minSupportedVersion" validate:"min:1"`
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
	WebServer   Server            `yaml:"webServer"`
	Storage     StorageConfig     `yaml:"storage"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Save        SaveConfig        `yaml:"save"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
