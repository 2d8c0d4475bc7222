package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"gsd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	// Operational knobs carry defaults; only paths and the listen
	// address must come from the config file.
	viper.SetDefault("storage.maxBackups", 3)
	viper.SetDefault("persistence.flushInterval", "30s")
	viper.SetDefault("persistence.backupInterval", "5m")
	viper.SetDefault("save.maxLevels", 200)
	viper.SetDefault("save.minSupportedVersion", 1)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", 0644)

	viper.BindEnv("logger.level", "GSD_LOG_LEVEL")
	viper.BindEnv("storage.dir", "GSD_STORAGE_DIR")
	viper.BindEnv("storage.maxBackups", "GSD_MAX_BACKUPS")
	viper.BindEnv("persistence.flushInterval", "GSD_FLUSH_INTERVAL")
	viper.BindEnv("persistence.backupInterval", "GSD_BACKUP_INTERVAL")
	viper.BindEnv("cache.enabled", "GSD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "GSD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "GameSaveDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
