package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsd/internal/structures"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigProvider_AppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	saveDir := t.TempDir()
	logDir := t.TempDir()
	path := writeConfigFile(t, minimalConfigYamlFor(saveDir, logDir))

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, 3, conf.Storage.MaxBackups)
	assert.Equal(t, 30*time.Second, conf.Persistence.FlushInterval)
	assert.Equal(t, 5*time.Minute, conf.Persistence.BackupInterval)
	assert.Equal(t, 200, conf.Save.MaxLevels)
	assert.Equal(t, 1, conf.Save.MinSupportedVersion)
	assert.Equal(t, "info", conf.Logger.Level)
}

func TestNewConfigProvider_FileOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	saveDir := t.TempDir()
	logDir := t.TempDir()
	path := writeConfigFile(t, minimalConfigYamlFor(saveDir, logDir)+`persistence:
  flushInterval: 10s
  backupInterval: 1h
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, conf.Persistence.FlushInterval)
	assert.Equal(t, time.Hour, conf.Persistence.BackupInterval)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

// Minimal config: only the knobs with no usable default.
func minimalConfigYamlFor(saveDir, logDir string) string {
	return "webServer:\n  host: 127.0.0.1\n  port: 8090\nstorage:\n  dir: " +
		saveDir + "\nlogger:\n  dir: " + logDir + "\n"
}
