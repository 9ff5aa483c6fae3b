package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log_level"
	cfgKeySyncFolder   = "sync.folder"
	cfgKeySyncInterval = "sync.interval"

	defaultLogLevel     = "warn"
	defaultSyncInterval = "5m"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string     `yaml:"backend"`
	DataDir  string     `yaml:"data_dir,omitempty"`
	LogLevel string     `yaml:"log_level"`
	Sync     syncConfig `yaml:"sync"`
}

type syncConfig struct {
	Folder   string `yaml:"folder,omitempty"`
	Interval string `yaml:"interval"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error; defaults apply. TASKSHELF_LOG_LEVEL and
// TASKSHELF_SYNC_FOLDER override the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeySyncInterval, defaultSyncInterval)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.BindEnv(cfgKeyLogLevel, "TASKSHELF_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv(cfgKeySyncFolder, "TASKSHELF_SYNC_FOLDER"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Reports whether a file was written.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	cfg := configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: defaultLogLevel,
		Sync:     syncConfig{Interval: defaultSyncInterval},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
