package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	xdgAppName = "tasktrack"
	configFile = "config.json"
)

type Config struct {
	StorePath      string        `json:"store_path" mapstructure:"store_path"`
	Backend        string        `json:"backend" mapstructure:"backend"`
	Calendar       string        `json:"calendar" mapstructure:"calendar"`
	PersistTimeout time.Duration `json:"persist_timeout" mapstructure:"persist_timeout"`
}

// Dir returns ~/.config/tasktrack.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		StorePath:      filepath.Join(dir, "tasks.json"),
		Backend:        "",
		Calendar:       "Tasks",
		PersistTimeout: 5 * time.Second,
	}
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, filling unset keys with defaults.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("store_path", def.StorePath)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("calendar", def.Calendar)
	v.SetDefault("persist_timeout", def.PersistTimeout)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = def.Calendar
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = def.PersistTimeout
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(fileConfig{
		StorePath:      cfg.StorePath,
		Backend:        cfg.Backend,
		Calendar:       cfg.Calendar,
		PersistTimeout: cfg.PersistTimeout.String(),
	})
}

// fileConfig is the on-disk form; durations are written as "5s" so viper
// decodes them back into time.Duration.
type fileConfig struct {
	StorePath      string `json:"store_path"`
	Backend        string `json:"backend"`
	Calendar       string `json:"calendar"`
	PersistTimeout string `json:"persist_timeout"`
}
