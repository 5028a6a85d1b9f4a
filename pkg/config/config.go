// Package config resolves runtime settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

const (
	configPathEnv = "WKJLPT_CONFIG"
	apiKeyEnv     = "WANIKANI_API_KEY"
	apiURLEnv     = "WANIKANI_API_URL"
	dataDirEnv    = "WKJLPT_DATA_DIR"
	dbPathEnv     = "WKJLPT_DB"
	logLevelEnv   = "WKJLPT_LOG_LEVEL"
)

// ErrMissingAPIKey is returned by Validate when no credential is set.
var ErrMissingAPIKey = errors.New("please set " + apiKeyEnv + " in your environment")

// Config holds every setting the commands need.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Data     DataConfig     `yaml:"data"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// APIConfig describes the WaniKani endpoint. The key only comes from the environment.
type APIConfig struct {
	Key      string `yaml:"-"`
	BaseURL  string `yaml:"baseUrl"`
	Revision string `yaml:"revision"`
}

// DataConfig locates the static vocabulary files.
type DataConfig struct {
	Dir       string `yaml:"dir"`
	KanjiFile string `yaml:"kanjiFile"`
}

// KanjiPath returns the kanji metadata path, relative to Dir unless absolute.
func (d DataConfig) KanjiPath() string {
	if filepath.IsAbs(d.KanjiFile) {
		return d.KanjiFile
	}
	return filepath.Join(d.Dir, d.KanjiFile)
}

// DatabaseConfig locates the promotion ledger.
type DatabaseConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultsConfig holds default flag values.
type DefaultsConfig struct {
	MoveCount    int    `yaml:"moveCount"`
	MoveJLPT     int    `yaml:"moveJlpt"`
	ListJLPT     int    `yaml:"listJlpt"`
	PresentOrder string `yaml:"presentOrder"`
	Workers      int    `yaml:"workers"`
}

// WaniKani returns the client configuration.
func (c Config) WaniKani() wanikani.Config {
	return wanikani.Config{APIKey: c.API.Key, BaseURL: c.API.BaseURL, Revision: c.API.Revision}
}

// Validate reports configuration errors that must stop a run before any
// network activity.
func (c Config) Validate() error {
	if c.API.Key == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Load reads the YAML file at path (or at $WKJLPT_CONFIG when path is
// empty), merges it over the defaults and applies environment overrides.
// A missing default-location file is not an error; an unreadable or
// malformed explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv(apiURLEnv); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(dataDirEnv); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func merge(base, override Config) Config {
	if override.API.BaseURL != "" {
		base.API.BaseURL = override.API.BaseURL
	}
	if override.API.Revision != "" {
		base.API.Revision = override.API.Revision
	}
	if override.Data.Dir != "" {
		base.Data.Dir = override.Data.Dir
	}
	if override.Data.KanjiFile != "" {
		base.Data.KanjiFile = override.Data.KanjiFile
	}
	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}
	if override.Database.Disabled {
		base.Database.Disabled = true
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Defaults.MoveCount > 0 {
		base.Defaults.MoveCount = override.Defaults.MoveCount
	}
	if override.Defaults.MoveJLPT > 0 {
		base.Defaults.MoveJLPT = override.Defaults.MoveJLPT
	}
	if override.Defaults.ListJLPT > 0 {
		base.Defaults.ListJLPT = override.Defaults.ListJLPT
	}
	if override.Defaults.PresentOrder != "" {
		base.Defaults.PresentOrder = override.Defaults.PresentOrder
	}
	if override.Defaults.Workers > 0 {
		base.Defaults.Workers = override.Defaults.Workers
	}
	return base
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API:      APIConfig{BaseURL: wanikani.DefaultBaseURL, Revision: wanikani.DefaultRevision},
		Data:     DataConfig{Dir: ".", KanjiFile: "kanji.json"},
		Database: DatabaseConfig{Path: "wkjlpt.db"},
		Logging:  LoggingConfig{Level: "info"},
		Defaults: DefaultsConfig{
			MoveCount:    100,
			MoveJLPT:     3,
			ListJLPT:     5,
			PresentOrder: "desc",
			Workers:      4,
		},
	}
}
