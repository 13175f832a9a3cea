// Package config loads taskflow settings from the config file, environment
// and command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Focus   FocusConfig   `mapstructure:"focus"`
	Notify  NotifyConfig  `mapstructure:"notify"`
}

type StorageConfig struct {
	// Backend is one of "json", "sqlite" or "memory"
	Backend string `mapstructure:"backend"`
	// Dir holds the json files or the sqlite database
	Dir         string        `mapstructure:"dir"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File is the log destination, "-" for stderr
	File string `mapstructure:"file"`
}

type FocusConfig struct {
	FocusMinutes int `mapstructure:"focus_minutes"`
	BreakMinutes int `mapstructure:"break_minutes"`
}

func (c FocusConfig) Focus() time.Duration { return time.Duration(c.FocusMinutes) * time.Minute }
func (c FocusConfig) Break() time.Duration { return time.Duration(c.BreakMinutes) * time.Minute }

type NotifyConfig struct {
	// Quiet suppresses the confirmation lines printed after each change
	Quiet bool `mapstructure:"quiet"`
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     "json",
			Dir:         DataDir(),
			LockTimeout: 3 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
			File:  filepath.Join(CacheDir(), "taskflow.log"),
		},
		Focus: FocusConfig{
			FocusMinutes: 25,
			BreakMinutes: 5,
		},
	}
}

// SetDefaults registers every default with viper so that keys resolve even
// without a config file.
func SetDefaults() {
	d := Default()
	viper.SetDefault("storage.backend", d.Storage.Backend)
	viper.SetDefault("storage.dir", d.Storage.Dir)
	viper.SetDefault("storage.lock_timeout", d.Storage.LockTimeout)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.file", d.Log.File)
	viper.SetDefault("focus.focus_minutes", d.Focus.FocusMinutes)
	viper.SetDefault("focus.break_minutes", d.Focus.BreakMinutes)
	viper.SetDefault("notify.quiet", d.Notify.Quiet)
}

// Init points viper at the config file and environment. An explicit file
// must exist; the default one is optional.
func Init(file string) error {
	SetDefaults()
	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
	}
	viper.SetEnvPrefix("TASKFLOW")
	// TASKFLOW_STORAGE_BACKEND for storage.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && file == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	cfg.Log.File = expandHome(cfg.Log.File)
	return &cfg, nil
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	switch c.Storage.Backend {
	case "json", "sqlite", "memory":
	default:
		errs = append(errs, ValidationError{"storage.backend", fmt.Sprintf("unknown backend %q, want json, sqlite or memory", c.Storage.Backend)})
	}
	if c.Storage.Backend != "memory" && c.Storage.Dir == "" {
		errs = append(errs, ValidationError{"storage.dir", "must be set"})
	}
	if c.Storage.LockTimeout <= 0 {
		errs = append(errs, ValidationError{"storage.lock_timeout", "must be positive"})
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}
	if c.Focus.FocusMinutes < 1 || c.Focus.FocusMinutes > 180 {
		errs = append(errs, ValidationError{"focus.focus_minutes", "must be between 1 and 180"})
	}
	if c.Focus.BreakMinutes < 1 || c.Focus.BreakMinutes > 60 {
		errs = append(errs, ValidationError{"focus.break_minutes", "must be between 1 and 60"})
	}
	return errs
}

func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "taskflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, fallback, "taskflow")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
