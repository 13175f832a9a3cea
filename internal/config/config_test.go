package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	is := is.New(t)
	cfg := Default()
	is.Equal(cfg.Storage.Backend, "json")
	is.Equal(cfg.Storage.LockTimeout, 3*time.Second)
	is.Equal(cfg.Log.Level, "warn")
	is.Equal(cfg.Focus.Focus(), 25*time.Minute)
	is.Equal(cfg.Focus.Break(), 5*time.Minute)
	is.Equal(len(cfg.Validate()), 0)
}

func TestXDGDirs(t *testing.T) {
	is := is.New(t)
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	is.Equal(ConfigDir(), "/custom/config/taskflow")
	is.Equal(DataDir(), "/custom/data/taskflow")

	t.Setenv("XDG_DATA_HOME", "")
	home, err := os.UserHomeDir()
	is.NoErr(err)
	is.Equal(DataDir(), filepath.Join(home, ".local", "share", "taskflow"))
}

func TestInitLoad(t *testing.T) {
	is := is.New(t)
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	is.NoErr(os.WriteFile(file, []byte(`
storage:
  backend: sqlite
  dir: /tmp/taskflow-test
focus:
  focus_minutes: 50
`), 0o600))
	t.Setenv("TASKFLOW_LOG_LEVEL", "debug")

	is.NoErr(Init(file))
	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Storage.Backend, "sqlite")
	is.Equal(cfg.Storage.Dir, "/tmp/taskflow-test")
	is.Equal(cfg.Storage.LockTimeout, 3*time.Second) // default
	is.Equal(cfg.Focus.FocusMinutes, 50)
	is.Equal(cfg.Focus.BreakMinutes, 5)
	is.Equal(cfg.Log.Level, "debug") // from env
}

func TestInit_MissingExplicitFile(t *testing.T) {
	is := is.New(t)
	viper.Reset()
	t.Cleanup(viper.Reset)
	is.True(Init(filepath.Join(t.TempDir(), "nope.yaml")) != nil)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir"},
		{"lock timeout", func(c *Config) { c.Storage.LockTimeout = 0 }, "storage.lock_timeout"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"focus", func(c *Config) { c.Focus.FocusMinutes = 0 }, "focus.focus_minutes"},
		{"break", func(c *Config) { c.Focus.BreakMinutes = 90 }, "focus.break_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			cfg := Default()
			tt.edit(cfg)
			errs := cfg.Validate()
			is.Equal(len(errs), 1)
			is.Equal(errs[0].Field, tt.field)
		})
	}

	t.Run("memory needs no dir", func(t *testing.T) {
		is := is.New(t)
		cfg := Default()
		cfg.Storage.Backend = "memory"
		cfg.Storage.Dir = ""
		is.Equal(len(cfg.Validate()), 0)
	})
}
