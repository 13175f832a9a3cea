package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestParseLevel(t *testing.T) {
	is := is.New(t)
	is.Equal(ParseLevel("DEBUG"), slog.LevelDebug)
	is.Equal(ParseLevel("info"), slog.LevelInfo)
	is.Equal(ParseLevel("error"), slog.LevelError)
	is.Equal(ParseLevel(""), slog.LevelWarn)
}

func TestNew_FiltersByLevel(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info("hidden")
	log.Warn("malformed storage", "key", "tasks")

	var entry map[string]interface{}
	is.NoErr(json.Unmarshal(buf.Bytes(), &entry))
	is.Equal(entry["msg"], "malformed storage")
	is.Equal(entry["key"], "tasks")
}

func TestSetup_File(t *testing.T) {
	is := is.New(t)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	file := filepath.Join(t.TempDir(), "logs", "taskflow.log")
	log, closer, err := Setup("debug", file)
	is.NoErr(err)
	log.Debug("opened")
	is.NoErr(closer.Close())

	bs, err := os.ReadFile(file)
	is.NoErr(err)
	is.True(bytes.Contains(bs, []byte(`"msg":"opened"`)))
}
