package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"

[layout]
default = "tonnetz"
params = { scale = 2.0 }

[optimize]
strategies = ["compress_paths"]

[compare]
timeout = "5s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Layout.Default != layout.Tonnetz {
		t.Errorf("Layout.Default = %q", cfg.Layout.Default)
	}
	if diff := cmp.Diff(map[string]any{"scale": 2.0}, cfg.Layout.Params); diff != "" {
		t.Errorf("Layout.Params mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"compress_paths"}, cfg.Optimize.Strategies); diff != "" {
		t.Errorf("Strategies mismatch (-want +got):\n%s", diff)
	}
	if cfg.Compare.Timeout != 5*time.Second {
		t.Errorf("Compare.Timeout = %v, want 5s", cfg.Compare.Timeout)
	}
	// untouched sections keep defaults
	if cfg.Server.Addr != DefaultServerAddr || cfg.Store.Backend != StoreFile {
		t.Errorf("defaults lost: %+v %+v", cfg.Server, cfg.Store)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want errors.Code
	}{
		{"syntax", "[cache", errors.ErrCodeInvalidFormat},
		{"unknown key", "[cache]\nbackedn = \"file\"", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"mongo without uri", "[store]\nbackend = \"mongo\"", errors.ErrCodeInvalidInput},
		{"bad layout", "[layout]\ndefault = \"spiral\"", errors.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Load() code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	t.Setenv("XDG_DATA_HOME", "")

	if dir, _ := CacheDir(); dir != filepath.Join("/tmp/custom-cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
	if path, _ := DefaultPath(); path != filepath.Join("/tmp/custom-config", AppName, "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
	home, _ := os.UserHomeDir()
	if dir, _ := DataDir(); dir != filepath.Join(home, ".local", "share", AppName, "graphs") {
		t.Errorf("DataDir() = %q", dir)
	}
}
