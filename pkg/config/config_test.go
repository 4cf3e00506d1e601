package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/history"
	"github.com/matzehuels/autoinstall/pkg/install"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(`
yarn = true
production = true
ignore_scripts = true
allow_root = true
no_optional = true
skip_install = true
args = ["registry=https://npm.internal", "-prefer-offline"]

[walk]
exclude = ["fixtures", "tmp-*"]

[history]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
redis_ttl = "72h"

[server]
addr = ":9000"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	opts := cfg.InstallOptions()
	if !opts.Yarn || !opts.Production || !opts.IgnoreScripts || !opts.AllowRoot || !opts.NoOptional || !opts.SkipInstall {
		t.Errorf("InstallOptions() = %+v, want every switch on", opts)
	}
	wantArgs := []string{"--registry=https://npm.internal", "--prefer-offline"}
	if got := install.NormalizeArgs(opts.Args, nil); !reflect.DeepEqual(got, wantArgs) {
		t.Errorf("args = %q, want %q", got, wantArgs)
	}
	if got := cfg.WalkOptions().Exclude; !reflect.DeepEqual(got, []string{"fixtures", "tmp-*"}) {
		t.Errorf("walk exclude = %q", got)
	}
	if cfg.History.Backend != history.BackendRedis || cfg.History.RedisDB != 2 || cfg.History.RedisTTL != 72*time.Hour {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestParseArgsShapes(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want []string
	}{
		{"string", `args = "verbose"`, []string{"--verbose"}},
		{"array", `args = ["a", "--b"]`, []string{"--a", "--b"}},
		{"number is ignored", `args = 42`, nil},
		{"absent", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.toml)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			got := install.NormalizeArgs(cfg.Args, nil)
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.History.Backend != history.BackendFile {
		t.Errorf("default backend = %q, want %q", cfg.History.Backend, history.BackendFile)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("default addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.InstallOptions().SkipInstall {
		t.Error("skip_install should default to false")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `yarn = `},
		{"wrong type", `yarn = "yes"`},
		{"unknown key", `yran = true`},
		{"bad exclude", "[walk]\nexclude = [\"[\"]"},
		{"bad backend", "[history]\nbackend = \"etcd\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want %v", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("yarn = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Yarn {
		t.Error("Load() should read the explicit file")
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrCodeNotFound)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	work := t.TempDir()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Chdir(work)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("no file should be found, got %q", cfg.Path())
	}

	userFile := filepath.Join(configHome, AppName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(userFile), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userFile, []byte("production = true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path() != userFile || !cfg.Production {
		t.Errorf("Load() should fall back to the user config, got %q", cfg.Path())
	}

	if err := os.WriteFile(filepath.Join(work, LocalFileName), []byte("yarn = true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path() != LocalFileName || !cfg.Yarn || cfg.Production {
		t.Errorf("project config should win, got %q", cfg.Path())
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if dir != filepath.Join("/cfg", AppName) {
		t.Errorf("Dir() = %q", dir)
	}
}
