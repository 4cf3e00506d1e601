// Package config loads autoinstall settings from a TOML file.
//
// A config file is optional. Lookup order:
//
//  1. the path given with --config
//  2. ./autoinstall.toml
//  3. $XDG_CONFIG_HOME/autoinstall/config.toml (~/.config/autoinstall/config.toml)
//
// Example:
//
//	yarn = true
//	production = true
//	args = ["registry=https://npm.internal", "-prefer-offline"]
//
//	[walk]
//	exclude = ["fixtures", "tmp-*"]
//
//	[history]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8089"
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/history"
	"github.com/matzehuels/autoinstall/pkg/install"
	"github.com/matzehuels/autoinstall/pkg/stream"
)

const (
	// AppName is used for config and data directories.
	AppName = "autoinstall"

	// LocalFileName is the project-local config file.
	LocalFileName = "autoinstall.toml"

	// DefaultServerAddr is the history API listen address.
	DefaultServerAddr = "127.0.0.1:8089"
)

// Config is the full settings file.
type Config struct {
	Yarn          bool `toml:"yarn"`
	Production    bool `toml:"production"`
	IgnoreScripts bool `toml:"ignore_scripts"`
	AllowRoot     bool `toml:"allow_root"`
	NoOptional    bool `toml:"no_optional"`
	SkipInstall   bool `toml:"skip_install"`

	// Args is kept untyped: a string, an array of strings, or anything
	// else (which the installer stage reports and ignores).
	Args any `toml:"args"`

	Walk    Walk           `toml:"walk"`
	History history.Config `toml:"history"`
	Server  Server         `toml:"server"`

	// path is the file the config was read from, if any.
	path string
}

// Walk configures directory traversal.
type Walk struct {
	Exclude []string `toml:"exclude"`
}

// Server configures the history API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		History: history.Config{Backend: history.BackendFile},
		Server:  Server{Addr: DefaultServerAddr},
	}
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string { return c.path }

// Validate checks the parts of the config that can be wrong up front.
// Malformed args are not an error here; they degrade at install time.
func (c *Config) Validate() error {
	if err := (stream.WalkOptions{Exclude: c.Walk.Exclude}).Validate(); err != nil {
		return err
	}
	return c.History.Validate()
}

// InstallOptions converts the config into a stage option snapshot.
func (c *Config) InstallOptions() install.Options {
	return install.Options{
		Yarn:          c.Yarn,
		Production:    c.Production,
		IgnoreScripts: c.IgnoreScripts,
		Args:          c.Args,
		AllowRoot:     c.AllowRoot,
		NoOptional:    c.NoOptional,
		SkipInstall:   c.SkipInstall,
	}
}

// WalkOptions converts the walk section into stream options.
func (c *Config) WalkOptions() stream.WalkOptions {
	return stream.WalkOptions{Exclude: c.Walk.Exclude}
}

// Parse decodes TOML data on top of the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	cfg.path = path
	return cfg, nil
}

// Load resolves the config file. An explicit path must exist; otherwise
// the first file found in the lookup order is used, and defaults apply
// when none exists.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return Default(), nil
}

func searchPaths() []string {
	paths := []string{LocalFileName}
	if dir, err := Dir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.toml"))
	}
	return paths
}

// Dir returns the user config directory (~/.config/autoinstall).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}
