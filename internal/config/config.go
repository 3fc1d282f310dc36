// Package config reads the optional elab.yaml project file. Everything in it
// can be overridden by flags of the CLI.
package config

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cottand/elab/frontend/names"
)

// FileName is the project file looked up in the working directory
const FileName = "elab.yaml"

const defaultLogLevel = "error"

// Config models elab.yaml:
//
//	main: Main
//	log-level: debug
//	log-sections: [elaborate, kindcheck]
//	dump-env: true
//	modules:
//	  - prelude.yaml
//	  - main.yaml
type Config struct {
	// Main is the module that holds the program entry point, if any
	Main        string   `yaml:"main"`
	LogLevel    string   `yaml:"log-level"`
	LogSections []string `yaml:"log-sections"`
	DumpEnv     bool     `yaml:"dump-env"`
	// Modules are checked in order, before any module file given on the command line
	Modules []string `yaml:"modules"`
}

func Default() Config {
	return Config{LogLevel: defaultLogLevel}
}

// Load reads the project file at path. A missing file is not an error when
// optional is set: the default configuration is returned instead.
func Load(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}
	c.normalize(filepath.Dir(path))
	return c, nil
}

// Parse reads a project file, rejecting unknown keys
func Parse(data []byte) (Config, error) {
	c := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	c.Main = strings.TrimSpace(c.Main)
	c.LogLevel = strings.TrimSpace(c.LogLevel)
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// normalize makes module paths relative to the directory of the project file
func (c *Config) normalize(base string) {
	for i, module := range c.Modules {
		module = strings.TrimSpace(module)
		if module != "" && !filepath.IsAbs(module) {
			module = filepath.Join(base, module)
		}
		c.Modules[i] = module
	}
}

func (c *Config) validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	for i, module := range c.Modules {
		if strings.TrimSpace(module) == "" {
			return errors.Errorf("modules[%d] is empty", i)
		}
	}
	return nil
}

// Level is the slog level named by LogLevel, like "debug" or "warn+2"
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "log-level")
	}
	return level, nil
}

// MainModule is nil when no main module is configured
func (c Config) MainModule() *names.ModuleName {
	if c.Main == "" {
		return nil
	}
	main := names.ModuleName(c.Main)
	return &main
}
