package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// defaultConfigFile is read from the working directory when no config
// file is given.
const defaultConfigFile = "wrangle.toml"

// Config controls a run of wrangle. Values come from the config file,
// then the environment, then the command line.
type Config struct {
	// Input is the target description. A relative path in a config
	// file is relative to the directory holding the file.
	Input string `toml:"input"`

	// Out is the directory the Go tables are written to.
	Out string `toml:"out"`

	// Package defaults to the target name, lower-cased.
	Package string `toml:"package"`

	// Enums, if set, is where the YAML enumeration listing is written.
	Enums string `toml:"enums"`

	Verbose bool `toml:"verbose"`
}

// loadConfig reads the config file at filename. A missing file is only an
// error if required is set.
func loadConfig(filename string, required bool) (*Config, error) {
	cfg := &Config{Out: "."}

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return cfg, nil
	case err != nil:
		return nil, err
	}

	if err := parseConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s: %s", filename, err)
	}

	dir := filepath.Dir(filename)
	if cfg.Input != "" && !filepath.IsAbs(cfg.Input) {
		cfg.Input = filepath.Join(dir, cfg.Input)
	}
	return cfg, nil
}

func parseConfig(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("unknown settings %s", strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides cfg from WRANGLE_OUT, WRANGLE_PACKAGE and
// WRANGLE_VERBOSE.
func (cfg *Config) applyEnv() {
	cfg.Out = env.Str("WRANGLE_OUT", cfg.Out)
	cfg.Package = env.Str("WRANGLE_PACKAGE", cfg.Package)
	if env.Bool("WRANGLE_VERBOSE") {
		cfg.Verbose = true
	}
}

// packageName returns the Go package for the tables of target.
func (cfg *Config) packageName(target string) string {
	if cfg.Package != "" {
		return cfg.Package
	}
	return strings.ReplaceAll(makeIdentUnderscores(target), "_", "")
}

// outputFile returns where the Go tables of target are written.
func (cfg *Config) outputFile(target string) string {
	return filepath.Join(cfg.Out, makeIdentUnderscores(target)+"_instrinfo.go")
}
