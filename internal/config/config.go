// Package config holds symconv's settings, read through viper from
// symconv.yaml, SYMCONV_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/OpenTraceLab/symconv/pkg/kicad/symbol"
)

// Setting keys
const (
	KeySymbolsDir   = "symbols_dir"
	KeyFootprintLib = "footprint_lib"
	KeyGenerator    = "generator"
	KeyVersion      = "version"
)

const (
	Name      = "symconv"
	EnvPrefix = "SYMCONV"

	DefaultSymbolsDir = "components/extern/symbols"
)

// Config controls where symbols go and how they are written
type Config struct {
	SymbolsDir   string `mapstructure:"symbols_dir"`   // directory of .kicad_sym libraries
	FootprintLib string `mapstructure:"footprint_lib"` // footprint library linked by add (optional)
	Generator    string `mapstructure:"generator"`
	Version      int    `mapstructure:"version"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		SymbolsDir: DefaultSymbolsDir,
		Generator:  symbol.DefaultGenerator,
		Version:    symbol.DefaultVersion,
	}
}

// Validate checks the configuration, filling empty values with defaults
func (c *Config) Validate() error {
	if c.SymbolsDir == "" {
		c.SymbolsDir = DefaultSymbolsDir
	}
	if c.Generator == "" {
		c.Generator = symbol.DefaultGenerator
	}
	if strings.ContainsAny(c.Generator, " \t\r\n()\"") {
		return fmt.Errorf("generator %q must be a single bare word", c.Generator)
	}
	if c.Version == 0 {
		c.Version = symbol.DefaultVersion
	}
	if c.Version < 0 {
		return fmt.Errorf("version must be positive, got %d", c.Version)
	}
	if strings.ContainsAny(c.FootprintLib, ":\"") {
		return fmt.Errorf("footprint library %q must not contain ':' or '\"'", c.FootprintLib)
	}
	return nil
}

// SymbolOptions returns emitter options for this configuration
func (c *Config) SymbolOptions() symbol.Options {
	return symbol.Options{Version: c.Version, Generator: c.Generator}
}

// LibraryPath resolves a library argument. A bare name such as "extern"
// becomes <symbols_dir>/extern.kicad_sym; anything with a directory or the
// .kicad_sym extension is used as given.
func (c *Config) LibraryPath(name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') ||
		filepath.Ext(name) == ".kicad_sym" {
		return name
	}
	return filepath.Join(c.SymbolsDir, name+".kicad_sym")
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeySymbolsDir, d.SymbolsDir)
	v.SetDefault(KeyFootprintLib, d.FootprintLib)
	v.SetDefault(KeyGenerator, d.Generator)
	v.SetDefault(KeyVersion, d.Version)
}

// Init points v at the config file (or the default search path) and the
// environment. A missing default config file is not an error; a missing
// explicit one is.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes and validates the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
