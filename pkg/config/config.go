// Package config holds the compiler configuration file format.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultOptimizationLevel = 2
)

// PassConfig selects optimization passes by name. An explicit disable
// always wins over the optimization level.
type PassConfig struct {
	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`
}

// EmitConfig chooses which intermediate artifacts are written
type EmitConfig struct {
	IR                bool `yaml:"ir"`
	OptimizedIR       bool `yaml:"optimizedIr"`
	Bytecode          bool `yaml:"bytecode"`
	OptimizedBytecode bool `yaml:"optimizedBytecode"`
}

// Config is the on-disk compiler configuration
type Config struct {
	// Optimization level 0-3. 0 disables all rewriting.
	OptimizationLevel *int `yaml:"optimizationLevel"`
	// Escalate warnings (config, artifact I/O) to errors.
	WarningsAsErrors bool `yaml:"warningsAsErrors"`
	// Strip circuit names from generated bytecode.
	StripDebugInfo bool       `yaml:"stripDebugInfo"`
	Passes         PassConfig `yaml:"passes"`
	Emit           EmitConfig `yaml:"emit"`
	LogFile        string     `yaml:"logFile"`
}

// WithDefaults returns a copy of the Config with any missing fields set to
// their default values.
func (c Config) WithDefaults() Config {
	cpy := c
	if cpy.OptimizationLevel == nil {
		level := defaultOptimizationLevel
		cpy.OptimizationLevel = &level
	}
	return cpy
}

// Level returns the configured optimization level
func (c Config) Level() int {
	if c.OptimizationLevel == nil {
		return defaultOptimizationLevel
	}
	return *c.OptimizationLevel
}

// Load reads and validates a configuration file
func Load(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(err, "parse config")
	}
	c = c.WithDefaults()
	if c.Level() < 0 || c.Level() > 3 {
		return c, errors.Errorf("optimization level %d out of range 0-3", c.Level())
	}
	return c, nil
}
