// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the oddeven command configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all oddeven configuration.
type Config struct {
	Sort    SortConfig    `yaml:"sort"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// SortConfig configures the distributed sort.
type SortConfig struct {
	// Size is the total number of keys N.
	Size int `yaml:"size"`

	// Workers is the number of ranks P. Zero picks the largest divisor of
	// Size that does not exceed GOMAXPROCS; see ResolveWorkers.
	Workers int `yaml:"workers"`

	// Root is the rank that generates the input and collects the result.
	Root int `yaml:"root"`

	// Buffer is the capacity of each rank-to-rank link.
	Buffer int `yaml:"buffer"`
}

// DataConfig configures input generation.
type DataConfig struct {
	Max  int    `yaml:"max"`
	Seed uint64 `yaml:"seed"` // 0 = seed from the clock
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// MaxKeyLimit bounds Data.Max. Verification keeps a histogram with one
// counter per possible key.
const MaxKeyLimit = 1 << 24

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sort: SortConfig{
			Size:    100,
			Workers: 0,
			Root:    0,
			Buffer:  1,
		},
		Data: DataConfig{
			Max: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config")
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("ODDEVEN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid ODDEVEN_WORKERS %q", v)
		}
		c.Sort.Workers = n
	}
	if v := os.Getenv("ODDEVEN_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid ODDEVEN_SEED %q", v)
		}
		c.Data.Seed = seed
	}
	if v := os.Getenv("ODDEVEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// ResolveWorkers fills in an unset worker count with AutoWorkers for the
// current GOMAXPROCS. An explicit count is left alone, even when it does
// not divide Size.
func (c *Config) ResolveWorkers() {
	if c.Sort.Workers == 0 {
		c.Sort.Workers = AutoWorkers(c.Sort.Size, runtime.GOMAXPROCS(0))
	}
}

// AutoWorkers returns the largest divisor of size that is at most procs,
// so the default worker count always splits size evenly.
func AutoWorkers(size, procs int) int {
	procs = max(procs, 1)
	if size <= 0 {
		return procs
	}
	for p := min(procs, size); p > 1; p-- {
		if size%p == 0 {
			return p
		}
	}
	return 1
}

// Validate checks values that can be checked without knowing N.
// Divisibility of N by Workers is left to the sort itself. A zero
// worker count is accepted and means "resolve automatically".
func (c *Config) Validate() error {
	if c.Sort.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Sort.Workers)
	}
	if c.Sort.Size < 0 {
		return errors.Errorf("size must not be negative, got %d", c.Sort.Size)
	}
	if c.Sort.Root < 0 || (c.Sort.Workers > 0 && c.Sort.Root >= c.Sort.Workers) {
		return errors.Errorf("root %d outside [0, %d)", c.Sort.Root, c.Sort.Workers)
	}
	if c.Data.Max <= 0 {
		return errors.Errorf("max must be positive, got %d", c.Data.Max)
	}
	if c.Data.Max > MaxKeyLimit {
		return errors.Errorf("max must not exceed %d, got %d", MaxKeyLimit, c.Data.Max)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return errors.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}
