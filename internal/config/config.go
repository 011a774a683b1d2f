// # internal/config/config.go
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"depmap/internal/graph"
	"depmap/internal/resolver"
)

type Config struct {
	Exclude       Exclude       `toml:"exclude"`
	Limits        Limits        `toml:"limits"`
	Stdlib        Stdlib        `toml:"stdlib"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	// Patterns match directory and file base names during the walk.
	Patterns []string `toml:"patterns"`
}

type Limits struct {
	MaxCycleLength int `toml:"max_cycle_length"`
	MaxTreeDepth   int `toml:"max_tree_depth"`
	Workers        int `toml:"workers"`
}

type Stdlib struct {
	// Extra adds names treated as stdlib per language; Ignore removes
	// embedded entries.
	Extra  map[string][]string `toml:"extra"`
	Ignore map[string][]string `toml:"ignore"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	Listen       string  `toml:"listen"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRate   float64 `toml:"sample_rate"`
}

func Default() *Config {
	return &Config{
		Limits: Limits{
			MaxCycleLength: graph.DefaultMaxCycleLength,
			MaxTreeDepth:   graph.DefaultMaxTreeDepth,
		},
		Watch:         Watch{Debounce: 500 * time.Millisecond},
		Observability: Observability{SampleRate: 1.0},
	}
}

// Load reads a depmap.toml. A missing file is not an error: defaults
// apply so the tool works without any configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Limits.MaxCycleLength <= 0 {
		cfg.Limits.MaxCycleLength = graph.DefaultMaxCycleLength
	}
	if cfg.Limits.MaxTreeDepth <= 0 {
		cfg.Limits.MaxTreeDepth = graph.DefaultMaxTreeDepth
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}

	return cfg, nil
}

// StdlibTable materializes the embedded stdlib tables with the config's
// overrides applied.
func (c *Config) StdlibTable() *resolver.Table {
	table := resolver.DefaultTable()
	for lang, names := range c.Stdlib.Extra {
		for _, name := range names {
			table.Add(lang, name)
		}
	}
	for lang, names := range c.Stdlib.Ignore {
		for _, name := range names {
			table.Remove(lang, name)
		}
	}
	return table
}
