package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/flipgraph/flipgraph/pkg/replay"
)

// =============================================================================
// Run Configuration
// =============================================================================

// RunConfig holds replay options loadable from a TOML file. Command-line
// flags take precedence over config values.
type RunConfig struct {
	Graph          string   `toml:"graph"`
	AssignmentAttr string   `toml:"assignment_attr"`
	Assignment     string   `toml:"assignment"`
	Steps          string   `toml:"steps"`
	Tally          []string `toml:"tally"`
	Formats        []string `toml:"formats"`
	Engine         string   `toml:"engine"`
	Detailed       bool     `toml:"detailed"`
}

// LoadRunConfig reads and parses a TOML run configuration file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg RunConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyTo fills unset fields of opts from the config. Fields already set on
// opts (from flags) are left alone.
func (c *RunConfig) ApplyTo(opts *replay.Options) {
	if opts.GraphPath == "" {
		opts.GraphPath = c.Graph
	}
	if opts.AssignmentAttr == "" {
		opts.AssignmentAttr = c.AssignmentAttr
	}
	if opts.AssignmentPath == "" {
		opts.AssignmentPath = c.Assignment
	}
	if opts.StepsPath == "" {
		opts.StepsPath = c.Steps
	}
	if len(opts.TallyAttrs) == 0 {
		opts.TallyAttrs = c.Tally
	}
	if len(opts.Formats) == 0 {
		opts.Formats = c.Formats
	}
	if opts.Engine == "" {
		opts.Engine = c.Engine
	}
	if !opts.Detailed {
		opts.Detailed = c.Detailed
	}
}
