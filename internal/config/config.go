// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads explorer configuration from an optional YAML file.
// Command-line flags override file values; the file only supplies
// defaults. With strict mode the raw document is additionally validated
// against an embedded CUE schema before use, so typos fail loudly
// instead of silently falling back to defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/abstractmachine/aam/explore"
)

//go:embed schema.cue
var schemaSrc string

// Config mirrors the YAML document.
type Config struct {
	Timeout     string `yaml:"timeout,omitempty"`
	Graph       bool   `yaml:"graph,omitempty"`
	Subsumption bool   `yaml:"subsumption,omitempty"`
	KBound      int    `yaml:"kbound,omitempty"`
	Order       string `yaml:"order,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Order: "lifo"}
}

// Load reads and decodes path. With strict set the document must also
// satisfy the embedded schema.
func Load(path string, strict bool) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strict {
		if err := validate(raw); err != nil {
			return nil, err
		}
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.Order == "" {
		cfg.Order = "lifo"
	}
	return cfg, nil
}

// validate checks the raw YAML document against the embedded CUE schema.
func validate(raw []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config: internal schema error: %w", err)
	}
	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(doc))
	if err := value.Validate(); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// Options converts the configuration to explorer options.
func (c *Config) Options() (explore.Options, error) {
	opts := explore.Options{
		Graph:       c.Graph,
		Subsumption: c.Subsumption,
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return opts, fmt.Errorf("config: timeout: %w", err)
		}
		opts.Timeout = d
	}
	switch c.Order {
	case "", "lifo":
		opts.Order = explore.LIFO
	case "fifo":
		opts.Order = explore.FIFO
	default:
		return opts, fmt.Errorf("config: order must be lifo or fifo, got %q", c.Order)
	}
	return opts, nil
}
