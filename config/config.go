// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the results-repository configuration: which base
// versions head runs are compared against, how the summary index is
// trimmed, and which longitudinal series the trend chart tracks.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Series names one longitudinal trend: all results whose version
// starts with Version, compared against the configured Base release.
type Series struct {
	Version string `yaml:"version"`
	Base    string `yaml:"base"`
}

// Summary tunes the trimmed "recent" index view.
type Summary struct {
	// Recent is how many of the most recent results to always keep.
	Recent int `yaml:"recent"`
	// Days keeps any result run within this many days.
	Days int `yaml:"days"`
}

// Config is the parsed bases.yaml.
type Config struct {
	// Bases are the reference versions every applicable result is
	// compared against, e.g. ["3.11.0", "3.12.0"].
	Bases []string `yaml:"bases"`

	// Fork is the fork whose results feed the longitudinal chart.
	Fork string `yaml:"fork"`

	Summary Summary `yaml:"summary"`

	Longitudinal []Series `yaml:"longitudinal"`
}

// Default values applied when the file leaves them unset.
var defaults = Config{
	Fork:    "python",
	Summary: Summary{Recent: 3, Days: 3},
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Summary.Recent == 0 {
		cfg.Summary.Recent = defaults.Summary.Recent
	}
	if cfg.Summary.Days == 0 {
		cfg.Summary.Days = defaults.Summary.Days
	}
	return &cfg, nil
}
