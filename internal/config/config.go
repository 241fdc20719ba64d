// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config loads per-repository linter settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"cclint/internal/check"
)

// FileName is the name of the configuration file. It is searched for in
// the directory of each checked file and its ancestors; the nearest one
// wins.
const FileName = ".cclint.yaml"

// Config holds settings read from a configuration file.
type Config struct {
	// Verbose is the minimum confidence of reported issues, from 1 to 5.
	Verbose int `yaml:"verbose"`

	// Filters are category filters applied in order, each prefixed with
	// '+' or '-'.
	Filters []string `yaml:"filters"`

	// DisallowMacros overrides the recognized constructor suppression
	// macro names.
	DisallowMacros []string `yaml:"disallow_macros"`

	// Exclude lists glob patterns of files to skip. Each pattern is
	// matched against the checked path relative to the repository root,
	// and against its base name.
	Exclude []string `yaml:"exclude"`
}

// Default returns the settings used when no configuration file exists.
func Default() *Config {
	return &Config{Verbose: 1}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return cfg, nil
}

// Find locates the configuration file governing dir by walking up the
// directory tree. It returns the default settings when no file is found.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if c.Verbose < 1 || c.Verbose > 5 {
		return fmt.Errorf("verbose must be between 1 and 5; got %d", c.Verbose)
	}
	if err := check.ValidateFilters(c.Filters); err != nil {
		return err
	}
	if err := check.ValidateMacros(c.DisallowMacros); err != nil {
		return err
	}
	for _, pat := range c.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("exclude pattern %q: %v", pat, err)
		}
	}
	return nil
}

// Excluded reports whether path matches one of the exclude patterns.
func (c *Config) Excluded(path string) bool {
	for _, pat := range c.Exclude {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}
