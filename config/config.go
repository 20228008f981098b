// Package config loads the run-time settings that affect how the engine
// executes a pipeline, as opposed to the pipeline's own topology: where
// to look for task plugins and how much profiling data to collect. It is
// the Go reshaping of UfoConfig's GObject property set (paths,
// profile-level, profile-output-prefix) into a plain struct loaded from
// YAML via gopkg.in/yaml.v3, following the teacher's
// Options-struct-plus-Default*Options construction pattern.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProfileLevel controls how much profiling data the profile package
// collects, mirroring UfoProfilerLevel.
type ProfileLevel string

const (
	ProfileLevelNone  ProfileLevel = "none"
	ProfileLevelBasic ProfileLevel = "basic"
	ProfileLevelFull  ProfileLevel = "full"
)

// Config is the run-time settings record, loaded once at startup and
// passed to whatever components need it (the plugin loader, the profile
// package).
type Config struct {
	// SearchPaths is an ordered list of directories searched for task
	// plugins. Order matters: the first directory containing a matching
	// plugin wins, the same first-match-wins contract
	// ufo_config_add_path's callers relied on.
	SearchPaths []string `yaml:"search_paths"`

	ProfileLevel        ProfileLevel `yaml:"profile_level"`
	ProfileOutputPrefix string       `yaml:"profile_output_prefix"`
}

// Default returns the built-in configuration: a couple of conventional
// install locations to search, and profiling off.
func Default() *Config {
	return &Config{
		SearchPaths: []string{
			"/usr/local/lib/ufoengine",
			"/usr/lib/ufoengine",
		},
		ProfileLevel: ProfileLevelNone,
	}
}

// Load reads a YAML configuration file at path. Fields left unset in the
// file keep Default's values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AddPath appends a directory to the end of the search path list, the
// Go equivalent of ufo_config_add_path.
func (c *Config) AddPath(path string) {
	c.SearchPaths = append(c.SearchPaths, path)
}
