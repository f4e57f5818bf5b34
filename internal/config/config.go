// Package config loads the initial branch payload for the demo binary.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sghaida/osingleton/branch"
	"gopkg.in/yaml.v3"
)

// Config is the demo configuration.
type Config struct {
	// Branch is the payload for the first Construct call.
	Branch branch.Record

	// SeedFile optionally points at a YAML file holding a branch record.
	SeedFile string `env:"BRANCH_SEED_FILE"`

	LogLevel string `env:"BRANCH_LOG_LEVEL" envDefault:"info"`
}

// seed is the YAML document shape of a seed file.
type seed struct {
	Branch branch.Record `yaml:"branch"`
}

type loadOptions struct {
	environ   map[string]string
	defaults  branch.Record
	overrides branch.Record
}

// Option customizes Load.
type Option func(*loadOptions)

// WithEnvironment makes Load read environ instead of the process environment.
func WithEnvironment(environ map[string]string) Option {
	return func(o *loadOptions) { o.environ = environ }
}

// WithDefaults sets branch fields used when no other source sets them.
func WithDefaults(rec branch.Record) Option {
	return func(o *loadOptions) { o.defaults = rec }
}

// WithOverrides sets branch fields that win over every other source
// (typically command-line flags). Empty fields are ignored.
func WithOverrides(rec branch.Record) Option {
	return func(o *loadOptions) { o.overrides = rec }
}

// Load builds the configuration and validates the branch record.
//
// Branch fields are layered, lowest first: defaults, seed file, env, overrides.
func Load(opts ...Option) (Config, error) {
	var o loadOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	envOpts := env.Options{}
	if o.environ != nil {
		envOpts.Environment = o.environ
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	rec := o.defaults
	if strings.TrimSpace(cfg.SeedFile) != "" {
		fromFile, err := readSeed(cfg.SeedFile)
		if err != nil {
			return Config{}, err
		}
		rec = merge(rec, fromFile)
	}
	rec = merge(rec, cfg.Branch)
	cfg.Branch = merge(rec, o.overrides)

	if err := cfg.Branch.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readSeed(path string) (branch.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return branch.Record{}, fmt.Errorf("read seed file: %w", err)
	}
	var s seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return branch.Record{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return s.Branch, nil
}

// merge returns base with every non-empty field of override applied.
func merge(base, override branch.Record) branch.Record {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.Telephone != "" {
		base.Telephone = override.Telephone
	}
	return base
}
