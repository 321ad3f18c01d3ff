package gen

import (
	"runtime"

	"github.com/croutondev/crouton/compiler/load"
	"github.com/croutondev/crouton/dialect"
)

// Config carries everything the generator needs for one run.
type Config struct {
	// Dialect selects the column-type mapping for the table emitter.
	Dialect dialect.Dialect
	// Root is the output directory holding the layer tree.
	Root string
	// Package is the import path prefix of the generated Go code,
	// e.g. "example.com/app". Generated files import their layer
	// packages through it.
	Package string
	// Header is placed at the top of every generated file.
	Header string
	// UseTeams adds team/owner columns and membership checks.
	UseTeams bool
	// UseMetadata adds created_at/updated_at audit columns.
	UseMetadata bool
	// Force overwrites existing output files.
	Force bool
	// DryRun previews artifacts without touching the tree.
	DryRun bool
	// Workers bounds the parallel artifact rendering.
	Workers int
	// Features holds the enabled optional features.
	Features []Feature
}

// DefaultHeader is used when no header is configured.
const DefaultHeader = "Code generated by crouton. DO NOT EDIT."

// Option configures code generation.
type Option func(*Config) error

// WithDialect sets the target dialect.
func WithDialect(d dialect.Dialect) Option {
	return func(c *Config) error {
		if !d.Valid() {
			return NewConfigError("Dialect", d.String(), "unsupported dialect; use sqlite or postgres")
		}
		c.Dialect = d
		return nil
	}
}

// WithRoot sets the output directory holding the layer tree.
func WithRoot(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Root", nil, "output root cannot be empty")
		}
		c.Root = dir
		return nil
	}
}

// WithPackage sets the import path prefix of the generated code.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTeams toggles multi-tenant team scoping.
func WithTeams(on bool) Option {
	return func(c *Config) error {
		c.UseTeams = on
		return nil
	}
}

// WithMetadata toggles audit timestamp columns.
func WithMetadata(on bool) Option {
	return func(c *Config) error {
		c.UseMetadata = on
		return nil
	}
}

// WithForce overwrites existing output files.
func WithForce(on bool) Option {
	return func(c *Config) error {
		c.Force = on
		return nil
	}
}

// WithDryRun previews without writing.
func WithDryRun(on bool) Option {
	return func(c *Config) error {
		c.DryRun = on
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithFeatures enables optional features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// Apply applies options to the config, returning the first error.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig creates a Config with defaults applied, then the options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Root:    "layers",
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if !c.Dialect.Valid() {
		return nil, NewConfigError("Dialect", nil, "no dialect set: pass WithDialect")
	}
	// WithFeatures replaces the defaults rather than extending them.
	if c.Features == nil {
		c.Features = DefaultFeatures()
	}
	return c, nil
}

// MustNewConfig creates a Config and panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// FromProject derives generator options from a loaded project config.
func FromProject(pc *load.ProjectConfig) []Option {
	return []Option{
		WithDialect(pc.Dialect),
		WithTeams(pc.Flags.UseTeamUtility),
		WithMetadata(pc.Flags.UseMetadata),
	}
}

// FeatureEnabled reports if the named feature is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}
