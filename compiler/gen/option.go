package gen

import (
	"errors"
	"go/token"
)

// Option sets one field of a Config, or reports why it cannot.
type Option func(*Config) error

// WithHeader replaces DefaultHeader in generated files. An empty header
// restores the default.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the import path the target directory is imported as,
// e.g. "github.com/acme/app/queries".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the directory the builder packages are written below.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers bounds the number of packages rendered at once.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithBuildFlags appends flags passed to the go command when record
// packages are loaded, e.g. "-tags=dev".
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithSource adds a Go package to read record types from: the named types,
// or every exported struct type when none are named.
func WithSource(pkg string, types ...string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Source", nil, "source package cannot be empty")
		}
		for _, name := range types {
			if !token.IsIdentifier(name) {
				return NewConfigError("Source", name, "type name is not a Go identifier")
			}
		}
		c.Sources = append(c.Sources, Source{Package: pkg, Types: types})
		return nil
	}
}

// Apply runs opts in order and stops at the first failing one.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll runs every option and joins the failures.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		errs = append(errs, opt(c))
	}
	return errors.Join(errs...)
}

// NewConfig returns a Config built from opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
