package pusimp

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// Option configures a check.
type Option func(*checkerConfig) error

// checkerConfig holds all check configuration.
type checkerConfig struct {
	resolver   Resolver
	pathExists func(string) bool
	lookupEnv  func(string) (string, bool)
	pipCommand string

	// logger is the structured logger for debug output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// DefaultPipCommand is the command shown in remediation bullets.
const DefaultPipCommand = "pip"

// WithResolver sets how dependencies are imported. Required.
func WithResolver(r Resolver) Option {
	return func(c *checkerConfig) error {
		if r == nil {
			return errors.New("resolver must not be nil")
		}
		c.resolver = r
		return nil
	}
}

// WithPathExists replaces the filesystem test used for expected paths.
func WithPathExists(fn func(path string) bool) Option {
	return func(c *checkerConfig) error {
		c.pathExists = fn
		return nil
	}
}

// WithLookupEnv replaces os.LookupEnv for the escape-hatch variable.
func WithLookupEnv(fn func(key string) (string, bool)) Option {
	return func(c *checkerConfig) error {
		c.lookupEnv = fn
		return nil
	}
}

// WithPipCommand sets the pip invocation printed in remediation bullets,
// e.g. "python3 -m pip".
func WithPipCommand(cmd string) Option {
	return func(c *checkerConfig) error {
		c.pipCommand = cmd
		return nil
	}
}

// WithLogger sets a structured logger for check diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	pusimp.Check(ctx, guard, pusimp.WithResolver(r), pusimp.WithLogger(slog.Default()))
func WithLogger(l *slog.Logger) Option {
	return func(c *checkerConfig) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *checkerConfig) validate() error {
	if c.resolver == nil {
		return errors.New("no resolver configured: use WithResolver")
	}
	if c.pipCommand == "" {
		return errors.New("pip command must not be empty")
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *checkerConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newCheckerConfig applies opts on top of the defaults and validates the result.
func newCheckerConfig(opts ...Option) (*checkerConfig, error) {
	c := &checkerConfig{
		pathExists: fileExists,
		lookupEnv:  os.LookupEnv,
		pipCommand: DefaultPipCommand,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
