package smemo

import (
	"go.uber.org/zap"
)

// Option configures a Session created by NewSession.
type Option func(*sessionConfig)

type sessionConfig struct {
	parent     *Session
	restrict   []*Binding
	restricted bool
	registry   *Registry
	logger     *zap.Logger
}

// newSessionConfig applies opts and fills in defaults. A child inherits the
// registry and logger of its parent unless they are set explicitly.
func newSessionConfig(opts []Option) sessionConfig {
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		if cfg.parent != nil {
			cfg.registry = cfg.parent.registry
		} else {
			cfg.registry = DefaultRegistry
		}
	}
	if cfg.logger == nil {
		if cfg.parent != nil {
			cfg.logger = cfg.parent.logger
		} else {
			cfg.logger = zap.NewNop()
		}
	}
	return cfg
}

// WithParent makes the session consult parent when a lookup misses locally.
func WithParent(parent *Session) Option {
	return func(cfg *sessionConfig) {
		cfg.parent = parent
	}
}

// WithRestrict limits the local store to bindings. Every other binding is
// read from, written to and invalidated in the parent. Called with no
// bindings, everything goes to the parent.
//
// A restricted session must have a parent.
func WithRestrict(bindings ...*Binding) Option {
	return func(cfg *sessionConfig) {
		cfg.restricted = true
		cfg.restrict = append(cfg.restrict, bindings...)
	}
}

// WithRegistry sets the registry whose getter backs GetVal and PutVal.
// Children inherit it.
func WithRegistry(registry *Registry) Option {
	return func(cfg *sessionConfig) {
		cfg.registry = registry
	}
}

// WithLogger sets the logger cache events are reported to at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *sessionConfig) {
		cfg.logger = logger
	}
}
