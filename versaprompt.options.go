package versaprompt

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	logger          *zap.Logger
	storage         PromptStorage
	flatten         FlattenStrategy
	defaultBindings map[string]string
	strictBindings  bool
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		flatten: RolePrefixStrategy{},
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithStorage sets the backend used by Save and as fallback for Load.
// The engine closes it on Close.
func WithStorage(storage PromptStorage) Option {
	return func(c *engineConfig) {
		c.storage = storage
	}
}

// WithFlattenStrategy sets the strategy used by Engine.Flatten.
// Default: RolePrefixStrategy
func WithFlattenStrategy(strategy FlattenStrategy) Option {
	return func(c *engineConfig) {
		if strategy != nil {
			c.flatten = strategy
		}
	}
}

// WithDefaultBindings sets values applied to every render. Document
// defaults are applied first, then these, then the caller's bindings.
func WithDefaultBindings(bindings map[string]string) Option {
	return func(c *engineConfig) {
		c.defaultBindings = copyStringMap(bindings)
	}
}

// WithStrictBindings makes Render reject caller bindings that name no
// placeholder of the prompt.
func WithStrictBindings(strict bool) Option {
	return func(c *engineConfig) {
		c.strictBindings = strict
	}
}
