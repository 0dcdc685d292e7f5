package versaprompt

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Engine is the main entry point for named prompts. It holds registered
// documents in memory, optionally falls back to a PromptStorage, and renders
// prompts with layered bindings.
type Engine struct {
	registry map[string]*Document
	mu       sync.RWMutex
	storage  PromptStorage
	config   *engineConfig
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug(LogMsgEngineCreated,
		zap.Bool("storage", config.storage != nil),
		zap.Bool("strict_bindings", config.strictBindings),
	)

	return &Engine{
		registry: make(map[string]*Document),
		storage:  config.storage,
		config:   config,
		logger:   logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Register adds a validated copy of doc to the in-memory registry.
// Returns an error if a document with the same name is already registered.
func (e *Engine) Register(doc *Document) error {
	if doc == nil {
		return NewNilPromptError()
	}
	if doc.Name == "" {
		return NewDocumentError(ErrMsgDocumentMissingName, "")
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.registry[doc.Name]; exists {
		return NewPromptExistsError(doc.Name)
	}
	e.registry[doc.Name] = doc.Clone()

	e.logger.Debug(LogMsgDocumentRegistered,
		zap.String(LogFieldPromptName, doc.Name),
		zap.Int(LogFieldMessages, len(doc.Messages)),
	)
	return nil
}

// MustRegister registers doc and panics if registration fails.
func (e *Engine) MustRegister(doc *Document) {
	if err := e.Register(doc); err != nil {
		panic(err)
	}
}

// Unregister removes a document from the registry.
// Returns true if it existed.
func (e *Engine) Unregister(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.registry[name]; !exists {
		return false
	}
	delete(e.registry, name)
	return true
}

// Names returns the registered document names in sorted order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.registry))
	for name := range e.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save validates doc and stores it as a new version in the configured
// storage.
func (e *Engine) Save(ctx context.Context, doc *Document) error {
	if e.storage == nil {
		return NewNoStorageError()
	}
	if doc == nil {
		return NewNilPromptError()
	}
	if doc.Name == "" {
		return NewDocumentError(ErrMsgDocumentMissingName, "")
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	stored := &StoredPrompt{Name: doc.Name, Document: doc.Clone()}
	if err := e.storage.Save(ctx, stored); err != nil {
		return err
	}

	e.logger.Debug(LogMsgDocumentSaved,
		zap.String(LogFieldPromptName, stored.Name),
		zap.Int(LogFieldVersion, stored.Version),
	)
	return nil
}

// Document returns a copy of the named document. The registry is consulted
// first, then storage.
func (e *Engine) Document(ctx context.Context, name string) (*Document, error) {
	e.mu.RLock()
	doc, ok := e.registry[name]
	e.mu.RUnlock()
	if ok {
		e.logger.Debug(LogMsgPromptLoaded,
			zap.String(LogFieldPromptName, name),
			zap.String(LogFieldSource, SourceRegistry),
		)
		return doc.Clone(), nil
	}

	if e.storage == nil {
		return nil, NewPromptNotFoundError(name)
	}

	stored, err := e.storage.Get(ctx, name)
	if err != nil {
		if IsNotFoundError(err) {
			e.logger.Debug(LogMsgStorageMiss, zap.String(LogFieldPromptName, name))
			return nil, NewPromptNotFoundError(name)
		}
		return nil, err
	}

	e.logger.Debug(LogMsgPromptLoaded,
		zap.String(LogFieldPromptName, name),
		zap.String(LogFieldSource, SourceStorage),
		zap.Int(LogFieldVersion, stored.Version),
	)
	return stored.Document.Clone(), nil
}

// Load returns a fresh, unresolved PromptList for the named document.
// Document default variables are not applied.
func (e *Engine) Load(ctx context.Context, name string) (*PromptList, error) {
	doc, err := e.Document(ctx, name)
	if err != nil {
		return nil, err
	}
	return doc.PromptList(), nil
}

// Render loads the named prompt and resolves it. Document defaults are
// applied first, then engine defaults, then bindings.
func (e *Engine) Render(ctx context.Context, name string, bindings map[string]string) (*ResolvedPromptList, error) {
	doc, err := e.Document(ctx, name)
	if err != nil {
		return nil, err
	}

	if e.config.strictBindings {
		if err := checkBindings(doc, bindings); err != nil {
			return nil, err
		}
	}

	merged := mergeBindings(doc.Variables, e.config.defaultBindings, bindings)
	resolved, err := doc.PromptList().ResolveWith(merged)
	if err != nil {
		fields := []zap.Field{
			zap.String(LogFieldPromptName, name),
			zap.Error(err),
		}
		if IsUnresolvedVarsError(err) {
			remaining, _ := doc.Placeholders()
			fields = append(fields, zap.Strings(LogFieldUnresolved, unboundNames(remaining, merged)))
		}
		e.logger.Debug(LogMsgRenderFailed, fields...)
		return nil, err
	}

	e.logger.Debug(LogMsgPromptRendered,
		zap.String(LogFieldPromptName, name),
		zap.Int(LogFieldMessages, resolved.Len()),
		zap.Strings(LogFieldBindings, sortedKeys(merged)),
	)
	return resolved, nil
}

// RenderFor renders the named prompt and returns the messages matching
// pattern, or all messages when none match.
func (e *Engine) RenderFor(ctx context.Context, name string, pattern Pattern, bindings map[string]string) ([]Message, error) {
	resolved, err := e.Render(ctx, name, bindings)
	if err != nil {
		return nil, err
	}

	msgs, matched := resolved.selectByPattern(pattern)
	if !matched {
		e.logger.Warn(LogMsgPatternFallback,
			zap.String(LogFieldPromptName, name),
			zap.String(LogFieldPattern, string(pattern)),
		)
	}
	return msgs, nil
}

// Flatten renders resolved with the engine's flatten strategy.
func (e *Engine) Flatten(resolved *ResolvedPromptList) string {
	return resolved.Flatten(e.config.flatten)
}

// ListVersions returns the stored versions of name, newest first.
func (e *Engine) ListVersions(ctx context.Context, name string) ([]int, error) {
	if e.storage == nil {
		return nil, NewNoStorageError()
	}
	return e.storage.ListVersions(ctx, name)
}

// Storage returns the configured storage, or nil.
func (e *Engine) Storage() PromptStorage {
	return e.storage
}

// Close releases the configured storage.
func (e *Engine) Close() error {
	if e.storage == nil {
		return nil
	}
	return e.storage.Close()
}

// checkBindings rejects bindings that name no placeholder of doc.
func checkBindings(doc *Document, bindings map[string]string) error {
	names, err := doc.Placeholders()
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(bindings) {
		if !containsString(names, key) {
			return NewUnknownBindingError(key, names)
		}
	}
	return nil
}

func unboundNames(names []string, bindings map[string]string) []string {
	var out []string
	for _, name := range names {
		if _, ok := bindings[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
