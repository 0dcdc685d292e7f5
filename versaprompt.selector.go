package versaprompt

import "sync"

type selectorEntry struct {
	pattern Pattern
	prompt  *PromptList
}

// Selector picks a prompt list by pattern, e.g. one variant per model
// family. Entries are checked in insertion order. Safe for concurrent use.
type Selector struct {
	mu       sync.RWMutex
	entries  []selectorEntry
	fallback *PromptList
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Add registers prompt under pattern. The selector keeps its own copy.
func (s *Selector) Add(pattern Pattern, prompt *PromptList) error {
	if prompt == nil {
		return NewNilPromptError()
	}
	if pattern == "" {
		return NewEmptyPatternError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, selectorEntry{pattern: pattern, prompt: prompt.Clone()})
	return nil
}

// Default sets the prompt returned when no pattern matches.
func (s *Selector) Default(prompt *PromptList) error {
	if prompt == nil {
		return NewNilPromptError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = prompt.Clone()
	return nil
}

// Select returns a fresh copy of the first prompt whose pattern matches
// query, else of the default.
func (s *Selector) Select(query Pattern) (*PromptList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.pattern.Matches(query) {
			return e.prompt.Clone(), nil
		}
	}
	if s.fallback != nil {
		return s.fallback.Clone(), nil
	}
	return nil, NewNoMatchingPromptError(query)
}

// Len returns the number of registered patterns.
func (s *Selector) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
