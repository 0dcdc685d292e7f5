// Package versaprompt provides reusable, role-tagged prompt templates for
// generative language models.
//
// Templates carry {{name}} placeholders that are bound to values and then
// finalized into an immutable prompt:
//
//	p := versaprompt.NewPrompt("Hello {{name}}! What is your {{question}}?")
//	_ = p.Format(map[string]string{"name": "ChatGPT", "question": "favorite color"})
//	resolved, err := p.Resolve()
//	// resolved.String(): "Hello ChatGPT! What is your favorite color?"
//
// # Chat Prompts
//
// PromptList holds an ordered sequence of messages, each with its own tags.
// The Chat builder is the short way to assemble one:
//
//	list := versaprompt.Chat(
//	    versaprompt.System("Classify the text into ", "neutral, negative or positive."),
//	    versaprompt.User("{{input}}"),
//	)
//
// # Resolution
//
// Resolve is the only way to obtain a ResolvedPrompt or ResolvedPromptList.
// It fails with ErrUnresolvedVars while any well-formed placeholder remains
// and spends the unresolved value either way; Clone first if a retry is
// planned. Unterminated markers such as "{{name" are ordinary text.
//
// # Pattern Selection
//
// Messages may carry Pattern tags. GetPromptByPattern returns the messages
// tagged with a matching pattern, or every message when none match:
//
//	msgs, _ := resolved.GetPromptByPattern("model/openai/chat/gpt-4")
//
// # Documents, Storage and the Engine
//
// Prompt lists can be written as YAML documents, persisted through pluggable
// storage drivers (memory, filesystem, postgres) and rendered by name through
// an Engine:
//
//	engine, _ := versaprompt.New(versaprompt.WithLogger(logger))
//	_ = engine.Register(doc)
//	resolved, err := engine.Render(ctx, "sentiment", map[string]string{"input": text})
package versaprompt
