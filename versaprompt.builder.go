package versaprompt

import "strings"

// Turn is one role-tagged message for Chat.
type Turn struct {
	Role Role
	Text string
	Tags Tags
}

// System creates a system turn from the concatenated parts.
func System(parts ...string) Turn {
	return Turn{Role: RoleSystem, Text: strings.Join(parts, "")}
}

// User creates a user turn from the concatenated parts.
func User(parts ...string) Turn {
	return Turn{Role: RoleUser, Text: strings.Join(parts, "")}
}

// Assistant creates an assistant turn from the concatenated parts.
func Assistant(parts ...string) Turn {
	return Turn{Role: RoleAssistant, Text: strings.Join(parts, "")}
}

// WithPattern returns a copy of the turn tagged with pattern.
func (t Turn) WithPattern(p Pattern) Turn {
	t.Tags = append(t.Tags.Clone(), PatternTag(p))
	return t
}

func (t Turn) message() Message {
	tags := make(Tags, 0, len(t.Tags)+1)
	tags = append(tags, RoleTag(t.Role))
	tags = append(tags, t.Tags...)
	return Message{Text: t.Text, Tags: tags}
}

// Chat builds a prompt list with one message per turn, in order.
func Chat(turns ...Turn) *PromptList {
	msgs := make([]Message, len(turns))
	for i, t := range turns {
		msgs[i] = t.message()
	}
	return &PromptList{promptData: promptData[MessageList]{data: msgs}}
}

// Text builds a single prompt from concatenated literal parts.
func Text(parts ...string) *Prompt {
	return NewPrompt(strings.Join(parts, ""))
}

// Builder assembles a prompt list fluently.
//
//	list := versaprompt.NewBuilder().
//		System("You are terse.").
//		User("Summarize {{doc}}").WithPattern("model/openai").
//		Build()
type Builder struct {
	turns []Turn
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// System appends a system message.
func (b *Builder) System(parts ...string) *Builder {
	return b.Add(System(parts...))
}

// User appends a user message.
func (b *Builder) User(parts ...string) *Builder {
	return b.Add(User(parts...))
}

// Assistant appends an assistant message.
func (b *Builder) Assistant(parts ...string) *Builder {
	return b.Add(Assistant(parts...))
}

// Add appends a prepared turn.
func (b *Builder) Add(t Turn) *Builder {
	b.turns = append(b.turns, t)
	return b
}

// WithPattern tags the most recently added message with p. It is a no-op
// on an empty builder.
func (b *Builder) WithPattern(p Pattern) *Builder {
	if n := len(b.turns); n > 0 {
		b.turns[n-1] = b.turns[n-1].WithPattern(p)
	}
	return b
}

// Build returns a new prompt list. The builder can be reused.
func (b *Builder) Build() *PromptList {
	return Chat(b.turns...)
}
