package versaprompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Resolved is implemented by finalized prompts. A Resolved value never
// contains an unresolved placeholder.
type Resolved interface {
	GetPromptByPattern(pattern Pattern) ([]Message, error)
	Messages() []Message
}

// Compile-time interface checks
var (
	_ Resolved = (*ResolvedPrompt)(nil)
	_ Resolved = (*ResolvedPromptList)(nil)
)

type resolvedData struct {
	messages []Message
}

// Messages returns a copy of the finalized messages.
func (r *resolvedData) Messages() []Message {
	return cloneMessages(r.messages)
}

// Len returns the number of messages.
func (r *resolvedData) Len() int {
	return len(r.messages)
}

// ChatMessages converts the messages into role/content pairs.
func (r *resolvedData) ChatMessages() []ChatMessage {
	return ChatMessages(r.messages)
}

// ResolvedPrompt is a finalized single-message prompt.
type ResolvedPrompt struct {
	resolvedData
}

// Text returns the finalized text, or "" for a zero ResolvedPrompt.
func (r *ResolvedPrompt) Text() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[0].Text
}

// String returns the finalized text.
func (r *ResolvedPrompt) String() string {
	return r.Text()
}

// GetPromptByPattern always returns the single message; a plain prompt
// carries no pattern tags to filter on.
func (r *ResolvedPrompt) GetPromptByPattern(Pattern) ([]Message, error) {
	return r.Messages(), nil
}

// ResolvedPromptList is a finalized ordered list of tagged messages.
type ResolvedPromptList struct {
	resolvedData
}

// GetPromptByPattern returns the messages carrying a Pattern tag that
// matches pattern. When no message matches, all messages are returned.
func (r *ResolvedPromptList) GetPromptByPattern(pattern Pattern) ([]Message, error) {
	matched, _ := r.selectByPattern(pattern)
	return matched, nil
}

// selectByPattern also reports whether any message actually matched.
func (r *ResolvedPromptList) selectByPattern(pattern Pattern) ([]Message, bool) {
	var out []Message
	for _, m := range r.messages {
		if m.Tags.MatchesPattern(pattern) {
			out = append(out, m.Clone())
		}
	}
	if len(out) == 0 {
		return r.Messages(), false
	}
	return out, true
}

// Flatten renders the list into one string. A nil strategy uses
// RolePrefixStrategy.
func (r *ResolvedPromptList) Flatten(strategy FlattenStrategy) string {
	if strategy == nil {
		strategy = RolePrefixStrategy{}
	}
	return strategy.Flatten(r.messages)
}

// String flattens the list with RolePrefixStrategy.
func (r *ResolvedPromptList) String() string {
	return r.Flatten(nil)
}

// FlattenStrategy turns an ordered message list into a single string.
type FlattenStrategy interface {
	Flatten(msgs []Message) string
}

// RolePrefixStrategy writes one "role: text" line per message.
type RolePrefixStrategy struct{}

// Flatten implements FlattenStrategy.
func (RolePrefixStrategy) Flatten(msgs []Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&sb, DefaultRolePrefixFormat, m.Role(), m.Text)
	}
	return sb.String()
}

// JoinStrategy joins message texts with Separator and drops roles.
type JoinStrategy struct {
	Separator string
}

// Flatten implements FlattenStrategy.
func (s JoinStrategy) Flatten(msgs []Message) string {
	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}
	return strings.Join(texts, s.Separator)
}

// ChatMessage is the role/content pair consumed by chat-style model APIs.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatMessages converts messages into chat pairs. Messages without a role
// tag are sent as user messages.
func ChatMessages(msgs []Message) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ChatMessage{Role: m.Role(), Content: m.Text}
	}
	return out
}

// MarshalJSON encodes the finalized prompt as a chat message array.
func (r *resolvedData) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ChatMessages())
}
