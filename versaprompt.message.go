package versaprompt

import (
	"path"
	"strings"
)

// Role identifies the speaker of a message.
type Role string

// Supported roles.
const (
	RoleSystem    Role = RoleNameSystem
	RoleUser      Role = RoleNameUser
	RoleAssistant Role = RoleNameAssistant
)

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSystem:
		return RoleSystem, nil
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	}
	return "", NewInvalidRoleError(s)
}

// String returns the lowercase serialization name.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the supported roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, NewInvalidRoleError(string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Pattern is a slash-separated selector such as "model/openai/chat/gpt-4".
type Pattern string

// String returns the raw pattern.
func (p Pattern) String() string {
	return string(p)
}

// Matches reports whether p, used as a tag, selects query. A tag matches on
// exact equality, as a path.Match glob, or as a whole-segment prefix.
func (p Pattern) Matches(query Pattern) bool {
	if p == "" || query == "" {
		return false
	}
	if p == query {
		return true
	}
	if ok, err := path.Match(string(p), string(query)); err == nil && ok {
		return true
	}
	prefix := strings.TrimSuffix(string(p), PatternSeparator) + PatternSeparator
	return strings.HasPrefix(string(query), prefix)
}

// TagKind discriminates the Tag union.
type TagKind int

// Tag kinds.
const (
	TagKindRole TagKind = iota + 1
	TagKindPattern
)

// String returns the serialization name of the kind.
func (k TagKind) String() string {
	switch k {
	case TagKindRole:
		return TagKindNameRole
	case TagKindPattern:
		return TagKindNamePattern
	}
	return ""
}

// Tag annotates a message with either a Role or a Pattern.
type Tag struct {
	Kind    TagKind
	role    Role
	pattern Pattern
}

// RoleTag creates a Role tag.
func RoleTag(r Role) Tag {
	return Tag{Kind: TagKindRole, role: r}
}

// PatternTag creates a Pattern tag.
func PatternTag(p Pattern) Tag {
	return Tag{Kind: TagKindPattern, pattern: p}
}

// Role returns the role payload if t is a Role tag.
func (t Tag) Role() (Role, bool) {
	return t.role, t.Kind == TagKindRole
}

// Pattern returns the pattern payload if t is a Pattern tag.
func (t Tag) Pattern() (Pattern, bool) {
	return t.pattern, t.Kind == TagKindPattern
}

// String renders the tag as "kind:value".
func (t Tag) String() string {
	switch t.Kind {
	case TagKindRole:
		return TagKindNameRole + ":" + t.role.String()
	case TagKindPattern:
		return TagKindNamePattern + ":" + t.pattern.String()
	}
	return ""
}

// Tags is an insertion-ordered list of tags.
type Tags []Tag

// Role returns the first Role tag, or RoleUser when none is present.
func (ts Tags) Role() Role {
	for _, t := range ts {
		if r, ok := t.Role(); ok {
			return r
		}
	}
	return RoleUser
}

// Patterns returns all Pattern tags in order.
func (ts Tags) Patterns() []Pattern {
	var out []Pattern
	for _, t := range ts {
		if p, ok := t.Pattern(); ok {
			out = append(out, p)
		}
	}
	return out
}

// MatchesPattern reports whether any Pattern tag selects query.
func (ts Tags) MatchesPattern(query Pattern) bool {
	for _, t := range ts {
		if p, ok := t.Pattern(); ok && p.Matches(query) {
			return true
		}
	}
	return false
}

// Clone returns a copy of the tag list.
func (ts Tags) Clone() Tags {
	if ts == nil {
		return nil
	}
	out := make(Tags, len(ts))
	copy(out, ts)
	return out
}

// Message is one unit of prompt text with its tags.
type Message struct {
	Text string
	Tags Tags
}

// NewMessage creates a message with the given tags.
func NewMessage(text string, tags ...Tag) Message {
	return Message{Text: text, Tags: Tags(tags).Clone()}
}

// Role returns the message role, defaulting to RoleUser.
func (m Message) Role() Role {
	return m.Tags.Role()
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	return Message{Text: m.Text, Tags: m.Tags.Clone()}
}

func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
