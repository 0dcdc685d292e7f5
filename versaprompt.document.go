package versaprompt

import (
	"bytes"
	"os"
	"strings"

	"github.com/itsatony/go-versaprompt/internal"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a prompt list.
//
// Two source forms are accepted. A YAML mapping:
//
//	name: sentiment
//	variables:
//	  tone: neutral
//	messages:
//	  - role: system
//	    text: Classify the text.
//	  - text: "{{input}}"
//	    patterns: [model/openai]
//
// or YAML frontmatter followed by a body that becomes a trailing user message:
//
//	---
//	name: greeting
//	---
//	Hello {{name}}!
//
// Any other text becomes a single user message.
type Document struct {
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Variables   map[string]string `yaml:"variables,omitempty" json:"variables,omitempty"`
	Messages    []DocumentMessage `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// DocumentMessage is one message of a Document. An empty role means user.
type DocumentMessage struct {
	Role     Role      `yaml:"role,omitempty" json:"role,omitempty"`
	Text     string    `yaml:"text" json:"text"`
	Patterns []Pattern `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// ParseDocument parses a document from YAML, frontmatter or plain text and
// validates it.
func ParseDocument(data []byte) (*Document, error) {
	source := string(data)
	if strings.TrimSpace(strings.TrimPrefix(source, byteOrderMark)) == "" {
		return nil, NewDocumentError(ErrMsgDocumentEmpty, "")
	}

	fm, err := internal.SplitFrontmatter(source, DefaultMaxFrontmatterSize)
	if err != nil {
		return nil, NewDocumentParseError(err)
	}

	var doc Document
	switch {
	case fm.HasFrontmatter:
		if err := yaml.Unmarshal([]byte(fm.YAML), &doc); err != nil {
			return nil, NewDocumentParseError(err)
		}
		if body := strings.TrimRight(fm.Body, " \t\r\n"); strings.TrimSpace(body) != "" {
			doc.Messages = append(doc.Messages, DocumentMessage{Role: RoleUser, Text: body})
		}
	case isDocumentMapping(data):
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, NewDocumentParseError(err)
		}
	default:
		doc.Messages = []DocumentMessage{{Role: RoleUser, Text: strings.TrimRight(source, "\r\n")}}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseDocumentFile reads and parses a document file.
func ParseDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentReadError(path, err)
	}
	return ParseDocument(data)
}

// isDocumentMapping reports whether data is a YAML mapping with a messages
// key. Plain prose that happens to parse as YAML is not a document.
func isDocumentMapping(data []byte) bool {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return false
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) != 1 || node.Content[0].Kind != yaml.MappingNode {
		return false
	}
	root := node.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == DocumentKeyMessages {
			return true
		}
	}
	return false
}

// Validate checks message roles, patterns and variable names.
func (d *Document) Validate() error {
	if len(d.Messages) == 0 {
		return NewDocumentError(ErrMsgDocumentNoMessages, d.Name)
	}
	for i, m := range d.Messages {
		if m.Role != "" && !m.Role.IsValid() {
			return NewDocumentMessageError(i, NewInvalidRoleError(string(m.Role)))
		}
		for _, p := range m.Patterns {
			if p == "" {
				return NewDocumentMessageError(i, NewEmptyPatternError())
			}
		}
	}
	for _, name := range sortedKeys(d.Variables) {
		if err := ValidateVariableName(name); err != nil {
			return err
		}
	}
	return nil
}

// Placeholders returns the distinct placeholder names used by the document.
func (d *Document) Placeholders() ([]string, error) {
	return collectPlaceholders(d.messages())
}

// PromptList builds a fresh prompt list from the document messages. Default
// variables are not applied.
func (d *Document) PromptList() *PromptList {
	return NewPromptListFromMessages(d.messages()...)
}

func (d *Document) messages() []Message {
	msgs := make([]Message, len(d.Messages))
	for i, m := range d.Messages {
		role := m.Role
		if role == "" {
			role = RoleUser
		}
		tags := make(Tags, 0, len(m.Patterns)+1)
		tags = append(tags, RoleTag(role))
		for _, p := range m.Patterns {
			tags = append(tags, PatternTag(p))
		}
		msgs[i] = Message{Text: m.Text, Tags: tags}
	}
	return msgs
}

// Serialize encodes the document as YAML.
func (d *Document) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, NewDocumentError(ErrMsgDocumentSerialize, err.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, NewDocumentError(ErrMsgDocumentSerialize, err.Error())
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Name:        d.Name,
		Description: d.Description,
		Variables:   copyStringMap(d.Variables),
		Messages:    make([]DocumentMessage, len(d.Messages)),
	}
	for i, m := range d.Messages {
		out.Messages[i] = DocumentMessage{
			Role:     m.Role,
			Text:     m.Text,
			Patterns: append([]Pattern(nil), m.Patterns...),
		}
	}
	return out
}

// DocumentFromPromptList captures the current messages of list as a document.
func DocumentFromPromptList(name string, list *PromptList) *Document {
	doc := &Document{Name: name}
	for _, m := range list.Messages() {
		doc.Messages = append(doc.Messages, DocumentMessage{
			Role:     m.Role(),
			Text:     m.Text,
			Patterns: m.Tags.Patterns(),
		})
	}
	return doc
}
