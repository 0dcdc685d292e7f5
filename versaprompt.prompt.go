package versaprompt

// Resolvable is implemented by prompt values that can still be edited and
// are finalized exactly once into R.
type Resolvable[R Resolved] interface {
	HasUnresolvedVars() (bool, error)
	ResolveVar(name, value string) error
	Format(bindings map[string]string) error
	Resolve() (R, error)
}

// Compile-time interface checks
var (
	_ Resolvable[*ResolvedPrompt]     = (*Prompt)(nil)
	_ Resolvable[*ResolvedPromptList] = (*PromptList)(nil)
)

// payload is the shape stored by a prompt: a single text or a message list.
type payload[P any] interface {
	messages() []Message
	mapText(fn func(string) (string, error)) (P, error)
	clone() P
}

// plainText is the payload of a single-message prompt.
type plainText string

func (t plainText) messages() []Message {
	return []Message{{Text: string(t)}}
}

func (t plainText) mapText(fn func(string) (string, error)) (plainText, error) {
	out, err := fn(string(t))
	return plainText(out), err
}

func (t plainText) clone() plainText {
	return t
}

// MessageList is the payload of a multi-message prompt.
type MessageList []Message

func (l MessageList) messages() []Message {
	return l
}

func (l MessageList) mapText(fn func(string) (string, error)) (MessageList, error) {
	out := make(MessageList, len(l))
	for i, m := range l {
		text, err := fn(m.Text)
		if err != nil {
			return nil, err
		}
		out[i] = Message{Text: text, Tags: m.Tags}
	}
	return out, nil
}

func (l MessageList) clone() MessageList {
	return cloneMessages(l)
}

// promptData holds the editable state shared by Prompt and PromptList.
type promptData[P payload[P]] struct {
	data     P
	bound    []string
	consumed bool
}

// HasUnresolvedVars reports whether any message still contains a placeholder.
func (d *promptData[P]) HasUnresolvedVars() (bool, error) {
	if d.consumed {
		return false, NewPromptConsumedError()
	}
	for _, m := range d.data.messages() {
		ok, err := HasPlaceholders(m.Text)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// UnresolvedVars returns the distinct remaining placeholder names across all
// messages, in order of first occurrence.
func (d *promptData[P]) UnresolvedVars() ([]string, error) {
	if d.consumed {
		return nil, NewPromptConsumedError()
	}
	return collectPlaceholders(d.data.messages())
}

// ResolveVar replaces {{name}} with value in every message.
func (d *promptData[P]) ResolveVar(name, value string) error {
	if d.consumed {
		return NewPromptConsumedError()
	}
	next, err := d.data.mapText(func(text string) (string, error) {
		return ReplaceVar(text, name, value)
	})
	if err != nil {
		return err
	}
	d.data = next
	d.bound = append(d.bound, name)
	return nil
}

// Format applies ResolveVar once per binding in sorted key order. The first
// invalid name stops processing; bindings applied before it stay applied.
// A value containing a placeholder is substituted again by a later key, so
// {"a": "{{b}}", "b": "B"} turns "{{a}} {{b}}" into "B B".
func (d *promptData[P]) Format(bindings map[string]string) error {
	for _, name := range sortedKeys(bindings) {
		if err := d.ResolveVar(name, bindings[name]); err != nil {
			return err
		}
	}
	return nil
}

// Messages returns a copy of the current messages.
func (d *promptData[P]) Messages() []Message {
	return cloneMessages(d.data.messages())
}

// IsConsumed reports whether Resolve has already been called.
func (d *promptData[P]) IsConsumed() bool {
	return d.consumed
}

func (d *promptData[P]) cloneData() promptData[P] {
	return promptData[P]{
		data:  d.data.clone(),
		bound: append([]string(nil), d.bound...),
	}
}

// finalize consumes the prompt and returns its messages when no placeholder
// remains.
func (d *promptData[P]) finalize() ([]Message, error) {
	if d.consumed {
		return nil, NewPromptConsumedError()
	}
	d.consumed = true

	names, err := collectPlaceholders(d.data.messages())
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		return nil, NewUnresolvedVarsError(names, d.bound)
	}
	return cloneMessages(d.data.messages()), nil
}

func collectPlaceholders(msgs []Message) ([]string, error) {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range msgs {
		found, err := Placeholders(m.Text)
		if err != nil {
			return nil, err
		}
		for _, name := range found {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

// Prompt is a single untagged message that may contain placeholders.
type Prompt struct {
	promptData[plainText]
}

// NewPrompt creates a single-message prompt.
func NewPrompt(text string) *Prompt {
	return &Prompt{promptData: promptData[plainText]{data: plainText(text)}}
}

// Text returns the current prompt text.
func (p *Prompt) Text() string {
	return string(p.data)
}

// Clone returns an unconsumed copy, usable to retry after a failed Resolve.
func (p *Prompt) Clone() *Prompt {
	return &Prompt{promptData: p.cloneData()}
}

// Resolve finalizes the prompt. The prompt is consumed whether or not
// resolution succeeds.
func (p *Prompt) Resolve() (*ResolvedPrompt, error) {
	msgs, err := p.finalize()
	if err != nil {
		return nil, err
	}
	return &ResolvedPrompt{resolvedData{messages: msgs}}, nil
}

// ResolveWith applies bindings and resolves in one step.
func (p *Prompt) ResolveWith(bindings map[string]string) (*ResolvedPrompt, error) {
	if err := p.Format(bindings); err != nil {
		return nil, err
	}
	return p.Resolve()
}

// PromptList is an ordered list of tagged messages.
type PromptList struct {
	promptData[MessageList]
}

// NewPromptList creates a list seeded with one message.
func NewPromptList(text string, tags ...Tag) *PromptList {
	return &PromptList{promptData: promptData[MessageList]{
		data: MessageList{NewMessage(text, tags...)},
	}}
}

// NewPromptListFromMessages creates a list from existing messages.
func NewPromptListFromMessages(msgs ...Message) *PromptList {
	return &PromptList{promptData: promptData[MessageList]{
		data: cloneMessages(msgs),
	}}
}

// AddMessage appends a message after the existing ones.
func (l *PromptList) AddMessage(text string, tags ...Tag) error {
	if l.consumed {
		return NewPromptConsumedError()
	}
	l.data = append(l.data, NewMessage(text, tags...))
	return nil
}

// Len returns the number of messages.
func (l *PromptList) Len() int {
	return len(l.data)
}

// Clone returns an unconsumed copy, usable to retry after a failed Resolve.
func (l *PromptList) Clone() *PromptList {
	return &PromptList{promptData: l.cloneData()}
}

// Resolve finalizes the list. The list is consumed whether or not
// resolution succeeds.
func (l *PromptList) Resolve() (*ResolvedPromptList, error) {
	msgs, err := l.finalize()
	if err != nil {
		return nil, err
	}
	return &ResolvedPromptList{resolvedData{messages: msgs}}, nil
}

// ResolveWith applies bindings and resolves in one step.
func (l *PromptList) ResolveWith(bindings map[string]string) (*ResolvedPromptList, error) {
	if err := l.Format(bindings); err != nil {
		return nil, err
	}
	return l.Resolve()
}
