// Package prompt populates message templates with per-request inputs.
//
// Templates use double-brace placeholders ({{question}}) so the same
// template text works unchanged across datasets and the prompt registry of
// an observability platform.
package prompt

import (
	"fmt"
	"regexp"

	"github.com/loopworks/flowkit/llm"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// TemplateMessage is one templated message.
type TemplateMessage struct {
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// Template is an ordered list of templated messages.
type Template []TemplateMessage

// Variables returns the distinct placeholder names in the template, in
// first-appearance order.
func (t Template) Variables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, msg := range t {
		for _, match := range placeholderPattern.FindAllStringSubmatch(msg.Content, -1) {
			name := match[1]
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return names
}

// Populate substitutes inputs into the template and returns the resulting
// messages. Every placeholder must be bound or Populate fails.
func (t Template) Populate(inputs map[string]string) (llm.Conversation, error) {
	messages := make(llm.Conversation, 0, len(t))
	for _, msg := range t {
		var unbound string
		content := placeholderPattern.ReplaceAllStringFunc(msg.Content, func(m string) string {
			name := placeholderPattern.FindStringSubmatch(m)[1]
			value, ok := inputs[name]
			if !ok {
				unbound = name
				return m
			}
			return value
		})
		if unbound != "" {
			return nil, fmt.Errorf("unbound template variable %q", unbound)
		}
		messages = append(messages, llm.Message{Role: msg.Role, Content: content})
	}
	return messages, nil
}
