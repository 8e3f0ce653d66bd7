// Package message defines the message unit exchanged in a conversation.
package message

import (
	"strings"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/LexLubbers/soev.ai/pkg/chats/role"
)

// Message is a single conversation entry: a sender, a role, and an ordered
// list of content parts.
type Message struct {
	Sender string
	Role   role.Role
	Parts  []content.Part
}

// New creates a Message from the given parts.
func New(sender string, r role.Role, parts ...content.Part) Message {
	return Message{Sender: sender, Role: r, Parts: parts}
}

// NewText creates a Message with a single text part.
func NewText(sender string, r role.Role, text string) Message {
	return New(sender, r, content.Text{Text: text})
}

// TextContent concatenates all text parts of the message.
func (m Message) TextContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if t, ok := p.(content.Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// ToolCalls returns all tool-call parts of the message.
func (m Message) ToolCalls() []content.ToolCall {
	var calls []content.ToolCall
	for _, p := range m.Parts {
		if tc, ok := p.(content.ToolCall); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ToolResults returns all tool-result parts of the message.
func (m Message) ToolResults() []content.ToolResult {
	var results []content.ToolResult
	for _, p := range m.Parts {
		if tr, ok := p.(content.ToolResult); ok {
			results = append(results, tr)
		}
	}
	return results
}
