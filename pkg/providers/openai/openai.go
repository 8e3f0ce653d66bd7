// Package openai provides a Completer implementation for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LexLubbers/soev.ai/pkg/chats/chat"
	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/LexLubbers/soev.ai/pkg/chats/message"
	"github.com/LexLubbers/soev.ai/pkg/chats/role"
	"github.com/LexLubbers/soev.ai/pkg/providers/provider"
	"github.com/LexLubbers/soev.ai/pkg/tools/resultfmt"
	"github.com/LexLubbers/soev.ai/pkg/tools/toolbox"
)

const completionsPath = "/v1/chat/completions"

// ProviderID is the identity the result formatter keys on for this adapter.
const ProviderID = "openai"

var _ provider.Completer = (*Adapter)(nil)

// Adapter implements provider.Completer for the OpenAI Chat Completions API.
type Adapter struct {
	provider.Provider
	Tools     []toolbox.Tool
	Formatter resultfmt.Formatter
}

// New creates an Adapter configured for the OpenAI API.
// The baseURL should be "https://api.openai.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = provider.Auth{Key: apiKey}
	a.Model = model
	a.MaxTokens = 4096

	return a
}

// Complete sends a conversation to the OpenAI Chat Completions API and returns
// the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("openai: empty choices in response")
	}

	return a.parseChoice(resp.Choices[0]), nil
}

// --- request types ---

type apiRequest struct {
	Model     string       `json:"model"`
	Messages  []apiMessage `json:"messages"`
	MaxTokens int          `json:"max_tokens,omitempty"`
	Tools     []apiToolDef `json:"tools,omitempty"`
}

// apiMessage's Content is either a plain string or a []resultfmt.Block;
// blocks marshal directly into the API's typed content-part shapes.
type apiMessage struct {
	Role       string        `json:"role"`
	Content    any           `json:"content"`
	ToolCalls  []apiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

type apiToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function apiToolFunction `json:"function"`
}

type apiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiToolDef struct {
	Type     string         `json:"type"`
	Function apiToolDefFunc `json:"function"`
}

type apiToolDefFunc struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role      string        `json:"role"`
	Content   *string       `json:"content"`
	ToolCalls []apiToolCall `json:"tool_calls,omitempty"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	req := apiRequest{
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
	}

	if len(a.Tools) > 0 {
		req.Tools = make([]apiToolDef, len(a.Tools))
		for i, t := range a.Tools {
			schema := t.InputSchema
			if schema == nil {
				schema = json.RawMessage(`{"type":"object"}`)
			}
			req.Tools[i] = apiToolDef{
				Type: "function",
				Function: apiToolDefFunc{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  schema,
				},
			}
		}
	}

	for _, m := range c.Messages() {
		a.appendMessages(&req.Messages, m)
	}

	return req
}

func (a *Adapter) appendMessages(msgs *[]apiMessage, m message.Message) {
	switch m.Role {
	case role.System:
		*msgs = append(*msgs, apiMessage{Role: "system", Content: m.TextContent()})

	case role.User:
		*msgs = append(*msgs, apiMessage{Role: "user", Content: m.TextContent()})

	case role.Assistant:
		msg := apiMessage{Role: "assistant"}
		var toolCalls []apiToolCall

		for _, p := range m.Parts {
			switch v := p.(type) {
			case content.Text:
				text, _ := msg.Content.(string)
				msg.Content = text + v.Text
			case content.ToolCall:
				toolCalls = append(toolCalls, apiToolCall{
					ID:   v.ID,
					Type: "function",
					Function: apiToolFunction{
						Name:      v.Name,
						Arguments: v.Arguments,
					},
				})
			}
		}
		msg.ToolCalls = toolCalls

		*msgs = append(*msgs, msg)

	case role.Tool:
		for _, tr := range m.ToolResults() {
			out, _ := a.Formatter.Format(tr.Result, ProviderID)

			msg := apiMessage{Role: "tool", ToolCallID: tr.ToolCallID}
			if out.IsArray() {
				msg.Content = out.Blocks
			} else {
				msg.Content = out.Text
			}

			*msgs = append(*msgs, msg)
		}
	}
}

func (a *Adapter) parseChoice(choice apiChoice) message.Message {
	var parts []content.Part

	if choice.Message.Content != nil && *choice.Message.Content != "" {
		parts = append(parts, content.Text{Text: *choice.Message.Content})
	}

	for _, tc := range choice.Message.ToolCalls {
		parts = append(parts, content.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return message.New("", role.Assistant, parts...)
}
