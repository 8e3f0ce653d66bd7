// Package anthropic provides a Completer implementation for the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LexLubbers/soev.ai/pkg/chats/chat"
	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/LexLubbers/soev.ai/pkg/chats/message"
	"github.com/LexLubbers/soev.ai/pkg/chats/role"
	"github.com/LexLubbers/soev.ai/pkg/providers/provider"
	"github.com/LexLubbers/soev.ai/pkg/tools/resultfmt"
	"github.com/LexLubbers/soev.ai/pkg/tools/toolbox"
)

const messagesPath = "/v1/messages"

// ProviderID is the identity the result formatter keys on for this adapter.
// It is in the array-native set: tool results always arrive as block arrays.
const ProviderID = "anthropic"

var _ provider.Completer = (*Adapter)(nil)

// Adapter implements provider.Completer for the Anthropic Messages API.
type Adapter struct {
	provider.Provider
	Tools     []toolbox.Tool
	Formatter resultfmt.Formatter
}

// New creates an Adapter configured for the Anthropic API.
// The baseURL should be "https://api.anthropic.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = provider.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Model = model
	a.MaxTokens = 4096
	a.Headers = map[string]string{
		"anthropic-version": "2023-06-01",
	}

	return a
}

// Complete sends a conversation to the Anthropic Messages API and returns the
// assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("anthropic: %w", err)
	}

	return a.parseResponse(resp), nil
}

// --- request types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
	Tools     []apiToolDef `json:"tools,omitempty"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   []apiContent    `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Source    *apiImageSource `json:"source,omitempty"`
}

type apiImageSource struct {
	Type      string `json:"type"` // "url" or "base64"
	URL       string `json:"url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
}

type apiToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	req := apiRequest{
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
		System:    c.SystemPrompt(),
	}

	if len(a.Tools) > 0 {
		req.Tools = make([]apiToolDef, len(a.Tools))
		for i, t := range a.Tools {
			schema := t.InputSchema
			if schema == nil {
				schema = json.RawMessage(`{"type":"object"}`)
			}
			req.Tools[i] = apiToolDef{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: schema,
			}
		}
	}

	for _, m := range c.Messages() {
		if m.Role == role.System {
			continue
		}
		a.appendMessage(&req.Messages, m)
	}

	return req
}

func (a *Adapter) appendMessage(msgs *[]apiMessage, m message.Message) {
	for _, p := range m.Parts {
		block := a.partToBlock(p)
		if block == nil {
			continue
		}

		msgRole := mapRole(m.Role)

		// Tool results must be in a "user" role message per Anthropic API.
		if _, ok := p.(content.ToolResult); ok {
			msgRole = "user"
		}

		// Merge into the last message if it has the same role.
		if len(*msgs) > 0 && (*msgs)[len(*msgs)-1].Role == msgRole {
			(*msgs)[len(*msgs)-1].Content = append((*msgs)[len(*msgs)-1].Content, *block)
			continue
		}

		*msgs = append(*msgs, apiMessage{
			Role:    msgRole,
			Content: []apiContent{*block},
		})
	}
}

func (a *Adapter) partToBlock(p content.Part) *apiContent {
	switch v := p.(type) {
	case content.Text:
		return &apiContent{Type: "text", Text: v.Text}

	case content.ToolCall:
		input := json.RawMessage(v.Arguments)
		if len(input) == 0 {
			input = json.RawMessage(`{}`)
		}
		return &apiContent{Type: "tool_use", ID: v.ID, Name: v.Name, Input: input}

	case content.ToolResult:
		out, _ := a.Formatter.Format(v.Result, ProviderID)

		block := &apiContent{
			Type:      "tool_result",
			ToolUseID: v.ToolCallID,
			Content:   blocksToContent(out.Blocks),
		}
		if v.Result != nil && v.Result.IsError {
			block.IsError = true
		}
		return block

	default:
		return nil
	}
}

// blocksToContent translates formatter blocks into the API's native shapes.
// image_url blocks become image blocks with a url or base64 source depending
// on whether the reference is a data URL.
func blocksToContent(blocks []resultfmt.Block) []apiContent {
	out := make([]apiContent, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case resultfmt.BlockImageURL:
			out = append(out, apiContent{Type: "image", Source: imageSource(b.URL)})
		default:
			out = append(out, apiContent{Type: "text", Text: b.Text})
		}
	}
	return out
}

func imageSource(url string) *apiImageSource {
	payload, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return &apiImageSource{Type: "url", URL: url}
	}

	mediaType, data, _ := strings.Cut(payload, ";base64,")
	return &apiImageSource{Type: "base64", MediaType: mediaType, Data: data}
}

func mapRole(r role.Role) string {
	if r == role.Assistant {
		return "assistant"
	}
	return "user"
}

func (a *Adapter) parseResponse(resp apiResponse) message.Message {
	var parts []content.Part

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			parts = append(parts, content.Text{Text: block.Text})
		case "tool_use":
			args := string(block.Input)
			if args == "" {
				args = "{}"
			}
			parts = append(parts, content.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return message.New("", role.Assistant, parts...)
}
