// Package toolbox provides a registry for executable tools.
package toolbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
)

// ToolBox orchestrates a collection of tools. It allows registering,
// retrieving, listing, and calling tools.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{tools: make(map[string]Tool)}
}

// Register adds one or more tools to the ToolBox. A tool with an existing
// name replaces the previous registration.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools as a slice.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	return result
}

// Call executes a tool call and returns a ToolResult carrying the raw result.
// A missing tool or a handler error becomes an error-flagged text result
// rather than a Go error, so the conversation can continue.
func (tb *ToolBox) Call(ctx context.Context, tc content.ToolCall) content.ToolResult {
	t, ok := tb.tools[tc.Name]
	if !ok {
		return errorResult(tc.ID, fmt.Sprintf("tool not found: %s", tc.Name))
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return errorResult(tc.ID, err.Error())
	}
	if result == nil {
		result = &content.ToolCallResult{}
	}

	return content.ToolResult{ToolCallID: tc.ID, Result: result}
}

func errorResult(callID, text string) content.ToolResult {
	return content.ToolResult{
		ToolCallID: callID,
		Result: &content.ToolCallResult{
			Content: []content.Part{content.Text{Text: text}},
			IsError: true,
		},
	}
}
