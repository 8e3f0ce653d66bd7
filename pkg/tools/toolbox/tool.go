package toolbox

import (
	"context"
	"encoding/json"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
)

// Handler executes a tool with the given JSON input and returns the raw,
// unflattened result. Formatting for a specific provider happens later, at
// request-build time.
type Handler func(ctx context.Context, input json.RawMessage) (*content.ToolCallResult, error)

// Tool represents an executable tool with a name, description, JSON Schema,
// and handler.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}
