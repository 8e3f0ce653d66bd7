// Package mcpclient communicates with MCP servers and converts their tool
// results into content parts the formatting layer understands.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/LexLubbers/soev.ai/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPClient communicates with an MCP server using the official MCP Go SDK.
type MCPClient struct {
	client  *mcp.Client
	session *mcp.ClientSession
}

// New spawns an MCP server process and returns a connected client.
// The SDK handles initialization automatically during Connect.
func New(ctx context.Context, command string, args ...string) (*MCPClient, error) {
	transport := &mcp.CommandTransport{
		Command: exec.Command(command, args...), //nolint:gosec // command is caller-provided by design
	}

	return newFromTransport(ctx, transport)
}

// NewSSE connects to an SSE-based MCP server at the given URL.
func NewSSE(ctx context.Context, url string) (*MCPClient, error) {
	transport := &mcp.SSEClientTransport{Endpoint: url}

	return newFromTransport(ctx, transport)
}

// newFromTransport creates an MCPClient using the given transport. Used by New
// and useful for testing with InMemoryTransport.
func newFromTransport(ctx context.Context, transport mcp.Transport) (*MCPClient, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "soev",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: connect: %w", err)
	}

	return &MCPClient{client: client, session: session}, nil
}

// ListTools fetches available tools from the server and returns them as
// toolbox.Tool instances. Each Tool's Handler closure calls back through
// CallTool.
func (c *MCPClient) ListTools(ctx context.Context) ([]toolbox.Tool, error) {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list tools: %w", err)
	}

	tools := make([]toolbox.Tool, 0, len(result.Tools))
	for _, sdkTool := range result.Tools {
		t, err := fromSDKTool(sdkTool, c)
		if err != nil {
			return nil, fmt.Errorf("mcpclient: convert tool %q: %w", sdkTool.Name, err)
		}
		tools = append(tools, t)
	}

	return tools, nil
}

// CallTool calls a named tool on the server and returns its raw result with
// every content item preserved. A server-side tool failure is reported
// through the result's IsError flag, not a Go error; errors are reserved for
// transport and protocol problems.
func (c *MCPClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (*content.ToolCallResult, error) {
	var args map[string]any
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("mcpclient: unmarshal arguments: %w", err)
		}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("mcpclient: call tool: %w", err)
	}

	return fromSDKResult(result), nil
}

// Close terminates the session and releases resources, including any
// subprocess spawned for a command transport.
func (c *MCPClient) Close() error {
	return c.session.Close()
}

// fromSDKTool converts an SDK *mcp.Tool to a toolbox.Tool. The handler
// closure calls CallTool on the client.
func fromSDKTool(sdkTool *mcp.Tool, c *MCPClient) (toolbox.Tool, error) {
	schemaBytes, err := json.Marshal(sdkTool.InputSchema)
	if err != nil {
		return toolbox.Tool{}, fmt.Errorf("marshal input schema: %w", err)
	}

	name := sdkTool.Name

	return toolbox.Tool{
		Name:        sdkTool.Name,
		Description: sdkTool.Description,
		InputSchema: json.RawMessage(schemaBytes),
		Handler: func(ctx context.Context, input json.RawMessage) (*content.ToolCallResult, error) {
			return c.CallTool(ctx, name, input)
		},
	}, nil
}

// fromSDKResult maps an SDK tool result onto the internal representation,
// keeping absence of content distinct from an empty content list.
func fromSDKResult(result *mcp.CallToolResult) *content.ToolCallResult {
	res := &content.ToolCallResult{IsError: result.IsError}
	if result.Content == nil {
		return res
	}

	res.Content = make([]content.Part, 0, len(result.Content))
	for _, item := range result.Content {
		res.Content = append(res.Content, fromSDKContent(item))
	}

	return res
}

// fromSDKContent converts one SDK content item. Items the SDK may add in
// future versions degrade to Unknown with their JSON encoding preserved.
func fromSDKContent(item mcp.Content) content.Part {
	switch v := item.(type) {
	case *mcp.TextContent:
		return content.Text{Text: v.Text}

	case *mcp.ImageContent:
		return content.Image{Data: v.Data, MediaType: v.MIMEType}

	case *mcp.EmbeddedResource:
		if v.Resource == nil {
			return content.Resource{}
		}
		return content.Resource{
			URI:      v.Resource.URI,
			Text:     v.Resource.Text,
			MIMEType: v.Resource.MIMEType,
		}

	default:
		raw, err := json.Marshal(item)
		if err != nil {
			return content.Unknown{Type: fmt.Sprintf("%T", item)}
		}
		var probe struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(raw, &probe)
		return content.Unknown{Type: probe.Type, Raw: raw}
	}
}
