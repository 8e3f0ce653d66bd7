package mcpclient

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates an MCP server with the given tool handlers, connects
// a client via in-memory transports, and returns the client. The server runs
// in a background goroutine tied to t.Cleanup.
func setupTestServer(t *testing.T, tools map[string]mcp.ToolHandler) *MCPClient {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}, nil)

	for name, handler := range tools {
		server.AddTool(&mcp.Tool{
			Name:        name,
			Description: name,
			InputSchema: json.RawMessage(`{"type":"object"}`),
		}, handler)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Run(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	client, err := newFromTransport(ctx, clientTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func staticResult(result *mcp.CallToolResult) mcp.ToolHandler {
	return func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return result, nil
	}
}

func TestListTools(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"search": staticResult(&mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "found"}},
		}),
	})

	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "search", tools[0].Name)
	require.NotNil(t, tools[0].Handler)

	res, err := tools[0].Handler(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, content.Text{Text: "found"}, res.Content[0])
}

func TestCallTool_MixedContent(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"report": staticResult(&mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "summary"},
				&mcp.ImageContent{Data: []byte{0x89, 0x50}, MIMEType: "image/png"},
				&mcp.EmbeddedResource{Resource: &mcp.ResourceContents{
					URI:      "ui://widget1",
					MIMEType: "text/html",
					Text:     "<app/>",
				}},
			},
		}),
	})

	res, err := client.CallTool(context.Background(), "report", nil)
	require.NoError(t, err)
	require.Len(t, res.Content, 3)

	assert.Equal(t, content.Text{Text: "summary"}, res.Content[0])

	img, ok := res.Content[1].(content.Image)
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 0x50}, img.Data)
	assert.Equal(t, "image/png", img.MediaType)

	resource, ok := res.Content[2].(content.Resource)
	require.True(t, ok)
	assert.Equal(t, "ui://widget1", resource.URI)
	assert.Equal(t, "<app/>", resource.Text)
}

func TestCallTool_ErrorResultIsNotGoError(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"flaky": staticResult(&mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: "backend unavailable"}},
		}),
	})

	res, err := client.CallTool(context.Background(), "flaky", nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Equal(t, content.Text{Text: "backend unavailable"}, res.Content[0])
}

func TestCallTool_BadArguments(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"echo": staticResult(&mcp.CallToolResult{}),
	})

	_, err := client.CallTool(context.Background(), "echo", []byte(`{not-json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal arguments")
}

func TestFromSDKResult_NilContent(t *testing.T) {
	res := fromSDKResult(&mcp.CallToolResult{})
	assert.Nil(t, res.Content)
	assert.False(t, res.IsError)
}
