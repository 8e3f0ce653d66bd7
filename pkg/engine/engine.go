// Package engine wires MCP servers, the tool registry, the result formatter,
// and a provider adapter together from configuration.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/LexLubbers/soev.ai/pkg/providers/anthropic"
	"github.com/LexLubbers/soev.ai/pkg/providers/openai"
	"github.com/LexLubbers/soev.ai/pkg/providers/provider"
	"github.com/LexLubbers/soev.ai/pkg/tools/mcpclient"
	"github.com/LexLubbers/soev.ai/pkg/tools/resultfmt"
	"github.com/LexLubbers/soev.ai/pkg/tools/toolbox"
	"github.com/google/uuid"
)

// Engine owns the MCP connections and exposes tool invocation with
// provider-shaped output.
type Engine struct {
	cfg       Config
	logger    *slog.Logger
	toolbox   *toolbox.ToolBox
	formatter resultfmt.Formatter
	clients   []*mcpclient.MCPClient
}

// New creates an Engine from configuration. Call Connect before invoking
// tools.
func New(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		logger:    logger,
		toolbox:   toolbox.New(),
		formatter: resultfmt.Formatter{Logger: logger},
	}
}

// ToolBox exposes the registry, mainly so callers can register local tools
// alongside the MCP-provided ones.
func (e *Engine) ToolBox() *toolbox.ToolBox {
	return e.toolbox
}

// Connect dials every configured MCP server and registers its tools.
func (e *Engine) Connect(ctx context.Context) error {
	for _, server := range e.cfg.MCPServers {
		client, err := e.dial(ctx, server)
		if err != nil {
			return fmt.Errorf("engine: connect %q: %w", server.Name, err)
		}
		e.clients = append(e.clients, client)

		tools, err := client.ListTools(ctx)
		if err != nil {
			return fmt.Errorf("engine: list tools %q: %w", server.Name, err)
		}
		e.toolbox.Register(tools...)

		e.logger.Info("mcp server connected", "name", server.Name, "tools", len(tools))
	}

	return nil
}

func (e *Engine) dial(ctx context.Context, server MCPConfig) (*mcpclient.MCPClient, error) {
	if server.URL != "" {
		return mcpclient.NewSSE(ctx, server.URL)
	}
	return mcpclient.New(ctx, server.Command, server.Args...)
}

// CallTool invokes a registered tool and returns its result formatted for the
// configured provider, together with any extracted artifacts.
func (e *Engine) CallTool(ctx context.Context, name string, args json.RawMessage) (resultfmt.Output, *resultfmt.Artifacts, error) {
	if _, ok := e.toolbox.Get(name); !ok {
		return resultfmt.Output{}, nil, fmt.Errorf("engine: unknown tool %q", name)
	}

	tc := content.ToolCall{
		ID:        uuid.NewString(),
		Name:      name,
		Arguments: string(args),
	}
	tr := e.toolbox.Call(ctx, tc)

	out, arts := e.formatter.Format(tr.Result, e.cfg.Provider.Kind)
	return out, arts, nil
}

// Completer builds the provider adapter for the configured provider kind.
func (e *Engine) Completer() (provider.Completer, error) {
	p := e.cfg.Provider
	switch p.Kind {
	case openai.ProviderID:
		a := openai.New(p.BaseURL, p.APIKey, p.Model)
		a.Tools = e.toolbox.Tools()
		a.Formatter = e.formatter
		return a, nil
	case anthropic.ProviderID:
		a := anthropic.New(p.BaseURL, p.APIKey, p.Model)
		a.Tools = e.toolbox.Tools()
		a.Formatter = e.formatter
		return a, nil
	default:
		return nil, fmt.Errorf("engine: no adapter for provider kind %q", p.Kind)
	}
}

// Close closes all MCP connections, returning the first error encountered.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.clients = nil
	return errors.Join(errs...)
}
