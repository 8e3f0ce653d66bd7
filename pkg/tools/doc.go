// Package tools provides tool execution, MCP (Model Context Protocol)
// integration, and provider-shaped result formatting.
//
// It is organized into sub-packages:
//   - [github.com/LexLubbers/soev.ai/pkg/tools/toolbox]: Tool type and ToolBox registry for registering, listing, and calling tools
//   - [github.com/LexLubbers/soev.ai/pkg/tools/mcpclient]: MCP client using the official MCP Go SDK for communicating with external MCP server processes
//   - [github.com/LexLubbers/soev.ai/pkg/tools/resultfmt]: reshapes tool results into the string or block-array form each provider expects and extracts side artifacts (images, UI resources, file search sources)
//
// The toolbox sub-package is the foundation layer. mcpclient depends on
// toolbox for the Tool type and is a thin wrapper around the official
// MCP Go SDK (github.com/modelcontextprotocol/go-sdk).
package tools
