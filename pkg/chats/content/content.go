// Package content defines multi-modal content parts for LLM messages and the
// raw results returned by tool invocations.
package content

// Part is a piece of content within a message or a tool result.
// External packages can implement this interface to add custom content types.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// Image is an image content part, referenced by URL or embedded as raw bytes.
type Image struct {
	URL       string
	Data      []byte
	MediaType string
}

func (i Image) PartKind() string { return "image" }

// Resource is an embedded resource content part. Only URI is guaranteed to be
// set; the remaining fields are optional metadata supplied by the tool.
type Resource struct {
	URI         string
	Text        string
	Name        string
	Description string
	MIMEType    string
}

func (r Resource) PartKind() string { return "resource" }

// Unknown preserves a content part whose discriminant tag is not recognized.
// Raw holds the original JSON encoding of the whole item so downstream
// consumers can stringify it without losing information.
type Unknown struct {
	Type string
	Raw  []byte
}

func (u Unknown) PartKind() string { return u.Type }

// ToolCall represents an assistant's request to invoke a tool.
// Arguments holds the raw JSON string to avoid unnecessary deserialization.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func (tc ToolCall) PartKind() string { return "tool_call" }

// ToolCallResult is the raw payload returned by a tool invocation. A nil
// Content slice means the tool returned no content sequence at all, which is
// distinct from an empty one.
type ToolCallResult struct {
	Content []Part
	IsError bool
}

// ToolResult ties a raw tool result to the call that produced it. Provider
// adapters format Result for their own wire shape at request-build time.
type ToolResult struct {
	ToolCallID string
	Result     *ToolCallResult
}

func (tr ToolResult) PartKind() string { return "tool_result" }
