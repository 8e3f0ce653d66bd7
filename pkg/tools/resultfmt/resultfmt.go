// Package resultfmt normalizes a raw tool-call result into the content shape
// a downstream LLM provider expects, extracting side-channel artifacts
// (image references, UI resources, citation sources) that must travel outside
// the conversational text stream.
//
// The transformation is a pure, synchronous, single pass over the content
// sequence. It never fails: unexpected shapes are stringified or dropped, so
// the caller always receives well-formed output.
package resultfmt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
)

// emptyResultText stands in for tools that produced no content.
const emptyResultText = "(tool returned no content)"

// arrayNativeProviders always consume tool output as an ordered sequence of
// typed content blocks, never a flattened string.
var arrayNativeProviders = map[string]bool{
	"anthropic": true,
	"google":    true,
	"bedrock":   true,
	"vertexai":  true,
}

// knownProviders, together with the array-native set, forms the set of
// providers the bridge recognizes. Recognition only gates the plain-string
// fallback; it does not grant array-mode output on its own.
var knownProviders = map[string]bool{
	"openai":       true,
	"azure_openai": true,
	"xai":          true,
	"deepseek":     true,
	"openrouter":   true,
}

// ArrayNative reports whether the provider requires block-array output.
func ArrayNative(provider string) bool {
	return arrayNativeProviders[provider]
}

// Recognized reports whether the provider is known to the bridge at all.
func Recognized(provider string) bool {
	return arrayNativeProviders[provider] || knownProviders[provider]
}

// ImageFormatter encodes an image part as a provider-consumable block.
type ImageFormatter func(img content.Image) Block

// Formatter normalizes tool results. The zero value is ready to use: it logs
// through slog.Default() and encodes images with DefaultImageFormatter.
// A Formatter is safe for concurrent use; each Format call keeps all state on
// its own stack.
type Formatter struct {
	// Logger receives recoverable-condition warnings (malformed embedded
	// JSON). Nil falls back to slog.Default().
	Logger *slog.Logger
	// ImageFormatters overrides image encoding per provider identity.
	// Providers without an entry use DefaultImageFormatter.
	ImageFormatters map[string]ImageFormatter
}

// Format is shorthand for a zero-value Formatter's Format.
func Format(res *content.ToolCallResult, provider string) (Output, *Artifacts) {
	return Formatter{}.Format(res, provider)
}

// Format converts one tool result into the output shape for the given
// provider, plus the artifact bundle collected along the way. The bundle is
// nil when no artifacts were produced.
func (f Formatter) Format(res *content.ToolCallResult, provider string) (Output, *Artifacts) {
	var parts []content.Part
	hasContent := res != nil && res.Content != nil
	if hasContent {
		parts = res.Content
	}

	// A provider outside both sets cannot take block output, so a result
	// without a content sequence flattens to a single string.
	if !hasContent && !ArrayNative(provider) && !Recognized(provider) {
		return Output{Text: stringifyParts(parts)}, nil
	}

	// Emptiness after the fallback check is placeholder territory and is
	// always block-shaped.
	if len(parts) == 0 {
		return Output{Blocks: []Block{TextBlock(emptyResultText)}}, nil
	}

	arrayMode := len(parts) > 0 || ArrayNative(provider)

	st := f.pass(parts, provider, arrayMode)
	return assemble(st, arrayMode)
}

// passState is the accumulator threaded through the dispatcher's single
// left-to-right pass.
type passState struct {
	text        string  // running text buffer, paragraphs joined by blank lines
	blocks      []Block // ordered output blocks; images inlined at flush points
	images      []Block // image_url references destined for the bundle
	uiResources []content.Resource
	fileSearch  *FileSearchArtifact
}

// appendText coalesces text into the buffer with a blank-line separator, so
// consecutive text parts become paragraphs rather than one run-on line.
func (s *passState) appendText(text string) {
	if text == "" {
		return
	}
	if s.text != "" {
		s.text += "\n\n"
	}
	s.text += text
}

// flushText materializes the buffer as a text block and clears it.
func (s *passState) flushText() {
	if s.text == "" {
		return
	}
	s.blocks = append(s.blocks, TextBlock(s.text))
	s.text = ""
}

func (f Formatter) pass(parts []content.Part, provider string, arrayMode bool) *passState {
	st := &passState{}

	for _, part := range parts {
		switch v := part.(type) {
		case content.Text:
			st.appendText(v.Text)

		case content.Image:
			if !imageShapeOK(v) {
				continue
			}
			// Flush buffered text first so document order survives in
			// block-shaped output.
			if arrayMode {
				st.flushText()
			}
			block := f.formatImage(provider, v)
			if arrayMode {
				st.blocks = append(st.blocks, block)
			}
			st.images = append(st.images, block)

		case content.Resource:
			f.interpretResource(st, v)

		default:
			st.appendText(dumpPart(part))
		}
	}

	return st
}

// interpretResource classifies a resource by URI prefix: UI resources are
// collected verbatim, file-search artifacts feed the citation machinery, and
// everything else renders as readable text.
func (f Formatter) interpretResource(st *passState, res content.Resource) {
	switch {
	case strings.HasPrefix(res.URI, uiResourcePrefix):
		st.uiResources = append(st.uiResources, res)
	case strings.HasPrefix(res.URI, fileSearchURIPrefix):
		f.mergeFileSearch(st, res)
	default:
		st.appendText(renderResource(res))
	}
}

func assemble(st *passState, arrayMode bool) (Output, *Artifacts) {
	// Mirror the mid-pass flush so trailing prose is not dropped.
	if arrayMode {
		st.flushText()
	}

	var arts *Artifacts
	if len(st.images) > 0 || len(st.uiResources) > 0 || st.fileSearch != nil {
		arts = &Artifacts{
			Images:      st.images,
			UIResources: st.uiResources,
			FileSearch:  st.fileSearch,
		}
	}

	if arrayMode {
		if st.blocks == nil {
			st.blocks = []Block{}
		}
		return Output{Blocks: st.blocks}, arts
	}
	return Output{Text: st.text}, arts
}

// stringifyParts flattens parts into one plain string: text verbatim,
// resources as readable blocks, anything else as a structured dump. Used when
// the provider cannot take block output at all.
func stringifyParts(parts []content.Part) string {
	var chunks []string
	for _, part := range parts {
		var s string
		switch v := part.(type) {
		case content.Text:
			s = v.Text
		case content.Resource:
			s = renderResource(v)
		default:
			s = dumpPart(part)
		}
		if s != "" {
			chunks = append(chunks, s)
		}
	}

	if len(chunks) == 0 {
		return emptyResultText
	}
	return strings.Join(chunks, "\n\n")
}

// renderResource renders a resource as a human-readable block: payload text
// first, then labeled metadata lines, absent fields omitted.
func renderResource(res content.Resource) string {
	var lines []string
	if res.Text != "" {
		lines = append(lines, res.Text)
	}
	if len(res.URI) > 0 {
		lines = append(lines, "URI: "+res.URI)
	}
	if res.Name != "" {
		lines = append(lines, "Name: "+res.Name)
	}
	if res.Description != "" {
		lines = append(lines, "Description: "+res.Description)
	}
	if res.MIMEType != "" {
		lines = append(lines, "MIME type: "+res.MIMEType)
	}
	return strings.Join(lines, "\n")
}

// dumpPart serializes an item deterministically. Unknown items re-marshal
// their preserved JSON so map keys come out sorted.
func dumpPart(part content.Part) string {
	if u, ok := part.(content.Unknown); ok && len(u.Raw) > 0 {
		var v any
		if err := json.Unmarshal(u.Raw, &v); err == nil {
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
		return string(u.Raw)
	}

	b, err := json.Marshal(part)
	if err != nil {
		return fmt.Sprintf("%+v", part)
	}
	return string(b)
}

func (f Formatter) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}
