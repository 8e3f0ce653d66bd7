// Package providers defines the interface and types for LLM completion providers.
//
// It is organized into sub-packages:
//   - [github.com/LexLubbers/soev.ai/pkg/providers/provider]: Completer interface, embeddable Provider base struct with HTTP helpers, auth, and custom headers
//   - [github.com/LexLubbers/soev.ai/pkg/providers/openai]: adapter for OpenAI-compatible chat completion APIs
//   - [github.com/LexLubbers/soev.ai/pkg/providers/anthropic]: adapter for the Anthropic messages API
//
// This package contains no provider-specific code. Concrete adapters live in
// separate packages that import provider.
package providers
