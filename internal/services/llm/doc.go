// Package llm provides the model clients that turn document content into a
// suggested filename. One adapter exists per provider (xAI, OpenAI,
// Anthropic, Google); all satisfy the Client interface and track cumulative
// token usage across a batch run.
package llm
