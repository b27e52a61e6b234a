// Package llm wraps an OpenRouter-compatible chat completion endpoint.
// Requests ask for JSON-only, temperature-zero completions; responses
// are decoded defensively because models wrap payloads in prose or code
// fences. The client performs no retries: callers absorb failures into
// fallback records instead.
package llm
