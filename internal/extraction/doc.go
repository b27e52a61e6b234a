// Package extraction builds the per-item LLM prompt, decodes the
// model's response defensively, and normalizes the result into a
// schema-conforming record. The engine is total: every failure path
// produces a low-confidence fallback record rather than an error.
package extraction
