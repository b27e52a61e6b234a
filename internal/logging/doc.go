// Package logging builds the slog loggers used across gleaner and
// provides shared attribute helpers so log fields stay consistent
// between the CLI and the pipeline.
package logging
