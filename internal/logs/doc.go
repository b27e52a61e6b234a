// Package logs reads the gleaner run log for the CLI.
//
// Tail returns the most recent lines; Follow polls for new lines so the
// logs command can stream output while a run is in progress elsewhere.
package logs
