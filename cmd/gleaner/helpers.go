package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"gleaner/internal/config"
	"gleaner/internal/logging"
)

func newConfiguredLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
