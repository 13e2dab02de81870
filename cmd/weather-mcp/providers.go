package main

import (
	"log/slog"
	"os"

	"github.com/yanqian/taapman/pkg/logger"
)

// provideLogger writes to stderr; stdout carries the stdio transport.
func provideLogger() *slog.Logger {
	return logger.NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL")).With("transport", "mcp")
}
