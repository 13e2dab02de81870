package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := initializeServer()
	if err != nil {
		log.Fatalf("failed to wire mcp server: %v", err)
	}

	if err := server.Run(ctx, os.Getenv("MCP_LISTEN")); err != nil {
		log.Fatalf("mcp server stopped with error: %v", err)
	}
}
