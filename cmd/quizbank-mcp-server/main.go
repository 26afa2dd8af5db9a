package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/server"
)

func main() {
	log, err := logger.NewLogger(logger.LogConfig{})
	if err != nil {
		panic(err)
	}

	log.Info("Starting quizbank MCP server")

	srv := server.CreateServer(log)
	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal("Server failed: %v", err)
	}
}
