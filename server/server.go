package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/internal/storage"
	"github.com/Epistemic-Technology/quizbank/resources"
	"github.com/Epistemic-Technology/quizbank/tools"
)

// CreateServer opens the bank store named by the environment and builds the
// MCP server around it.
func CreateServer(log logger.Logger) *mcp.Server {
	store, err := initializeStorage(log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	return NewServer(store, log)
}

func NewServer(store storage.Store, log logger.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "quizbank", Version: "v0.1.0"}, nil)

	quizResourceHandler := resources.NewQuizResourceHandler(store)

	mcp.AddTool(server, tools.QuizExtractTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.QuizExtractQuery) (*mcp.CallToolResult, *tools.QuizExtractResponse, error) {
		return tools.QuizExtractToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.QuizListTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.QuizListQuery) (*mcp.CallToolResult, *tools.QuizListResponse, error) {
		return tools.QuizListToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.QuizDeleteTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.QuizDeleteQuery) (*mcp.CallToolResult, *tools.QuizDeleteResponse, error) {
		return tools.QuizDeleteToolHandler(ctx, req, query, store, log)
	})

	mcp.AddTool(server, tools.QuizSourcesTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.QuizSourcesQuery) (*mcp.CallToolResult, *tools.QuizSourcesResponse, error) {
		return tools.QuizSourcesToolHandler(ctx, req, query, store, log)
	})

	readResource := func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return quizResourceHandler.ReadResource(ctx, req.Params.URI)
	}

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "quiz://{documentId}",
		Name:        "quiz-bank",
		Description: "Cached question bank with source info, counts and available resources",
		MIMEType:    "application/json",
	}, readResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "quiz://{documentId}/records",
		Name:        "quiz-records",
		Description: "All records of the bank in document order",
		MIMEType:    "application/json",
	}, readResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "quiz://{documentId}/records/{recordIndex}",
		Name:        "quiz-record",
		Description: "A single record from the bank (0-indexed)",
		MIMEType:    "application/json",
	}, readResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "quiz://{documentId}/answers",
		Name:        "quiz-answers",
		Description: "Answer key parsed from the last page, question number to letter",
		MIMEType:    "application/json",
	}, readResource)

	return server
}

// initializeStorage opens the SQLite store at QUIZBANK_DB_PATH, defaulting
// to ~/.quizbank/quizbank.db.
func initializeStorage(log logger.Logger) (storage.Store, error) {
	dbPath := os.Getenv("QUIZBANK_DB_PATH")
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dbDir := filepath.Join(homeDir, ".quizbank")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dbPath = filepath.Join(dbDir, "quizbank.db")
	}

	log.Info("Initializing SQLite database at: %s", dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}

	return store, nil
}
