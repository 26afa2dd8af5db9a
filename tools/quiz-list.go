package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/internal/storage"
	"github.com/Epistemic-Technology/quizbank/models"
)

type QuizListQuery struct{}

type QuizListResponse struct {
	Documents []models.DocumentInfo `json:"documents"`
	Count     int                   `json:"count"`
}

func QuizListTool() *mcp.Tool {
	inputschema, err := jsonschema.For[QuizListQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "quiz-list",
		Description: "List every exam document with a cached question bank, newest first.",
		InputSchema: inputschema,
	}
}

func QuizListToolHandler(ctx context.Context, req *mcp.CallToolRequest, query QuizListQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *QuizListResponse, error) {
	log.Info("quiz-list tool called")
	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, &QuizListResponse{Documents: docs, Count: len(docs)}, nil
}

type QuizDeleteQuery struct {
	DocumentID string `json:"document_id" jsonschema:"ID returned by quiz-extract"`
}

type QuizDeleteResponse struct {
	DocumentID string `json:"document_id"`
	Deleted    bool   `json:"deleted"`
}

func QuizDeleteTool() *mcp.Tool {
	inputschema, err := jsonschema.For[QuizDeleteQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "quiz-delete",
		Description: "Remove a cached question bank so the next quiz-extract call re-extracts it.",
		InputSchema: inputschema,
	}
}

func QuizDeleteToolHandler(ctx context.Context, req *mcp.CallToolRequest, query QuizDeleteQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *QuizDeleteResponse, error) {
	log.Info("quiz-delete tool called for %s", query.DocumentID)
	if err := store.DeleteDocument(ctx, query.DocumentID); err != nil {
		return nil, nil, err
	}
	return nil, &QuizDeleteResponse{DocumentID: query.DocumentID, Deleted: true}, nil
}
