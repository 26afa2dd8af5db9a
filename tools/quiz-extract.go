package tools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/internal/operations"
	"github.com/Epistemic-Technology/quizbank/internal/storage"
	"github.com/Epistemic-Technology/quizbank/models"
)

type QuizExtractQuery struct {
	Path     string `json:"path,omitempty" jsonschema:"local file path of the exam document"`
	ZoteroID string `json:"zotero_id,omitempty" jsonschema:"Zotero attachment key"`
	URL      string `json:"url,omitempty" jsonschema:"URL to download the exam document from"`
	RawData  string `json:"raw_data,omitempty" jsonschema:"base64-encoded document bytes"`
	Force    bool   `json:"force,omitempty" jsonschema:"re-extract even if a cached bank exists"`
}

type QuizExtractResponse struct {
	DocumentID    string             `json:"document_id"`
	RunID         string             `json:"run_id"`
	Cached        bool               `json:"cached"`
	PageCount     int                `json:"page_count"`
	RecordCount   int                `json:"record_count"`
	Summary       models.BankSummary `json:"summary"`
	ResourcePaths []string           `json:"resource_paths"`
}

func QuizExtractTool() *mcp.Tool {
	inputschema, err := jsonschema.For[QuizExtractQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "quiz-extract",
		Description: "Extract multiple-choice question groups (reading passages, fill-in-the-blank sets, sentence reordering) and the answer key from an exam document (PDF, HTML, Markdown or plain text). Provide exactly one of path, zotero_id, url or raw_data. Results are cached; read them through the returned quiz:// resource paths.",
		InputSchema: inputschema,
	}
}

func QuizExtractToolHandler(ctx context.Context, req *mcp.CallToolRequest, query QuizExtractQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *QuizExtractResponse, error) {
	log.Info("quiz-extract tool called")

	var rawData []byte
	if query.RawData != "" {
		var err error
		rawData, err = base64.StdEncoding.DecodeString(query.RawData)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode raw_data: %w", err)
		}
	}

	result, err := operations.GetOrExtractBank(ctx, operations.ExtractParams{
		Path:     query.Path,
		ZoteroID: query.ZoteroID,
		URL:      query.URL,
		RawData:  rawData,
		Force:    query.Force,
	}, store, log)
	if err != nil {
		log.Error("quiz-extract tool failed: %v", err)
		return nil, nil, err
	}

	return nil, &QuizExtractResponse{
		DocumentID:    result.DocumentID,
		RunID:         result.RunID,
		Cached:        result.Cached,
		PageCount:     result.Bank.PageCount,
		RecordCount:   len(result.Bank.Records),
		Summary:       result.Summary,
		ResourcePaths: storage.CalculateResourcePaths(result.DocumentID, result.Bank),
	}, nil
}
