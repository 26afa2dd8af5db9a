package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/quizbank/internal/extraction"
	"github.com/Epistemic-Technology/quizbank/internal/storage"
)

const uriScheme = "quiz://"

// QuizResourceHandler serves cached question banks as quiz:// resources.
type QuizResourceHandler struct {
	store storage.Store
}

func NewQuizResourceHandler(store storage.Store) *QuizResourceHandler {
	return &QuizResourceHandler{store: store}
}

// ListResources returns the top-level resources of every cached bank
func (h *QuizResourceHandler) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	docs, err := h.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var resources []mcp.Resource
	for _, doc := range docs {
		name := doc.DocumentID
		if doc.SourceInfo.Path != "" {
			name = doc.SourceInfo.Path
		}
		resources = append(resources,
			mcp.Resource{
				URI:         uriScheme + doc.DocumentID,
				Name:        fmt.Sprintf("%s (Bank)", name),
				Description: fmt.Sprintf("Question bank with %d records from %d pages", doc.RecordCount, doc.PageCount),
				MIMEType:    "application/json",
			},
			mcp.Resource{
				URI:         uriScheme + doc.DocumentID + "/records",
				Name:        fmt.Sprintf("%s (Records)", name),
				Description: "All extracted records in document order",
				MIMEType:    "application/json",
			},
		)
	}

	return resources, nil
}

// ReadResource reads a quiz:// URI of the form quiz://{id}[/records[/{index}]|/answers].
func (h *QuizResourceHandler) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, fmt.Errorf("invalid URI scheme, expected %s", uriScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, uriScheme), "/")
	docID := parts[0]
	if docID == "" {
		return nil, fmt.Errorf("invalid URI, missing document ID")
	}

	var content any
	var err error
	switch {
	case len(parts) == 1:
		content, err = h.getDocumentSummary(ctx, docID)
	case parts[1] == "records" && len(parts) == 2:
		content, err = h.getAllRecords(ctx, docID)
	case parts[1] == "records" && len(parts) == 3:
		var index int
		index, err = storage.ParseRecordIndex(parts[2])
		if err == nil {
			content, err = h.store.GetRecord(ctx, docID, index)
		}
	case parts[1] == "answers" && len(parts) == 2:
		content, err = h.getAnswers(ctx, docID)
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

func (h *QuizResourceHandler) getDocumentSummary(ctx context.Context, docID string) (map[string]any, error) {
	info, err := h.store.GetDocumentInfo(ctx, docID)
	if err != nil {
		return nil, err
	}
	bank, err := h.store.GetBank(ctx, docID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"document":            info,
		"summary":             extraction.Summarize(bank.Records),
		"available_resources": storage.CalculateResourcePaths(docID, bank),
	}, nil
}

func (h *QuizResourceHandler) getAllRecords(ctx context.Context, docID string) (map[string]any, error) {
	bank, err := h.store.GetBank(ctx, docID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"record_count": len(bank.Records),
		"records":      bank.Records,
	}, nil
}

func (h *QuizResourceHandler) getAnswers(ctx context.Context, docID string) (map[string]any, error) {
	bank, err := h.store.GetBank(ctx, docID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"answer_count": len(bank.AnswerKey),
		"answers":      bank.AnswerKey,
	}, nil
}
