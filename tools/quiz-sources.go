package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/internal/operations"
	"github.com/Epistemic-Technology/quizbank/internal/storage"
	"github.com/Epistemic-Technology/quizbank/models"
)

type QuizSourcesQuery struct {
	Query      string   `json:"query,omitempty"`      // Quick search text (title, creator, year)
	Tags       []string `json:"tags,omitempty"`       // Filter by tags
	Collection string   `json:"collection,omitempty"` // Filter by collection key
	Limit      int      `json:"limit,omitempty"`      // Max results (default 25)
}

type QuizSourcesResponse struct {
	Items []QuizSource `json:"items"`
	Count int          `json:"count"`
}

type QuizSource struct {
	Key         string             `json:"key"`
	Title       string             `json:"title"`
	ItemType    string             `json:"item_type"`
	Date        string             `json:"date,omitempty"`
	Attachments []SourceAttachment `json:"attachments"`
}

type SourceAttachment struct {
	Key         string `json:"key"` // Use this as zotero_id in quiz-extract
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	DocumentID  string `json:"document_id,omitempty"` // Set when a bank is already cached
}

func QuizSourcesTool() *mcp.Tool {
	inputschema, err := jsonschema.For[QuizSourcesQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "quiz-sources",
		Description: "Search a Zotero library for exam documents. Returns items with PDF, HTML or text attachments; pass an attachment key as zotero_id to quiz-extract.",
		InputSchema: inputschema,
	}
}

func QuizSourcesToolHandler(ctx context.Context, req *mcp.CallToolRequest, query QuizSourcesQuery, store storage.Store, log logger.Logger) (*mcp.CallToolResult, *QuizSourcesResponse, error) {
	log.Info("quiz-sources tool called")

	zoteroAPIKey := os.Getenv("ZOTERO_API_KEY")
	if zoteroAPIKey == "" {
		return nil, nil, fmt.Errorf("ZOTERO_API_KEY environment variable not set")
	}
	libraryID := os.Getenv("ZOTERO_LIBRARY_ID")
	if libraryID == "" {
		return nil, nil, fmt.Errorf("ZOTERO_LIBRARY_ID environment variable not set")
	}

	sources, err := operations.FindExamSources(ctx, zoteroAPIKey, libraryID, operations.ExamSourceParams{
		Query:      query.Query,
		Tags:       query.Tags,
		Collection: query.Collection,
		Limit:      query.Limit,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	items := make([]QuizSource, len(sources))
	for i, source := range sources {
		items[i] = QuizSource{
			Key:      source.Key,
			Title:    source.Title,
			ItemType: source.ItemType,
			Date:     source.Date,
		}
		for _, att := range source.Attachments {
			attachment := SourceAttachment{
				Key:         att.Key,
				Filename:    att.Filename,
				ContentType: att.ContentType,
			}
			// Zotero banks are cached under the attachment key.
			docID := storage.GenerateDocumentID(models.SourceInfo{ZoteroID: att.Key}, nil)
			if exists, err := store.DocumentExists(ctx, docID); err != nil {
				log.Warn("Failed to check cache for %s: %v", docID, err)
			} else if exists {
				attachment.DocumentID = docID
			}
			items[i].Attachments = append(items[i].Attachments, attachment)
		}
	}

	return nil, &QuizSourcesResponse{Items: items, Count: len(items)}, nil
}
