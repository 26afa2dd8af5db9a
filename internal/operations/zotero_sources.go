package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
)

var (
	errMissingZoteroKey     = errors.New("Zotero API key is required")
	errMissingZoteroLibrary = errors.New("Zotero library ID is required")
)

// ExamSourceParams filters a Zotero library search for exam documents.
type ExamSourceParams struct {
	Query      string   // Quick search over title, creator and year
	Tags       []string // e.g. "exam", "grade-12"
	Collection string   // Restrict to a collection key
	Limit      int      // Max parent items (default 25)
}

// ExamSource is a Zotero item with the attachments quiz-extract can read.
type ExamSource struct {
	Key         string
	Title       string
	ItemType    string
	Date        string
	Attachments []ExamAttachment
}

// ExamAttachment is a file that can be passed as zotero_id to quiz-extract.
type ExamAttachment struct {
	Key         string
	Filename    string
	ContentType string
}

var extractableContentTypes = []string{
	"application/pdf",
	"text/html",
	"text/plain",
	"text/markdown",
}

func isExtractable(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, ct := range extractableContentTypes {
		if strings.HasPrefix(contentType, ct) {
			return true
		}
	}
	return false
}

// FindExamSources searches a Zotero library and keeps only the items that
// have at least one extractable attachment.
func FindExamSources(ctx context.Context, apiKey, libraryID string, params ExamSourceParams, log logger.Logger) ([]ExamSource, error) {
	if apiKey == "" {
		return nil, errMissingZoteroKey
	}
	if libraryID == "" {
		return nil, errMissingZoteroLibrary
	}

	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))

	queryParams := &zotero.QueryParams{
		Q:        params.Query,
		QMode:    "titleCreatorYear",
		Tag:      params.Tags,
		ItemType: []string{"-attachment"},
		Limit:    params.Limit,
		Sort:     "dateModified",
	}
	if queryParams.Limit <= 0 {
		queryParams.Limit = 25
	}

	var items []zotero.Item
	var err error
	if params.Collection != "" {
		items, err = client.CollectionItems(ctx, params.Collection, queryParams)
		if err != nil {
			return nil, fmt.Errorf("failed to search collection %s: %w", params.Collection, err)
		}
	} else {
		items, err = client.Items(ctx, queryParams)
		if err != nil {
			return nil, fmt.Errorf("failed to search Zotero library: %w", err)
		}
	}
	log.Info("Found %d items in Zotero library", len(items))

	sources := make([]ExamSource, 0, len(items))
	for _, item := range items {
		if item.Data.ItemType == "attachment" {
			continue
		}

		children, err := client.Children(ctx, item.Key, nil)
		if err != nil {
			log.Warn("Failed to retrieve attachments for item %s: %v", item.Key, err)
			continue
		}

		source := ExamSource{
			Key:      item.Key,
			Title:    item.Data.Title,
			ItemType: item.Data.ItemType,
			Date:     item.Data.DateAdded,
		}
		for _, child := range children {
			if child.Data.ItemType != "attachment" || !isExtractable(child.Data.ContentType) {
				continue
			}
			source.Attachments = append(source.Attachments, ExamAttachment{
				Key:         child.Key,
				Filename:    child.Data.Filename,
				ContentType: child.Data.ContentType,
			})
		}
		if len(source.Attachments) > 0 {
			sources = append(sources, source)
		}
	}

	log.Info("Returning %d items with extractable attachments", len(sources))
	return sources, nil
}
