package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/Epistemic-Technology/quizbank/models"
)

// ErrNotFound is returned when a document or record does not exist.
var ErrNotFound = errors.New("not found")

// Store caches extracted question banks by document ID
type Store interface {
	// StoreBank stores a bank, replacing any earlier extraction of the same document
	StoreBank(ctx context.Context, docID string, runID string, bank *models.QuestionBank, sourceInfo *models.SourceInfo) error

	// GetBank retrieves the full bank for a document
	GetBank(ctx context.Context, docID string) (*models.QuestionBank, error)

	// GetRecord retrieves a single record by index (0-indexed)
	GetRecord(ctx context.Context, docID string, index int) (*models.Record, error)

	// GetDocumentInfo retrieves the bookkeeping row of a document
	GetDocumentInfo(ctx context.Context, docID string) (*models.DocumentInfo, error)

	// DocumentExists reports whether a bank is cached for the document
	DocumentExists(ctx context.Context, docID string) (bool, error)

	// ListDocuments returns all cached documents, newest first
	ListDocuments(ctx context.Context) ([]models.DocumentInfo, error)

	// DeleteDocument removes a document and its records
	DeleteDocument(ctx context.Context, docID string) error

	Close() error
}

// GenerateDocumentID derives a stable ID for a source. Zotero items keep
// their key; everything else is addressed by content so that the same file
// fetched from different paths or URLs shares one cache entry.
func GenerateDocumentID(sourceInfo models.SourceInfo, data []byte) string {
	if sourceInfo.ZoteroID != "" {
		return "zotero_" + sourceInfo.ZoteroID
	}
	sum := sha256.Sum256(data)
	return "doc_" + hex.EncodeToString(sum[:8])
}
