package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Epistemic-Technology/quizbank/models"
	"github.com/Epistemic-Technology/zotero/zotero"
)

var (
	// ErrNoData is returned when a source yields no bytes.
	ErrNoData = errors.New("no data provided")
	// ErrUnsupportedDocument is returned for document types that cannot be
	// turned into page text.
	ErrUnsupportedDocument = errors.New("unsupported document type")
	// ErrNoPages is returned when a document has no pages.
	ErrNoPages = errors.New("document has no pages")
)

// DetectDocumentType determines the type of document from the raw data
// by checking magic bytes/headers
func DetectDocumentType(data []byte) string {
	if len(data) == 0 {
		return "unknown"
	}

	// For very short data, check if it's text
	if len(data) < 4 {
		if isLikelyText(data) {
			return "txt"
		}
		return "unknown"
	}

	// PDF: starts with %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "pdf"
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<!DOCTYPE html")) ||
		bytes.HasPrefix(trimmed, []byte("<!doctype html")) ||
		bytes.HasPrefix(trimmed, []byte("<html")) ||
		bytes.HasPrefix(trimmed, []byte("<HTML")) {
		return "html"
	}

	// ZIP archives: DOCX carries a word/ directory, Zotero web snapshots an HTML file
	if data[0] == 0x50 && data[1] == 0x4B &&
		(data[2] == 0x03 || data[2] == 0x05 || data[2] == 0x07) {
		if bytes.Contains(data[:min(len(data), 1024)], []byte("word/")) {
			return "docx"
		}
		if isZoteroSnapshotZip(data) {
			return "zotero-snapshot"
		}
		return "zip"
	}

	if isLikelyText(data) {
		head := data[:min(len(data), 1024)]
		if bytes.Contains(head, []byte("# ")) ||
			bytes.Contains(head, []byte("**")) ||
			bytes.Contains(head, []byte("```")) {
			return "md"
		}
		return "txt"
	}

	return "unknown"
}

// isLikelyText reports whether the sample is valid text. Exam sources are
// frequently Vietnamese, so multi-byte UTF-8 counts as printable.
func isLikelyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sample := data[:min(len(data), 512)]
	if bytes.Contains(sample, []byte{0}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		if (b >= 32 && b <= 126) || b >= 0x80 || b == '\n' || b == '\r' || b == '\t' || b == '\f' {
			printable++
		}
	}

	return float64(printable)/float64(len(sample)) > 0.9
}

// GetData retrieves document data from a source and detects its type.
// Sources are tried in order: local path, Zotero attachment, URL.
func GetData(ctx context.Context, sourceInfo models.SourceInfo) (models.DocumentData, error) {
	var data []byte
	var err error

	switch {
	case sourceInfo.Path != "":
		data, err = os.ReadFile(sourceInfo.Path)
		if err != nil {
			return models.DocumentData{}, fmt.Errorf("failed to read %s: %w", sourceInfo.Path, err)
		}
	case sourceInfo.ZoteroID != "":
		zoteroAPIKey := os.Getenv("ZOTERO_API_KEY")
		libraryID := os.Getenv("ZOTERO_LIBRARY_ID")
		data, err = GetFromZotero(ctx, sourceInfo.ZoteroID, zoteroAPIKey, libraryID)
		if err != nil {
			return models.DocumentData{}, fmt.Errorf("failed to fetch Zotero item %s: %w", sourceInfo.ZoteroID, err)
		}
	case sourceInfo.URL != "":
		data, err = GetFromURL(ctx, sourceInfo.URL)
		if err != nil {
			return models.DocumentData{}, fmt.Errorf("failed to fetch %s: %w", sourceInfo.URL, err)
		}
	default:
		return models.DocumentData{}, ErrNoData
	}

	if len(data) == 0 {
		return models.DocumentData{}, ErrNoData
	}

	return models.DocumentData{
		Data: data,
		Type: DetectDocumentType(data),
	}, nil
}

// GetFromURL fetches document data from a URL
func GetFromURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GetFromZotero fetches an attachment file from a Zotero library
func GetFromZotero(ctx context.Context, zoteroID string, apiKey string, libraryID string) ([]byte, error) {
	client := zotero.NewClient(libraryID, zotero.LibraryTypeUser, zotero.WithAPIKey(apiKey))
	return client.File(ctx, zoteroID)
}
