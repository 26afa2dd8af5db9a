package operations

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
)

// getZoteroCredentials retrieves Zotero credentials from environment.
// Skips the test if credentials are not available.
func getZoteroCredentials(t *testing.T) (apiKey, libraryID string) {
	apiKey = os.Getenv("ZOTERO_API_KEY")
	libraryID = os.Getenv("ZOTERO_LIBRARY_ID")

	if apiKey == "" || libraryID == "" {
		t.Skip("ZOTERO_API_KEY and ZOTERO_LIBRARY_ID not set, skipping integration test")
	}

	return apiKey, libraryID
}

func TestFindExamSources_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	apiKey, libraryID := getZoteroCredentials(t)
	ctx := context.Background()
	log := logger.NewNoOpLogger()

	tests := []struct {
		name   string
		params ExamSourceParams
	}{
		{"default parameters", ExamSourceParams{}},
		{"query with limit", ExamSourceParams{Query: "exam", Limit: 5}},
		{"tag filter", ExamSourceParams{Tags: []string{"exam"}, Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources, err := FindExamSources(ctx, apiKey, libraryID, tt.params, log)
			if err != nil {
				t.Fatalf("FindExamSources failed: %v", err)
			}
			t.Logf("Found %d sources", len(sources))

			for i, source := range sources {
				if source.Key == "" {
					t.Errorf("Source %d has empty Key", i)
				}
				if len(source.Attachments) == 0 {
					t.Errorf("Source %d has no extractable attachments", i)
				}
				for _, att := range source.Attachments {
					if !isExtractable(att.ContentType) {
						t.Errorf("Attachment %s has non-extractable type %q", att.Key, att.ContentType)
					}
				}
			}
		})
	}
}

func TestFindExamSources_MissingCredentials(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoOpLogger()

	tests := []struct {
		name      string
		apiKey    string
		libraryID string
		wantError error
	}{
		{"Missing API key", "", "12345", errMissingZoteroKey},
		{"Missing library ID", "test-key", "", errMissingZoteroLibrary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindExamSources(ctx, tt.apiKey, tt.libraryID, ExamSourceParams{Limit: 5}, log)
			if !errors.Is(err, tt.wantError) {
				t.Errorf("Expected error %v, got %v", tt.wantError, err)
			}
		})
	}
}

func TestIsExtractable(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"text/html; charset=utf-8", true},
		{"TEXT/PLAIN", true},
		{"text/markdown", true},
		{"image/png", false},
		{"application/epub+zip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := isExtractable(tt.contentType); got != tt.want {
				t.Errorf("isExtractable(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
