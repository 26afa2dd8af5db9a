package operations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Epistemic-Technology/quizbank/internal/documents"
	"github.com/Epistemic-Technology/quizbank/internal/extraction"
	"github.com/Epistemic-Technology/quizbank/internal/llm"
	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/internal/storage"
	"github.com/Epistemic-Technology/quizbank/models"
)

// ExtractParams names the document to extract. Exactly one of Path,
// ZoteroID, URL and RawData should be set.
type ExtractParams struct {
	Path     string
	ZoteroID string
	URL      string
	RawData  []byte
	// Force re-extracts even when a cached bank exists.
	Force bool
}

// ExtractResult is the outcome of GetOrExtractBank.
type ExtractResult struct {
	DocumentID string
	RunID      string
	Bank       *models.QuestionBank
	Summary    models.BankSummary
	Cached     bool
}

func (p ExtractParams) sourceInfo() models.SourceInfo {
	return models.SourceInfo{Path: p.Path, ZoteroID: p.ZoteroID, URL: p.URL}
}

// LoadDocument reads the document bytes named by params.
func LoadDocument(ctx context.Context, params ExtractParams) (models.DocumentData, error) {
	if params.RawData != nil {
		if len(params.RawData) == 0 {
			return models.DocumentData{}, documents.ErrNoData
		}
		return models.DocumentData{
			Data: params.RawData,
			Type: documents.DetectDocumentType(params.RawData),
		}, nil
	}
	return documents.GetData(ctx, params.sourceInfo())
}

// LoadPages converts a document to page texts. PDFs whose text layer looks
// like a scan are transcribed when OPENAI_API_KEY is set; otherwise the
// text layer is used as is.
func LoadPages(ctx context.Context, doc models.DocumentData, log logger.Logger) ([]string, error) {
	pages, err := documents.TextPages(doc)
	if doc.Type != "pdf" {
		return pages, err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if err != nil {
		if apiKey == "" {
			return nil, err
		}
		log.Warn("PDF text layer unreadable (%v), transcribing instead", err)
		return llm.NewTranscriber(apiKey, log).TranscribePDF(ctx, doc)
	}

	_, hasImages, infoErr := documents.PdfInfo(doc.Data)
	if infoErr != nil {
		log.Debug("Could not inspect PDF structure: %v", infoErr)
	}
	quality := documents.MeasureQuality(pages, hasImages)
	log.Debug("Text layer quality: %.1f chars/page, %.2f printable, images=%v",
		quality.CharsPerPage, quality.PrintableRatio, quality.HasImageStreams)
	if !quality.NeedsOCR() {
		return pages, nil
	}
	if apiKey == "" {
		log.Warn("PDF looks scanned but OPENAI_API_KEY is not set; using the text layer")
		return pages, nil
	}

	log.Info("PDF looks scanned, transcribing %d pages", quality.PageCount)
	return llm.NewTranscriber(apiKey, log).TranscribePDF(ctx, doc)
}

// ExtractBank runs the extraction pipeline over a loaded document.
func ExtractBank(ctx context.Context, doc models.DocumentData, ids extraction.IDSource, log logger.Logger) (*models.QuestionBank, error) {
	pages, err := LoadPages(ctx, doc, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	raw := extraction.NewRawDocument(pages)
	result := extraction.NewExtractor(log, ids).Extract(raw)
	bank := result.Bank(raw.PageCount())
	return &bank, nil
}

// TimeSequence returns an IDSource seeded with the current time in
// microseconds, so IDs from separate runs rarely collide.
func TimeSequence() extraction.IDSource {
	return extraction.Sequence(time.Now().UnixMicro())
}

// GetOrExtractBank returns the cached bank for a document, extracting and
// caching it first when needed.
func GetOrExtractBank(ctx context.Context, params ExtractParams, store storage.Store, log logger.Logger) (*ExtractResult, error) {
	doc, err := LoadDocument(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	sourceInfo := params.sourceInfo()
	docID := storage.GenerateDocumentID(sourceInfo, doc.Data)

	if !params.Force {
		bank, err := store.GetBank(ctx, docID)
		switch {
		case err == nil:
			info, err := store.GetDocumentInfo(ctx, docID)
			if err != nil {
				return nil, fmt.Errorf("failed to retrieve document info: %w", err)
			}
			log.Info("Using cached bank for %s", docID)
			return &ExtractResult{
				DocumentID: docID,
				RunID:      info.RunID,
				Bank:       bank,
				Summary:    extraction.Summarize(bank.Records),
				Cached:     true,
			}, nil
		case !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("failed to retrieve existing bank: %w", err)
		}
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	bank, err := ExtractBank(ctx, doc, TimeSequence(), log)
	if err != nil {
		return nil, err
	}
	if err := store.StoreBank(ctx, docID, runID.String(), bank, &sourceInfo); err != nil {
		return nil, fmt.Errorf("failed to store bank: %w", err)
	}

	return &ExtractResult{
		DocumentID: docID,
		RunID:      runID.String(),
		Bank:       bank,
		Summary:    extraction.Summarize(bank.Records),
	}, nil
}
