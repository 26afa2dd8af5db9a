// Package llm transcribes scanned exam pages to markdown with the OpenAI
// Responses API, sharing one rate limiter across all calls.
package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/Epistemic-Technology/quizbank/internal/documents"
	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/models"
)

const transcriptionPrompt = `Transcribe this page of a multiple-choice exam into markdown.

- Reproduce every word in reading order. Concatenate columns top to bottom, left to right.
- Keep instructions such as "Read the following passage ... from 5 to 7" exactly as printed.
- Start each question on its own line as "Question N." followed by its stem.
- Write options as "A. ...", "B. ...", "C. ...", "D. ..." in that order.
- Keep bold text as **bold** and blanks as _____ .
- If the page is an answer key, write one "N. X" entry per question.
- Keep page headers and footers; do not add commentary, summaries or code fences.`

// Transcriber converts PDF pages to markdown text.
type Transcriber struct {
	client openai.Client
	model  shared.ChatModel
	log    logger.Logger
}

// NewTranscriber creates a Transcriber using the given API key.
func NewTranscriber(apiKey string, log logger.Logger) *Transcriber {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Transcriber{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  shared.ChatModelGPT5Mini,
		log:    log,
	}
}

// TranscribePDFPage transcribes a single-page PDF.
func (t *Transcriber) TranscribePDFPage(ctx context.Context, page models.DocumentPageData) (string, error) {
	encodedPageData := base64.StdEncoding.EncodeToString(page)
	response, err := t.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: t.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentUnionParam{
							OfInputFile: &responses.ResponseInputFileParam{
								FileData: openai.String("data:application/pdf;base64," + encodedPageData),
								Filename: openai.String("page.pdf"),
							},
						},
						responses.ResponseInputContentParamOfInputText(transcriptionPrompt),
					},
					"user",
				),
			},
		},
	})
	if err != nil {
		return "", err
	}
	return cleanTranscription(response.OutputText()), nil
}

// TranscribePDF splits a PDF into pages and transcribes them in parallel.
// The result holds one markdown string per page, in page order.
func (t *Transcriber) TranscribePDF(ctx context.Context, doc models.DocumentData) ([]string, error) {
	pages, err := documents.SplitPdf(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to split PDF into pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, documents.ErrNoPages
	}

	t.log.Info("Transcribing PDF with %d pages (parallel)", len(pages))
	texts, err := ParallelProcess(ctx, pages, t.log, func(ctx context.Context, idx int, page models.DocumentPageData) (string, error) {
		t.log.Debug("Calling OpenAI API for page %d", idx+1)
		text, err := RateLimitedCall(ctx, estimatedTokensPerPage, t.log, func(ctx context.Context) (string, error) {
			return t.TranscribePDFPage(ctx, page)
		})
		if err != nil {
			return "", fmt.Errorf("failed to transcribe page %d: %w", idx+1, err)
		}
		return text, nil
	})
	if err != nil {
		return nil, err
	}
	t.log.Info("Successfully transcribed all %d pages", len(pages))
	return texts, nil
}

// cleanTranscription removes a surrounding markdown code fence.
func cleanTranscription(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```md")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
