// Package extraction rebuilds quiz question groups from the text of an exam
// document. It runs a fixed pipeline: preprocess, segment into blocks, parse
// questions, normalize content, classify and assemble.
package extraction

import (
	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/models"
)

// Extractor runs the pipeline for one document at a time. It is not safe for
// concurrent use because its IDSource is stateful; use one Extractor per
// goroutine.
type Extractor struct {
	log logger.Logger
	ids IDSource
}

// Result is the output of one extraction run.
type Result struct {
	Records     []models.Record
	AnswerKey   AnswerKey
	Boilerplate []string
}

func NewExtractor(log logger.Logger, ids IDSource) *Extractor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if ids == nil {
		ids = Sequence(1)
	}
	return &Extractor{log: log, ids: ids}
}

// Extract processes doc and returns its records. Stage-local misses only
// shrink the result; Extract never fails.
func (e *Extractor) Extract(doc *RawDocument) Result {
	pre := Preprocess(doc)
	if len(pre.Boilerplate) > 0 {
		e.log.Debug("Removed %d boilerplate lines", len(pre.Boilerplate))
	}
	e.log.Debug("Answer key has %d entries", len(pre.AnswerKey))

	blocks := Segment(pre.Text)
	e.log.Debug("Found %d candidate blocks", len(blocks))

	records := Assemble(blocks, pre.AnswerKey, e.ids, e.log)
	e.log.Info("Extracted %d records from %d pages", len(records), doc.PageCount())

	return Result{
		Records:     records,
		AnswerKey:   pre.AnswerKey,
		Boilerplate: pre.Boilerplate,
	}
}

// Bank converts the result into the stored/serialized form.
func (r Result) Bank(pageCount int) models.QuestionBank {
	key := make(map[int]string, len(r.AnswerKey))
	for n, letter := range r.AnswerKey {
		key[n] = letter
	}
	records := r.Records
	if records == nil {
		records = []models.Record{}
	}
	return models.QuestionBank{
		Records:   records,
		AnswerKey: key,
		PageCount: pageCount,
	}
}
