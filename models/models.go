package models

import (
	"bytes"
	"encoding/json"
)

// QuestionType is the semantic kind assigned to an extracted group.
type QuestionType string

const (
	QuestionTypeReading   QuestionType = "reading"
	QuestionTypeFillShort QuestionType = "fill_short"
	QuestionTypeFillLong  QuestionType = "fill_long"
	QuestionTypeReorder   QuestionType = "reorder"
)

// Valid reports whether t is one of the four known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeReading, QuestionTypeFillShort, QuestionTypeFillLong, QuestionTypeReorder:
		return true
	}
	return false
}

// Values of the "type" field that tell consumers which record shape they hold.
const (
	RecordTypeStandalone = 0
	RecordTypeGroup      = 1
)

type SubQuestion struct {
	Content       string    `json:"content"`
	Options       [4]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
}

// StandaloneQuestion is a reorder item emitted without a group envelope.
type StandaloneQuestion struct {
	SubQuestion
	QuestionType QuestionType `json:"question_type"`
	Type         int          `json:"type"`
	ID           int64        `json:"id"`
}

type QuestionGroup struct {
	ID           int64         `json:"id"`
	Type         int           `json:"type"`
	Context      string        `json:"context"`
	Subquestions []SubQuestion `json:"subquestions"`
	QuestionType QuestionType  `json:"question_type"`
}

// Record is one element of an extracted bank. Exactly one of Group and
// Standalone is set. A group encodes as a JSON object, standalone questions
// encode as a JSON array of question objects.
type Record struct {
	Group      *QuestionGroup
	Standalone []StandaloneQuestion
}

// Subquestions returns the questions held by the record in order.
func (r Record) Subquestions() []SubQuestion {
	if r.Group != nil {
		return r.Group.Subquestions
	}
	subs := make([]SubQuestion, 0, len(r.Standalone))
	for _, q := range r.Standalone {
		subs = append(subs, q.SubQuestion)
	}
	return subs
}

// QuestionType returns the group's type, or reorder for standalone records.
func (r Record) QuestionType() QuestionType {
	if r.Group != nil {
		return r.Group.QuestionType
	}
	return QuestionTypeReorder
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Group != nil {
		return json.Marshal(r.Group)
	}
	if r.Standalone == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Standalone)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		r.Group = nil
		return json.Unmarshal(trimmed, &r.Standalone)
	}
	var group QuestionGroup
	if err := json.Unmarshal(trimmed, &group); err != nil {
		return err
	}
	r.Group = &group
	r.Standalone = nil
	return nil
}

// QuestionBank is everything extracted from one document.
type QuestionBank struct {
	Records   []Record       `json:"records"`
	AnswerKey map[int]string `json:"answer_key,omitempty"`
	PageCount int            `json:"page_count"`
}

// BankSummary aggregates counts over an extracted bank.
type BankSummary struct {
	Groups     int                  `json:"groups"`
	Standalone int                  `json:"standalone"`
	Questions  int                  `json:"questions"`
	Answered   int                  `json:"answered"`
	ByType     map[QuestionType]int `json:"by_type"`
}

type DocumentData struct {
	Data []byte
	Type string
}

type DocumentPageData []byte
type DocumentPages []DocumentPageData

// SourceInfo contains information about where the document came from
type SourceInfo struct {
	Path     string `json:"path,omitempty"`
	ZoteroID string `json:"zotero_id,omitempty"`
	URL      string `json:"url,omitempty"`
}

// DocumentInfo contains basic information about a stored bank
type DocumentInfo struct {
	DocumentID  string     `json:"document_id"`
	RunID       string     `json:"run_id"`
	PageCount   int        `json:"page_count"`
	RecordCount int        `json:"record_count"`
	SourceInfo  SourceInfo `json:"source_info,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
}
