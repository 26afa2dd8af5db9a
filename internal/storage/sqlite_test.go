package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Epistemic-Technology/quizbank/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func answer(s string) *string { return &s }

func sampleBank() *models.QuestionBank {
	return &models.QuestionBank{
		Records: []models.Record{
			{Group: &models.QuestionGroup{
				ID:      10,
				Type:    models.RecordTypeGroup,
				Context: "Tom lives in a small village.",
				Subquestions: []models.SubQuestion{
					{Content: "Where does Tom live?", Options: [4]string{"a city", "a village", "a town", "a farm"}, CorrectAnswer: answer("B")},
				},
				QuestionType: models.QuestionTypeReading,
			}},
			{Standalone: []models.StandaloneQuestion{
				{
					SubQuestion:  models.SubQuestion{Content: "a. Hi\nb. Fine", Options: [4]string{"a - b", "b - a", "a - a", "b - b"}},
					QuestionType: models.QuestionTypeReorder,
					Type:         models.RecordTypeStandalone,
					ID:           11,
				},
			}},
		},
		AnswerKey: map[int]string{1: "A", 5: "B"},
		PageCount: 3,
	}
}

func TestSQLiteStore_StoreAndGetBank(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	source := &models.SourceInfo{Path: "/tmp/exam.pdf"}

	if err := store.StoreBank(ctx, "doc_1", "run-1", sampleBank(), source); err != nil {
		t.Fatalf("StoreBank() error = %v", err)
	}

	bank, err := store.GetBank(ctx, "doc_1")
	if err != nil {
		t.Fatalf("GetBank() error = %v", err)
	}
	if bank.PageCount != 3 || len(bank.Records) != 2 {
		t.Fatalf("bank = %+v", bank)
	}
	if bank.Records[0].Group == nil || bank.Records[0].Group.Context != "Tom lives in a small village." {
		t.Errorf("first record = %+v", bank.Records[0])
	}
	if got := bank.Records[0].Group.Subquestions[0].CorrectAnswer; got == nil || *got != "B" {
		t.Errorf("answer = %v, want B", got)
	}
	if len(bank.Records[1].Standalone) != 1 || bank.Records[1].Standalone[0].ID != 11 {
		t.Errorf("second record = %+v", bank.Records[1])
	}
	if bank.AnswerKey[1] != "A" || bank.AnswerKey[5] != "B" || len(bank.AnswerKey) != 2 {
		t.Errorf("answer key = %v", bank.AnswerKey)
	}

	info, err := store.GetDocumentInfo(ctx, "doc_1")
	if err != nil {
		t.Fatalf("GetDocumentInfo() error = %v", err)
	}
	if info.RunID != "run-1" || info.RecordCount != 2 || info.SourceInfo.Path != "/tmp/exam.pdf" {
		t.Errorf("info = %+v", info)
	}
}

func TestSQLiteStore_ReplaceBank(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	source := &models.SourceInfo{URL: "https://example.com/exam.pdf"}

	if err := store.StoreBank(ctx, "doc_1", "run-1", sampleBank(), source); err != nil {
		t.Fatalf("StoreBank() error = %v", err)
	}
	smaller := sampleBank()
	smaller.Records = smaller.Records[:1]
	smaller.AnswerKey = map[int]string{2: "D"}
	if err := store.StoreBank(ctx, "doc_1", "run-2", smaller, source); err != nil {
		t.Fatalf("StoreBank() error = %v", err)
	}

	bank, err := store.GetBank(ctx, "doc_1")
	if err != nil {
		t.Fatalf("GetBank() error = %v", err)
	}
	if len(bank.Records) != 1 || len(bank.AnswerKey) != 1 || bank.AnswerKey[2] != "D" {
		t.Errorf("replaced bank = %+v", bank)
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 1 || docs[0].RunID != "run-2" {
		t.Errorf("documents = %+v", docs)
	}
}

func TestSQLiteStore_GetRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.StoreBank(ctx, "doc_1", "run-1", sampleBank(), &models.SourceInfo{}); err != nil {
		t.Fatalf("StoreBank() error = %v", err)
	}

	record, err := store.GetRecord(ctx, "doc_1", 1)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if record.QuestionType() != models.QuestionTypeReorder {
		t.Errorf("record type = %q", record.QuestionType())
	}

	if _, err := store.GetRecord(ctx, "doc_1", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord() out of range error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []string{"doc_a", "doc_b"} {
		if err := store.StoreBank(ctx, id, "run-"+id, sampleBank(), &models.SourceInfo{}); err != nil {
			t.Fatalf("StoreBank(%s) error = %v", id, err)
		}
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 || docs[0].DocumentID != "doc_b" {
		t.Errorf("documents = %+v, want doc_b first", docs)
	}

	if err := store.DeleteDocument(ctx, "doc_a"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	exists, err := store.DocumentExists(ctx, "doc_a")
	if err != nil {
		t.Fatalf("DocumentExists() error = %v", err)
	}
	if exists {
		t.Error("doc_a should be gone")
	}
	if _, err := store.GetRecord(ctx, "doc_a", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("records of a deleted document should be gone, got %v", err)
	}
	if err := store.DeleteDocument(ctx, "doc_a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetBank(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBank(missing) error = %v, want ErrNotFound", err)
	}
}

func TestGenerateDocumentID(t *testing.T) {
	data := []byte("%PDF-1.4 exam")

	if got := GenerateDocumentID(models.SourceInfo{ZoteroID: "ABCD1234"}, data); got != "zotero_ABCD1234" {
		t.Errorf("zotero id = %q", got)
	}

	fromPath := GenerateDocumentID(models.SourceInfo{Path: "/a/exam.pdf"}, data)
	fromURL := GenerateDocumentID(models.SourceInfo{URL: "https://example.com/exam.pdf"}, data)
	if fromPath != fromURL {
		t.Errorf("same content should share an id: %q vs %q", fromPath, fromURL)
	}
	if !strings.HasPrefix(fromPath, "doc_") || len(fromPath) != len("doc_")+16 {
		t.Errorf("content id = %q", fromPath)
	}
	if other := GenerateDocumentID(models.SourceInfo{}, []byte("other")); other == fromPath {
		t.Error("different content should not share an id")
	}
}

func TestCalculateResourcePaths(t *testing.T) {
	paths := CalculateResourcePaths("doc_1", sampleBank())
	want := []string{
		"quiz://doc_1",
		"quiz://doc_1/records",
		"quiz://doc_1/records/0",
		"quiz://doc_1/records/{index}",
		"quiz://doc_1/answers",
	}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	empty := CalculateResourcePaths("doc_2", &models.QuestionBank{})
	if len(empty) != 2 {
		t.Errorf("empty bank paths = %v", empty)
	}
}

func TestParseRecordIndex(t *testing.T) {
	if got, err := ParseRecordIndex("3"); err != nil || got != 3 {
		t.Errorf("ParseRecordIndex(3) = %d, %v", got, err)
	}
	for _, bad := range []string{"-1", "x", ""} {
		if _, err := ParseRecordIndex(bad); err == nil {
			t.Errorf("ParseRecordIndex(%q) should fail", bad)
		}
	}
}
