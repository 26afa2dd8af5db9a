package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Epistemic-Technology/quizbank/models"
)

// Fixed-width so that created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store. dbPath may be ":memory:".
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases alive across queries and
	// serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		path TEXT,
		zotero_id TEXT,
		url TEXT,
		page_count INTEGER NOT NULL,
		record_count INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		document_id TEXT NOT NULL,
		record_index INTEGER NOT NULL,
		question_type TEXT NOT NULL,
		record_json TEXT NOT NULL,
		PRIMARY KEY (document_id, record_index)
	);

	CREATE TABLE IF NOT EXISTS answers (
		document_id TEXT NOT NULL,
		question_number INTEGER NOT NULL,
		answer TEXT NOT NULL,
		PRIMARY KEY (document_id, question_number)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_zotero_id ON documents(zotero_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// StoreBank stores a bank, replacing any earlier extraction of the same document
func (s *SQLiteStore) StoreBank(ctx context.Context, docID string, runID string, bank *models.QuestionBank, sourceInfo *models.SourceInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteDocument(ctx, tx, docID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, run_id, path, zotero_id, url, page_count, record_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, docID, runID, sourceInfo.Path, sourceInfo.ZoteroID, sourceInfo.URL,
		bank.PageCount, len(bank.Records), time.Now().UTC().Format(createdAtLayout))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for i, record := range bank.Records {
		recordJSON, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO records (document_id, record_index, question_type, record_json)
			VALUES (?, ?, ?, ?)
		`, docID, i, string(record.QuestionType()), string(recordJSON))
		if err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	for number, answer := range bank.AnswerKey {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO answers (document_id, question_number, answer)
			VALUES (?, ?, ?)
		`, docID, number, answer)
		if err != nil {
			return fmt.Errorf("failed to insert answer %d: %w", number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBank retrieves the full bank for a document
func (s *SQLiteStore) GetBank(ctx context.Context, docID string) (*models.QuestionBank, error) {
	info, err := s.GetDocumentInfo(ctx, docID)
	if err != nil {
		return nil, err
	}

	records, err := s.getRecords(ctx, docID)
	if err != nil {
		return nil, err
	}
	key, err := s.getAnswerKey(ctx, docID)
	if err != nil {
		return nil, err
	}

	return &models.QuestionBank{
		Records:   records,
		AnswerKey: key,
		PageCount: info.PageCount,
	}, nil
}

func (s *SQLiteStore) getRecords(ctx context.Context, docID string) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_json FROM records
		WHERE document_id = ?
		ORDER BY record_index
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var record models.Record
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) getAnswerKey(ctx context.Context, docID string) (map[int]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_number, answer FROM answers
		WHERE document_id = ?
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	key := map[int]string{}
	for rows.Next() {
		var number int
		var answer string
		if err := rows.Scan(&number, &answer); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		key[number] = answer
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}
	return key, nil
}

// GetRecord retrieves a single record by index (0-indexed)
func (s *SQLiteStore) GetRecord(ctx context.Context, docID string, index int) (*models.Record, error) {
	var recordJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT record_json FROM records
		WHERE document_id = ? AND record_index = ?
	`, docID, index).Scan(&recordJSON)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %d of %s: %w", index, docID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	var record models.Record
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

const documentColumns = `id, run_id, path, zotero_id, url, page_count, record_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocumentInfo(row scanner) (models.DocumentInfo, error) {
	var doc models.DocumentInfo
	var path, zoteroID, url sql.NullString
	err := row.Scan(&doc.DocumentID, &doc.RunID, &path, &zoteroID, &url,
		&doc.PageCount, &doc.RecordCount, &doc.CreatedAt)
	doc.SourceInfo = models.SourceInfo{Path: path.String, ZoteroID: zoteroID.String, URL: url.String}
	return doc, err
}

// GetDocumentInfo retrieves the bookkeeping row of a document
func (s *SQLiteStore) GetDocumentInfo(ctx context.Context, docID string) (*models.DocumentInfo, error) {
	doc, err := scanDocumentInfo(s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, docID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &doc, nil
}

// DocumentExists reports whether a bank is cached for the document
func (s *SQLiteStore) DocumentExists(ctx context.Context, docID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE id = ?`, docID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}
	return count > 0, nil
}

// ListDocuments returns all cached documents, newest first
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	documents := []models.DocumentInfo{}
	for rows.Next() {
		doc, err := scanDocumentInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return documents, nil
}

// DeleteDocument removes a document and its records
func (s *SQLiteStore) DeleteDocument(ctx context.Context, docID string) error {
	exists, err := s.DocumentExists(ctx, docID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteDocument(ctx, tx, docID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteDocument(ctx context.Context, tx *sql.Tx, docID string) error {
	for _, table := range []string{"answers", "records"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE document_id = ?`, docID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
