package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned when a receipt or paycheck id is unknown
var ErrDocumentNotFound = errors.New("document not found")

// SaveReceipt stores an uploaded receipt file
func (s *Store) SaveReceipt(ctx context.Context, kind, description, month, filename string, content []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO receipts (kind, description, month, filename, content)
		 VALUES (?, ?, ?, ?, ?)`,
		kind, description, month, filename, content)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// ListReceipts returns receipt metadata, newest first. An empty month (or
// "todos") lists everything.
func (s *Store) ListReceipts(ctx context.Context, month string) ([]Document, error) {
	query := `SELECT id, kind, description, month, filename, uploaded_at
	          FROM receipts ORDER BY uploaded_at DESC`
	args := []interface{}{}
	if month != "" && month != "todos" {
		query = `SELECT id, kind, description, month, filename, uploaded_at
		         FROM receipts WHERE month = ? ORDER BY uploaded_at DESC`
		args = append(args, month)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Kind, &d.Description, &d.Month, &d.Filename, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetReceiptFile returns the filename and bytes of one stored receipt
func (s *Store) GetReceiptFile(ctx context.Context, id int64) (string, []byte, error) {
	var filename string
	var content []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT filename, content FROM receipts WHERE id = ?", id).
		Scan(&filename, &content)
	if err == sql.ErrNoRows {
		return "", nil, ErrDocumentNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("get receipt: %w", err)
	}
	return filename, content, nil
}

// SavePaycheck stores an uploaded paycheck file for a month
func (s *Store) SavePaycheck(ctx context.Context, month, filename string, content []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO paychecks (month, filename, content) VALUES (?, ?, ?)",
		month, filename, content)
	if err != nil {
		return fmt.Errorf("insert paycheck: %w", err)
	}
	return nil
}

// ListPaychecks returns paycheck metadata, newest first
func (s *Store) ListPaychecks(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, month, filename, uploaded_at FROM paychecks ORDER BY uploaded_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list paychecks: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Month, &d.Filename, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan paycheck: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetPaycheckFile returns the filename and bytes of one stored paycheck
func (s *Store) GetPaycheckFile(ctx context.Context, id int64) (string, []byte, error) {
	var filename string
	var content []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT filename, content FROM paychecks WHERE id = ?", id).
		Scan(&filename, &content)
	if err == sql.ErrNoRows {
		return "", nil, ErrDocumentNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("get paycheck: %w", err)
	}
	return filename, content, nil
}
