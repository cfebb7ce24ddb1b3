package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MediaRow is the stored form of a capture: metadata plus the payload's
// storage filename and the annotation serialized as JSON. The payload bytes
// themselves live in blob storage, not in the row.
type MediaRow struct {
	Key          string
	RecordID     string
	Kind         string
	Filename     string
	DisplayName  string
	CreatedAt    time.Time
	AnalysisJSON string
}

type MediaRepo struct {
	db *DB
}

func NewMediaRepo(db *DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// Upsert inserts the row or, when the key already exists, replaces its
// mutable columns. Identity columns keep their original values on conflict.
func (r *MediaRepo) Upsert(ctx context.Context, row *MediaRow) error {
	if r.db.dbType == "postgres" {
		query := `
			INSERT INTO media_records (
				key, record_id, kind, filename, display_name, created_at, analysis
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (key)
			DO UPDATE SET
				display_name = EXCLUDED.display_name,
				analysis = EXCLUDED.analysis`

		_, err := r.db.conn.ExecContext(ctx, query,
			row.Key, row.RecordID, row.Kind, row.Filename,
			row.DisplayName, row.CreatedAt, nullable(row.AnalysisJSON),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert media record: %w", err)
		}
		return nil
	}

	query := `
		INSERT OR REPLACE INTO media_records (
			key, record_id, kind, filename, display_name, created_at, analysis
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		row.Key, row.RecordID, row.Kind, row.Filename,
		row.DisplayName, row.CreatedAt, nullable(row.AnalysisJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert media record: %w", err)
	}
	return nil
}

// GetByKey returns the row for key, or nil when it does not exist.
func (r *MediaRepo) GetByKey(ctx context.Context, key string) (*MediaRow, error) {
	query := `
		SELECT key, record_id, kind, filename, display_name, created_at, analysis
		FROM media_records
		WHERE key = $1`

	row := &MediaRow{}
	var analysis sql.NullString

	err := r.db.conn.QueryRowContext(ctx, query, key).Scan(
		&row.Key, &row.RecordID, &row.Kind, &row.Filename,
		&row.DisplayName, &row.CreatedAt, &analysis,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media record: %w", err)
	}

	row.AnalysisJSON = analysis.String
	return row, nil
}

// ListAll returns every stored record, newest first.
func (r *MediaRepo) ListAll(ctx context.Context) ([]*MediaRow, error) {
	query := `
		SELECT key, record_id, kind, filename, display_name, created_at, analysis
		FROM media_records
		ORDER BY created_at DESC`

	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list media records: %w", err)
	}
	defer rows.Close()

	var result []*MediaRow
	for rows.Next() {
		row := &MediaRow{}
		var analysis sql.NullString

		if err := rows.Scan(
			&row.Key, &row.RecordID, &row.Kind, &row.Filename,
			&row.DisplayName, &row.CreatedAt, &analysis,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media record: %w", err)
		}

		row.AnalysisJSON = analysis.String
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r *MediaRepo) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM media_records WHERE key = $1`
	if _, err := r.db.conn.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	return nil
}

func (r *MediaRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM media_records`); err != nil {
		return fmt.Errorf("failed to clear media records: %w", err)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
