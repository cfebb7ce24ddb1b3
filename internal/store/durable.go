package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/kdimtricp/formcheck/internal/database"
	"github.com/kdimtricp/formcheck/internal/models"
	"github.com/kdimtricp/formcheck/internal/storage"
)

// DurableStore implements MediaStore on top of the media repository and the
// payload blob storage. Payload bytes are written once on first Put; later
// Puts for the same key only refresh the row (the payload is immutable).
type DurableStore struct {
	repo  *database.MediaRepo
	blobs storage.Storage
}

func NewDurableStore(repo *database.MediaRepo, blobs storage.Storage) *DurableStore {
	return &DurableStore{repo: repo, blobs: blobs}
}

func (s *DurableStore) Put(ctx context.Context, rec *models.MediaRecord) (string, error) {
	key := rec.StorageKey
	var filename string

	if key == "" {
		saved, err := s.blobs.SaveBytes(rec.Payload, rec.Kind.Extension())
		if err != nil {
			return "", fmt.Errorf("failed to store payload: %w", err)
		}
		filename = saved
		key = uuid.New().String()
	} else {
		existing, err := s.repo.GetByKey(ctx, key)
		if err != nil {
			return "", err
		}
		if existing == nil {
			// Deleted underneath us mid-flight; drop the update silently.
			return key, nil
		}
		filename = existing.Filename
	}

	analysisJSON, err := marshalAnnotation(rec.Analysis)
	if err != nil {
		return "", err
	}

	row := &database.MediaRow{
		Key:          key,
		RecordID:     rec.ID,
		Kind:         string(rec.Kind),
		Filename:     filename,
		DisplayName:  rec.DisplayName,
		CreatedAt:    rec.CreatedAt,
		AnalysisJSON: analysisJSON,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return "", err
	}

	return key, nil
}

func (s *DurableStore) Get(ctx context.Context, key string) (*models.MediaRecord, error) {
	row, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return s.rowToRecord(row), nil
}

func (s *DurableStore) Delete(ctx context.Context, key string) error {
	row, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.blobs.DeleteFile(row.Filename); err != nil {
		log.Printf("[STORE] Failed to delete payload %s: %v", row.Filename, err)
	}
	return nil
}

func (s *DurableStore) ListAll(ctx context.Context) ([]*models.MediaRecord, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*models.MediaRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.rowToRecord(row))
	}
	return records, nil
}

func (s *DurableStore) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.blobs.DeleteAll(); err != nil {
		log.Printf("[STORE] Failed to clear payload storage: %v", err)
	}
	return nil
}

func (s *DurableStore) rowToRecord(row *database.MediaRow) *models.MediaRecord {
	rec := &models.MediaRecord{
		ID:          row.RecordID,
		Kind:        models.MediaKind(row.Kind),
		CreatedAt:   row.CreatedAt,
		DisplayName: row.DisplayName,
		StorageKey:  row.Key,
	}

	if row.AnalysisJSON != "" {
		var annotation models.AnalysisAnnotation
		if err := json.Unmarshal([]byte(row.AnalysisJSON), &annotation); err != nil {
			log.Printf("[STORE] Failed to decode annotation for %s: %v", row.Key, err)
		} else {
			rec.Analysis = &annotation
		}
	}

	file, err := s.blobs.OpenFile(row.Filename)
	if err != nil {
		log.Printf("[STORE] Missing payload for %s: %v", row.Key, err)
		return rec
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[STORE] Failed to read payload for %s: %v", row.Key, err)
		return rec
	}
	rec.Payload = payload

	return rec
}

func marshalAnnotation(a *models.AnalysisAnnotation) (string, error) {
	if a == nil {
		return "", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode annotation: %w", err)
	}
	return string(data), nil
}
