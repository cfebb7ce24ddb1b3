// Package store is the durable side of the capture pipeline: payload bytes
// in blob storage, metadata and annotations in the database, presented as a
// single keyed record store. The controller treats it as a best-effort
// mirror; memory stays the source of truth during a live session.
package store

import (
	"context"

	"github.com/kdimtricp/formcheck/internal/models"
)

// MediaStore persists captured records under opaque store-assigned keys.
// Put with a record that already carries a StorageKey updates in place;
// otherwise a new key is allocated. Get returns nil for an absent key.
type MediaStore interface {
	Put(ctx context.Context, rec *models.MediaRecord) (string, error)
	Get(ctx context.Context, key string) (*models.MediaRecord, error)
	Delete(ctx context.Context, key string) error
	ListAll(ctx context.Context) ([]*models.MediaRecord, error)
	Clear(ctx context.Context) error
}
