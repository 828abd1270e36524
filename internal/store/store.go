// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"dexwatch/internal/models"
)

// DataStore defines the interface for token data persistence. Snapshot and
// event rows are append-only: nothing in the pipeline updates or deletes a
// past row. The read methods exist only for downstream inspection (CLI
// listing and export); the pipeline never calls them.
type DataStore interface {
	// SaveSnapshot appends one snapshot row for a token that passed
	// filtering and verification.
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error

	// RecordEvent appends one detected event row.
	RecordEvent(ctx context.Context, tokenID string, ev models.Event) error

	// Inspection reads
	GetRecentSnapshots(ctx context.Context, limit int) ([]models.Snapshot, error)
	GetRecentEvents(ctx context.Context, limit int) ([]models.StoredEvent, error)
	GetEventsForToken(ctx context.Context, tokenID string) ([]models.StoredEvent, error)

	// Lifecycle
	Close() error
}
