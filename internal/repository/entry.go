package repository

import (
	"context"
	"tally/internal/models"

	"github.com/google/uuid"
)

// EntryRepository defines the interface for ledger entry storage operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	// List returns entries matching the filter in listing order:
	// date descending, then created_at descending, then id ascending.
	// The order is fixed so a paginated listing is stable across calls.
	List(ctx context.Context, filter EntryFilter) ([]models.Entry, error)
	// Count returns the number of entries matching the filter,
	// ignoring Limit and Offset.
	Count(ctx context.Context, filter EntryFilter) (int, error)
	// ListAll returns every entry in listing order with no filtering
	// or pagination applied.
	ListAll(ctx context.Context) ([]models.Entry, error)
}

// EntryFilter defines the filter options for listing ledger entries.
// All supplied filters are applied conjunctively.
type EntryFilter struct {
	// Search matches case-insensitively against the description
	Search   *string
	Currency *models.Currency
	Type     *models.EntryType
	Limit    *int
	Offset   *int
}
