// Package memory provides in-memory repository implementations, used in
// tests and local development where no database is available.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/internal/models"
	"tally/internal/repository"

	"github.com/google/uuid"
)

// EntryRepository is an in-memory implementation of repository.EntryRepository.
// It is safe for concurrent use.
type EntryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]models.Entry
}

// NewEntryRepository creates an empty in-memory entry repository
func NewEntryRepository() *EntryRepository {
	return &EntryRepository{entries: make(map[uuid.UUID]models.Entry)}
}

func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry.ID = uuid.New()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.entries[entry.ID] = *entry
	return nil
}

func (r *EntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[entry.ID]
	if !ok {
		return repository.ErrNotFound
	}

	entry.UserID = stored.UserID
	entry.CreatedAt = stored.CreatedAt
	entry.UpdatedAt = time.Now()
	r.entries[entry.ID] = *entry
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

func (r *EntryRepository) List(ctx context.Context, filter repository.EntryFilter) ([]models.Entry, error) {
	matched := r.match(filter)

	offset := 0
	if filter.Offset != nil {
		offset = *filter.Offset
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]

	if filter.Limit != nil && *filter.Limit < len(matched) {
		matched = matched[:*filter.Limit]
	}
	return matched, nil
}

func (r *EntryRepository) Count(ctx context.Context, filter repository.EntryFilter) (int, error) {
	return len(r.match(filter)), nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]models.Entry, error) {
	return r.match(repository.EntryFilter{}), nil
}

// match returns a sorted copy of all entries matching the filter,
// ignoring Limit and Offset. Sort order mirrors the postgres repository:
// date descending, created_at descending, id ascending.
func (r *EntryRepository) match(filter repository.EntryFilter) []models.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if filter.Search != nil && *filter.Search != "" &&
			!strings.Contains(strings.ToLower(e.Description), strings.ToLower(*filter.Search)) {
			continue
		}
		if filter.Currency != nil && e.Currency != *filter.Currency {
			continue
		}
		if filter.Type != nil && e.Type != *filter.Type {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return matched
}

var _ repository.EntryRepository = (*EntryRepository)(nil)
