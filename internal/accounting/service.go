// Package accounting implements the ledger core: filtered paginated
// listings, currency normalization for the aggregate chart, and
// role-gated mutations with existence checks.
package accounting

import (
	"context"
	"fmt"

	"tally/internal/exchange"
	"tally/internal/models"
	"tally/internal/repository"

	"github.com/google/uuid"
)

// DefaultPageSize is the page size applied when a caller supplies none
const DefaultPageSize = 9

// SearchCriteria describes one entry listing request
type SearchCriteria struct {
	// Query filters entries whose description contains the text,
	// case-insensitively. Empty means no text filter.
	Query string
	// Currency restricts results to one currency when set
	Currency *models.Currency
	// Type restricts results to one entry type when set
	Type *models.EntryType
	// Page is 1-based; values below 1 are clamped to 1
	Page int
	// PageSize defaults to DefaultPageSize when not positive
	PageSize int
}

// Service coordinates ledger reads and mutations against the entry store
// and the exchange rate gateway. It holds no mutable state of its own, so
// one instance serves concurrent requests.
type Service struct {
	entries repository.EntryRepository
	gateway exchange.Gateway
}

// NewService creates a new accounting service
func NewService(entries repository.EntryRepository, gateway exchange.Gateway) *Service {
	return &Service{entries: entries, gateway: gateway}
}

// List returns the page of entries matching the criteria and the total
// number of pages for that filter. All supplied filters apply together.
// Pages past the end yield an empty slice, never an error. Ordering is
// the repository listing order (date, then creation time, then id), so
// an identical query paginates identically on every call.
func (s *Service) List(ctx context.Context, criteria SearchCriteria) ([]models.Entry, int, error) {
	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	filter := repository.EntryFilter{
		Currency: criteria.Currency,
		Type:     criteria.Type,
	}
	if criteria.Query != "" {
		filter.Search = &criteria.Query
	}

	count, err := s.entries.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	totalPages := (count + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	offset := (page - 1) * pageSize
	filter.Limit = &pageSize
	filter.Offset = &offset

	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	return entries, totalPages, nil
}

// Get returns a single entry by id. A missing id is reported as
// repository.ErrNotFound; callers decide whether that is fatal.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	return s.entries.GetByID(ctx, id)
}

// Create validates the payload and stores a new entry owned by the actor.
// Only admins may create entries.
func (s *Service) Create(ctx context.Context, actor *models.User, req models.CreateEntryRequest) (*models.Entry, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	d := draft{
		date:        req.Date,
		description: req.Description,
		amount:      req.Amount,
		currency:    req.Currency,
		entryType:   req.Type,
	}
	entry, verr := d.validate()
	if verr != nil {
		return nil, verr
	}

	entry.UserID = actor.ID
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

// Update merges the partial payload onto the stored entry and validates
// the result with the same rules as Create. The entry must already exist;
// an update never creates a record implicitly.
func (s *Service) Update(ctx context.Context, actor *models.User, id uuid.UUID, req models.UpdateEntryRequest) (*models.Entry, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	stored, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry, verr := merge(stored, req).validate()
	if verr != nil {
		return nil, verr
	}

	entry.ID = stored.ID
	entry.UserID = stored.UserID
	entry.CreatedAt = stored.CreatedAt
	if err := s.entries.Update(ctx, entry); err != nil {
		if err == repository.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return entry, nil
}

// Delete removes an existing entry. Deleting an id that does not exist is
// an error, not a no-op.
func (s *Service) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if err := authorize(actor); err != nil {
		return err
	}

	if _, err := s.entries.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.entries.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// authorize gates every mutating operation on the actor's role
func authorize(actor *models.User) error {
	if actor == nil {
		return ErrForbidden
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleUser:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}
