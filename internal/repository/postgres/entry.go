package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tally/internal/models"
	"tally/internal/repository"

	"github.com/google/uuid"
)

type entryRepository struct {
	repository.BaseRepository
}

// NewEntryRepository creates a new PostgreSQL ledger entry repository
func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, date, description, amount, currency, type, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	entry.ID = uuid.New()

	return r.DB().QueryRowContext(ctx, query,
		entry.ID,
		entry.Date,
		entry.Description,
		entry.Amount,
		entry.Currency,
		entry.Type,
		entry.UserID,
		now,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *entryRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET date = $1, description = $2, amount = $3, currency = $4, type = $5, updated_at = $6
		WHERE id = $7
		RETURNING updated_at`

	result := r.DB().QueryRowContext(ctx, query,
		entry.Date,
		entry.Description,
		entry.Amount,
		entry.Currency,
		entry.Type,
		time.Now(),
		entry.ID,
	)

	if err := result.Scan(&entry.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *entryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	query := `
		SELECT id, date, description, amount, currency, type, user_id, created_at, updated_at
		FROM entries
		WHERE id = $1`

	entry := &models.Entry{}
	err := r.DB().QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.Date,
		&entry.Description,
		&entry.Amount,
		&entry.Currency,
		&entry.Type,
		&entry.UserID,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// buildConditions translates a filter into WHERE conditions and arguments
func buildConditions(filter repository.EntryFilter) ([]string, []interface{}) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argCount := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", argCount))
		args = append(args, "%"+*filter.Search+"%")
		argCount++
	}

	if filter.Currency != nil {
		conditions = append(conditions, fmt.Sprintf("currency = $%d", argCount))
		args = append(args, *filter.Currency)
		argCount++
	}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argCount))
		args = append(args, *filter.Type)
	}

	return conditions, args
}

func (r *entryRepository) List(ctx context.Context, filter repository.EntryFilter) ([]models.Entry, error) {
	conditions, args := buildConditions(filter)
	argCount := len(args) + 1

	query := `
		SELECT id, date, description, amount, currency, type, user_id, created_at, updated_at
		FROM entries`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Listing order is fixed so pagination is stable across identical queries
	query += " ORDER BY date DESC, created_at DESC, id ASC"

	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, *filter.Limit)
		argCount++
	}

	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, *filter.Offset)
	}

	return r.queryEntries(ctx, query, args...)
}

func (r *entryRepository) Count(ctx context.Context, filter repository.EntryFilter) (int, error) {
	conditions, args := buildConditions(filter)

	query := `SELECT COUNT(*) FROM entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *entryRepository) ListAll(ctx context.Context) ([]models.Entry, error) {
	query := `
		SELECT id, date, description, amount, currency, type, user_id, created_at, updated_at
		FROM entries
		ORDER BY date DESC, created_at DESC, id ASC`

	return r.queryEntries(ctx, query)
}

func (r *entryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.Entry, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(
			&e.ID,
			&e.Date,
			&e.Description,
			&e.Amount,
			&e.Currency,
			&e.Type,
			&e.UserID,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
