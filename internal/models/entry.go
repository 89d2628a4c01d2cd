package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry. The direction of an entry is carried
// here, never in the sign of the amount.
type EntryType string

const (
	EntryTypeIncome   EntryType = "Income"
	EntryTypeExpense  EntryType = "Expense"
	EntryTypeTransfer EntryType = "Transfer"
)

// EntryTypes returns every supported entry type
func EntryTypes() []EntryType {
	return []EntryType{EntryTypeIncome, EntryTypeExpense, EntryTypeTransfer}
}

// ParseEntryType normalizes a type label and rejects unknown values
func ParseEntryType(s string) (EntryType, error) {
	for _, t := range EntryTypes() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported entry type %q", s)
}

// IsValid reports whether t is one of the supported entry types
func (t EntryType) IsValid() bool {
	_, err := ParseEntryType(string(t))
	return err == nil
}

// Entry represents a single financial record in the ledger
type Entry struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    Currency        `json:"currency" db:"currency"`
	Type        EntryType       `json:"type" db:"type"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ConvertedEntry is an Entry reduced to the fields the aggregate chart
// needs, with its amount expressed in the reporting currency. It is derived
// per request and never persisted.
type ConvertedEntry struct {
	ID     uuid.UUID       `json:"id"`
	Date   time.Time       `json:"date"`
	Type   EntryType       `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateEntryRequest carries a new entry submission. Fields are loosely
// typed so validation can report every violated field in one pass instead
// of stopping at the first bad value.
type CreateEntryRequest struct {
	Date        string          `json:"date" example:"2024-03-20"`
	Description string          `json:"description" example:"Groceries"`
	Amount      decimal.Decimal `json:"amount" example:"42.50"`
	Currency    string          `json:"currency" example:"USD"`
	Type        string          `json:"type" example:"Expense"`
}

// UpdateEntryRequest carries a partial entry update. Nil fields keep the
// stored value.
type UpdateEntryRequest struct {
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Type        *string          `json:"type,omitempty"`
}

// EntryListResponse is the paginated response for entry listings
type EntryListResponse struct {
	Entries    []Entry `json:"entries"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}
