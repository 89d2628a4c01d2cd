package accounting

import (
	"strings"
	"time"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted for entry dates
const DateLayout = "2006-01-02"

// draft is a fully merged entry payload awaiting validation
type draft struct {
	date        string
	description string
	amount      decimal.Decimal
	currency    string
	entryType   string
}

// validate checks every field rule and collects all violations, so the
// caller receives the complete set in one response rather than the first.
func (d draft) validate() (*models.Entry, *ValidationError) {
	fields := make(map[string]string)

	var date time.Time
	if strings.TrimSpace(d.date) == "" {
		fields["date"] = "date is required"
	} else {
		var err error
		date, err = time.Parse(DateLayout, d.date)
		if err != nil {
			fields["date"] = "date must be a calendar date in YYYY-MM-DD format"
		}
	}

	description := strings.TrimSpace(d.description)
	if description == "" {
		fields["description"] = "description is required"
	}

	if d.amount.LessThanOrEqual(decimal.Zero) {
		fields["amount"] = "amount must be greater than zero"
	}

	currency, err := models.ParseCurrency(d.currency)
	if err != nil {
		fields["currency"] = "currency must be one of USD, MXN, EUR, GBP"
	}

	entryType, err := models.ParseEntryType(d.entryType)
	if err != nil {
		fields["type"] = "type must be one of Income, Expense, Transfer"
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &models.Entry{
		Date:        date,
		Description: description,
		Amount:      d.amount,
		Currency:    currency,
		Type:        entryType,
	}, nil
}

// merge overlays the non-nil fields of an update request onto a stored entry
func merge(stored *models.Entry, req models.UpdateEntryRequest) draft {
	d := draft{
		date:        stored.Date.Format(DateLayout),
		description: stored.Description,
		amount:      stored.Amount,
		currency:    string(stored.Currency),
		entryType:   string(stored.Type),
	}

	if req.Date != nil {
		d.date = *req.Date
	}
	if req.Description != nil {
		d.description = *req.Description
	}
	if req.Amount != nil {
		d.amount = *req.Amount
	}
	if req.Currency != nil {
		d.currency = *req.Currency
	}
	if req.Type != nil {
		d.entryType = *req.Type
	}
	return d
}
