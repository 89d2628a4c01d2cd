package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tally/internal/accounting"
	"tally/internal/audit"
	"tally/internal/auth"
	"tally/internal/models"
	"tally/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EntryHandler handles ledger entry requests
type EntryHandler struct {
	svc   *accounting.Service
	audit *audit.Logger
	log   *logrus.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(svc *accounting.Service, auditLog *audit.Logger, log *logrus.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, audit: auditLog, log: log}
}

// entryListQuery binds the listing query parameters
type entryListQuery struct {
	Q        string `form:"q"`
	Currency string `form:"currency" binding:"omitempty,currencycode"`
	Type     string `form:"type" binding:"omitempty,entrytype"`
	Page     string `form:"page"`
	PageSize string `form:"page_size"`
}

// ListEntries returns a filtered, paginated entry listing
func (h *EntryHandler) ListEntries(c *gin.Context) {
	var q entryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	criteria := accounting.SearchCriteria{Query: q.Q}
	if q.Currency != "" {
		currency, _ := models.ParseCurrency(q.Currency)
		criteria.Currency = &currency
	}
	if q.Type != "" {
		entryType, _ := models.ParseEntryType(q.Type)
		criteria.Type = &entryType
	}
	// Unparseable page numbers fall back to the defaults
	criteria.Page, _ = strconv.Atoi(q.Page)
	criteria.PageSize, _ = strconv.Atoi(q.PageSize)

	entries, totalPages, err := h.svc.List(c.Request.Context(), criteria)
	if err != nil {
		h.storageFailure(c, "failed to list entries", err)
		return
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, models.EntryListResponse{
		Entries:    entries,
		Page:       page,
		TotalPages: totalPages,
	})
}

// GetEntry returns a single entry by its ID
func (h *EntryHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid entry ID"})
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "entry not found"})
		return
	}
	if err != nil {
		h.storageFailure(c, "failed to fetch entry", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CreateEntry validates and stores a new ledger entry
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	actor := auth.GetUserFromContext(c)
	entry, err := h.svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.mutationError(c, "failed to create entry", err)
		return
	}

	h.audit.Record(actor, audit.ActionEntryCreate, logrus.Fields{"entry_id": entry.ID.String()})
	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry applies a partial update to an existing entry
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid entry ID"})
		return
	}

	var req models.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	actor := auth.GetUserFromContext(c)
	entry, err := h.svc.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.mutationError(c, "failed to update entry", err)
		return
	}

	h.audit.Record(actor, audit.ActionEntryUpdate, logrus.Fields{"entry_id": entry.ID.String()})
	c.JSON(http.StatusOK, entry)
}

// DeleteEntry removes an existing entry
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid entry ID"})
		return
	}

	actor := auth.GetUserFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), actor, id); err != nil {
		h.mutationError(c, "failed to delete entry", err)
		return
	}

	h.audit.Record(actor, audit.ActionEntryDelete, logrus.Fields{"entry_id": id.String()})
	c.Status(http.StatusNoContent)
}

// mutationError maps a mutation failure onto the response taxonomy:
// validation failures list every violated field, authorization and
// missing-record failures keep their distinct status codes, and anything
// else is a storage failure reported generically.
func (h *EntryHandler) mutationError(c *gin.Context, msg string, err error) {
	var verr *accounting.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, accounting.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "admin access required"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "entry not found"})
	default:
		h.storageFailure(c, msg, err)
	}
}

func (h *EntryHandler) storageFailure(c *gin.Context, msg string, err error) {
	h.log.WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msg})
}
