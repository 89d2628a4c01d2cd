package handlers

import (
	"errors"
	"net/http"

	"tally/internal/accounting"
	"tally/internal/exchange"
	"tally/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChartHandler serves aggregate chart data with all amounts normalized
// to one reporting currency
type ChartHandler struct {
	svc *accounting.Service
	log *logrus.Logger
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(svc *accounting.Service, log *logrus.Logger) *ChartHandler {
	return &ChartHandler{svc: svc, log: log}
}

type chartQuery struct {
	Currency string `form:"currency" binding:"omitempty,currencycode"`
}

// ChartData returns every entry converted into the requested reporting
// currency. The currency defaults to USD and is case-insensitive.
func (h *ChartHandler) ChartData(c *gin.Context) {
	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unsupported currency"})
		return
	}

	target := models.DefaultCurrency
	if q.Currency != "" {
		target, _ = models.ParseCurrency(q.Currency)
	}

	converted, err := h.svc.ChartData(c.Request.Context(), target)
	if err != nil {
		var rateErr *exchange.RateError
		if errors.As(err, &rateErr) {
			h.log.WithError(err).Warn("exchange rate unavailable")
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error: "rate unavailable for " + rateErr.Currency.String(),
			})
			return
		}
		h.log.WithError(err).Error("failed to build chart data")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to build chart data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency": target,
		"entries":  converted,
	})
}
