package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/core/ports"
)

// StatsHandler serves the dashboard reports. Every call is recomputed.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Overview handles GET /api/stats/overview.
//
// @Summary      Headline collection figures
// @Tags         stats
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.Overview
// @Failure      403  {object}  errorResponse
// @Router       /api/stats/overview [get]
func (h *StatsHandler) Overview(c echo.Context) error {
	overview, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

// Invoices handles GET /api/stats/invoices.
//
// @Summary      Invoice totals by status and overdue invoices
// @Tags         stats
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.InvoiceStats
// @Failure      403  {object}  errorResponse
// @Router       /api/stats/invoices [get]
func (h *StatsHandler) Invoices(c echo.Context) error {
	stats, err := h.service.Invoices(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Agents handles GET /api/stats/agents.
//
// @Summary      Recovery actions and collections per user
// @Tags         stats
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.AgentStats
// @Failure      403  {object}  errorResponse
// @Router       /api/stats/agents [get]
func (h *StatsHandler) Agents(c echo.Context) error {
	stats, err := h.service.Agents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
