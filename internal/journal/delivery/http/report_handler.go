package http

import (
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReportHandler handles the read-only reporting endpoints.
type ReportHandler struct {
	statsService  service.StatsService
	exportService service.ExportService
	logger        *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(statsService service.StatsService, exportService service.ExportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{statsService: statsService, exportService: exportService, logger: logger}
}

// RegisterRoutes registers the reporting routes to the trades group. The static
// segments take priority over the :id route in the router.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stats/summary", h.GetStatsSummary)
	g.GET("/export/csv", h.ExportCSV)
}

// GetStatsSummary godoc
// @Summary Get trading statistics summary
// @Tags reports
// @Produce json
// @Success 200 {object} dto.StatsSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/stats/summary [get]
func (h *ReportHandler) GetStatsSummary(c echo.Context) error {
	summary, err := h.statsService.GetSummary(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to compute statistics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error calculating stats"})
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportCSV godoc
// @Summary Export all trades as CSV data
// @Tags reports
// @Produce json
// @Success 200 {object} dto.ExportResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/export/csv [get]
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	export, err := h.exportService.ExportCSV(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to export trades", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Error exporting trades"})
	}
	return c.JSON(http.StatusOK, export)
}
