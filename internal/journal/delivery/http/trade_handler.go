package http

import (
	"errors"
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/internal/journal/storage"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradeHandler handles HTTP requests for trades.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logger: logger}
}

// RegisterRoutes registers the trade routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateTrade)
	g.GET("", h.ListTrades)
	g.GET("/:id", h.GetTrade)
	g.PUT("/:id", h.UpdateTrade)
	g.DELETE("/:id", h.DeleteTrade)
}

// CreateTrade godoc
// @Summary Create a new trade
// @Description Create a new trade entry, optionally with a screenshot (multipart)
// @Tags trades
// @Accept json
// @Accept mpfd
// @Produce json
// @Param trade body dto.CreateTradeRequest true "Trade to create"
// @Success 201 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades [post]
func (h *TradeHandler) CreateTrade(c echo.Context) error {
	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	upload, closeUpload, err := screenshotUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid screenshot upload"})
	}
	if upload != nil {
		defer closeUpload()
	}

	trade, err := h.tradeService.Create(c.Request().Context(), &req, upload)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, trade)
}

// ListTrades godoc
// @Summary List trades
// @Description List trades with optional filtering, pagination and ordering
// @Tags trades
// @Produce json
// @Param pair query string false "Case-insensitive pair substring"
// @Param direction query string false "Exact direction match (buy or sell)"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 1000)"
// @Success 200 {array} dto.TradeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades [get]
func (h *TradeHandler) ListTrades(c echo.Context) error {
	var q dto.ListTradesQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
	}

	trades, err := h.tradeService.List(c.Request().Context(), &q)
	if err != nil {
		h.logger.Error("Failed to list trades", logger.ErrorField(err))
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, trades)
}

// GetTrade godoc
// @Summary Get a trade by ID
// @Tags trades
// @Produce json
// @Param id path string true "Trade ID"
// @Success 200 {object} dto.TradeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/{id} [get]
func (h *TradeHandler) GetTrade(c echo.Context) error {
	trade, err := h.tradeService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, trade)
}

// UpdateTrade godoc
// @Summary Update an existing trade
// @Description Apply a sparse patch; omitted fields are left untouched. A new
// @Description screenshot in a multipart request replaces the stored one.
// @Tags trades
// @Accept json
// @Accept mpfd
// @Produce json
// @Param id path string true "Trade ID"
// @Param trade body dto.UpdateTradeRequest true "Fields to change"
// @Success 200 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/{id} [put]
func (h *TradeHandler) UpdateTrade(c echo.Context) error {
	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	upload, closeUpload, err := screenshotUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid screenshot upload"})
	}
	if upload != nil {
		defer closeUpload()
	}

	trade, err := h.tradeService.Update(c.Request().Context(), c.Param("id"), &req, upload)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, trade)
}

// DeleteTrade godoc
// @Summary Delete a trade
// @Description Delete a trade and its attachment, if any
// @Tags trades
// @Produce json
// @Param id path string true "Trade ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/{id} [delete]
func (h *TradeHandler) DeleteTrade(c echo.Context) error {
	if err := h.tradeService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Trade deleted successfully"})
}

// screenshotUpload extracts the optional screenshot file part. JSON requests
// and multipart requests without a screenshot part both yield a nil upload.
func screenshotUpload(c echo.Context) (*storage.Upload, func(), error) {
	fh, err := c.FormFile("screenshot")
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &storage.Upload{Reader: f, Filename: fh.Filename}, func() { f.Close() }, nil
}

// errorResponse maps service failures onto HTTP status codes.
func (h *TradeHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrTradeNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Trade not found"})
	default:
		h.logger.Error("Trade operation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
