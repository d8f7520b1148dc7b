package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/storage"
	"trading-journal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 1000
	defaultSortBy    = "date"
	defaultSortDir   = "desc"
)

// TradeService defines the interface for managing trades.
type TradeService interface {
	Create(ctx context.Context, req *dto.CreateTradeRequest, upload *storage.Upload) (*dto.TradeResponse, error)
	Get(ctx context.Context, id string) (*dto.TradeResponse, error)
	List(ctx context.Context, q *dto.ListTradesQuery) ([]*dto.TradeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTradeRequest, upload *storage.Upload) (*dto.TradeResponse, error)
	Delete(ctx context.Context, id string) error
}

// NewTradeService creates a new trade service.
func NewTradeService(tradeRepo repository.TradeRepository, attachments *storage.AttachmentStore, logger *logger.Logger) TradeService {
	return &tradeService{
		tradeRepo:   tradeRepo,
		attachments: attachments,
		logger:      logger,
	}
}

type tradeService struct {
	tradeRepo   repository.TradeRepository
	attachments *storage.AttachmentStore
	logger      *logger.Logger
}

// Create validates the request, saves an optional attachment, and inserts the
// trade with server-assigned ID and timestamps.
func (s *tradeService) Create(ctx context.Context, req *dto.CreateTradeRequest, upload *storage.Upload) (*dto.TradeResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trade := &entity.Trade{
		ID:           uuid.NewString(),
		Date:         req.Date,
		Pair:         req.Pair,
		Direction:    entity.Direction(req.Direction),
		EntryPrice:   *req.EntryPrice,
		ExitPrice:    *req.ExitPrice,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		RiskAmount:   *req.RiskAmount,
		ResultAmount: *req.ResultAmount,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if upload != nil {
		url, err := s.attachments.Save(upload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttachmentIO, err)
		}
		trade.ScreenshotURL = &url
	}

	if err := s.tradeRepo.Insert(ctx, trade); err != nil {
		// The record never existed, so the file it would have referenced
		// must not be left behind.
		if trade.ScreenshotURL != nil {
			if delErr := s.attachments.Delete(*trade.ScreenshotURL); delErr != nil {
				s.logger.Warn("Failed to remove attachment after insert failure", logger.ErrorField(delErr))
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	s.logger.Info("Trade created", logger.Field("trade_id", trade.ID))
	return mapToTradeResponse(trade), nil
}

// Get retrieves a single trade by ID.
func (s *tradeService) Get(ctx context.Context, id string) (*dto.TradeResponse, error) {
	trade, err := s.findTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToTradeResponse(trade), nil
}

// List retrieves trades matching the query, ordered by date descending unless
// overridden.
func (s *tradeService) List(ctx context.Context, q *dto.ListTradesQuery) ([]*dto.TradeResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortDir := q.SortDir
	if sortDir == "" {
		sortDir = defaultSortDir
	}

	filter := repository.Filter{Pair: q.Pair, Direction: q.Direction}
	trades, err := s.tradeRepo.FindMany(ctx, filter, skip, limit, sortBy, sortDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	responses := make([]*dto.TradeResponse, 0, len(trades))
	for i := range trades {
		responses = append(responses, mapToTradeResponse(&trades[i]))
	}
	return responses, nil
}

// Update applies a sparse patch. Omitted fields are never touched; explicitly
// null optional fields are cleared. An empty patch with no attachment is a
// no-op that still returns the current record.
func (s *tradeService) Update(ctx context.Context, id string, req *dto.UpdateTradeRequest, upload *storage.Upload) (*dto.TradeResponse, error) {
	trade, err := s.findTrade(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Empty() && upload == nil {
		return mapToTradeResponse(trade), nil
	}

	fields, err := patchFields(req)
	if err != nil {
		return nil, err
	}

	if upload != nil {
		// Drop the old file first so at most one attachment stays reachable.
		// A failed delete is logged and tolerated: garbage on disk beats a
		// dangling reference, and the sweeper collects it later. The inverse
		// gap exists too: if the row update below fails, the stored reference
		// keeps pointing at the deleted file until the next successful update
		// or the trade's deletion.
		if trade.ScreenshotURL != nil {
			if delErr := s.attachments.Delete(*trade.ScreenshotURL); delErr != nil {
				s.logger.Warn("Failed to delete replaced attachment",
					logger.Field("trade_id", id), logger.ErrorField(delErr))
			}
		}
		url, err := s.attachments.Save(upload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttachmentIO, err)
		}
		fields["screenshot_url"] = url
	}

	fields["updated_at"] = time.Now().UTC()
	if _, err := s.tradeRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	updated, err := s.findTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Trade updated", logger.Field("trade_id", id))
	return mapToTradeResponse(updated), nil
}

// Delete removes the trade and its attachment file, if any.
func (s *tradeService) Delete(ctx context.Context, id string) error {
	trade, err := s.findTrade(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.tradeRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if deleted == 0 {
		return ErrTradeNotFound
	}

	if trade.ScreenshotURL != nil {
		if err := s.attachments.Delete(*trade.ScreenshotURL); err != nil {
			s.logger.Warn("Failed to delete attachment for removed trade",
				logger.Field("trade_id", id), logger.ErrorField(err))
		}
	}

	s.logger.Info("Trade deleted", logger.Field("trade_id", id))
	return nil
}

func (s *tradeService) findTrade(ctx context.Context, id string) (*entity.Trade, error) {
	trade, err := s.tradeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return trade, nil
}

func validateCreate(req *dto.CreateTradeRequest) error {
	switch {
	case req.Date == "":
		return fmt.Errorf("%w: date is required", ErrValidation)
	case req.Pair == "":
		return fmt.Errorf("%w: pair is required", ErrValidation)
	case !entity.Direction(req.Direction).Valid():
		return fmt.Errorf("%w: direction must be %q or %q", ErrValidation, entity.DirectionBuy, entity.DirectionSell)
	case req.EntryPrice == nil:
		return fmt.Errorf("%w: entry_price is required", ErrValidation)
	case req.ExitPrice == nil:
		return fmt.Errorf("%w: exit_price is required", ErrValidation)
	case req.RiskAmount == nil:
		return fmt.Errorf("%w: risk_amount is required", ErrValidation)
	case req.ResultAmount == nil:
		return fmt.Errorf("%w: result_amount is required", ErrValidation)
	case *req.EntryPrice <= 0:
		return fmt.Errorf("%w: entry_price must be positive", ErrValidation)
	case *req.ExitPrice <= 0:
		return fmt.Errorf("%w: exit_price must be positive", ErrValidation)
	}
	return nil
}

// patchFields converts a sparse patch into the column map handed to the store.
// Required attributes cannot be cleared; stop_loss, take_profit and notes can.
func patchFields(req *dto.UpdateTradeRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if req.Date.Set {
		if !req.Date.Valid || req.Date.Value == "" {
			return nil, fmt.Errorf("%w: date cannot be cleared", ErrValidation)
		}
		fields["date"] = req.Date.Value
	}
	if req.Pair.Set {
		if !req.Pair.Valid || req.Pair.Value == "" {
			return nil, fmt.Errorf("%w: pair cannot be cleared", ErrValidation)
		}
		fields["pair"] = req.Pair.Value
	}
	if req.Direction.Set {
		if !req.Direction.Valid || !entity.Direction(req.Direction.Value).Valid() {
			return nil, fmt.Errorf("%w: direction must be %q or %q", ErrValidation, entity.DirectionBuy, entity.DirectionSell)
		}
		fields["direction"] = req.Direction.Value
	}
	if req.EntryPrice.Set {
		if !req.EntryPrice.Valid || req.EntryPrice.Value <= 0 {
			return nil, fmt.Errorf("%w: entry_price must be positive", ErrValidation)
		}
		fields["entry_price"] = req.EntryPrice.Value
	}
	if req.ExitPrice.Set {
		if !req.ExitPrice.Valid || req.ExitPrice.Value <= 0 {
			return nil, fmt.Errorf("%w: exit_price must be positive", ErrValidation)
		}
		fields["exit_price"] = req.ExitPrice.Value
	}
	if req.RiskAmount.Set {
		if !req.RiskAmount.Valid {
			return nil, fmt.Errorf("%w: risk_amount cannot be cleared", ErrValidation)
		}
		fields["risk_amount"] = req.RiskAmount.Value
	}
	if req.ResultAmount.Set {
		if !req.ResultAmount.Valid {
			return nil, fmt.Errorf("%w: result_amount cannot be cleared", ErrValidation)
		}
		fields["result_amount"] = req.ResultAmount.Value
	}
	if req.StopLoss.Set {
		fields["stop_loss"] = req.StopLoss.Ptr()
	}
	if req.TakeProfit.Set {
		fields["take_profit"] = req.TakeProfit.Ptr()
	}
	if req.Notes.Set {
		fields["notes"] = req.Notes.Value
	}

	return fields, nil
}

// mapToTradeResponse maps an entity.Trade to a dto.TradeResponse.
func mapToTradeResponse(trade *entity.Trade) *dto.TradeResponse {
	return &dto.TradeResponse{
		ID:            trade.ID,
		Date:          trade.Date,
		Pair:          trade.Pair,
		Direction:     string(trade.Direction),
		EntryPrice:    trade.EntryPrice,
		ExitPrice:     trade.ExitPrice,
		StopLoss:      trade.StopLoss,
		TakeProfit:    trade.TakeProfit,
		RiskAmount:    trade.RiskAmount,
		ResultAmount:  trade.ResultAmount,
		Notes:         trade.Notes,
		ScreenshotURL: trade.ScreenshotURL,
		CreatedAt:     trade.CreatedAt,
		UpdatedAt:     trade.UpdatedAt,
	}
}
