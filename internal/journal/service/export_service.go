package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/logger"
)

// ExportService serializes the full trade set to a flat CSV table.
type ExportService interface {
	ExportCSV(ctx context.Context) (*dto.ExportResponse, error)
}

// NewExportService creates a new export service.
func NewExportService(tradeRepo repository.TradeRepository, logger *logger.Logger) ExportService {
	return &exportService{tradeRepo: tradeRepo, logger: logger}
}

type exportService struct {
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
}

var exportHeaders = []string{
	"Date", "Pair", "Direction", "Entry Price", "Exit Price",
	"Stop Loss", "Take Profit", "Risk Amount", "Result Amount", "Notes",
}

// ExportCSV renders all trades in chronological order, oldest first. The
// listing default is newest first; an export reads as a history.
func (s *exportService) ExportCSV(ctx context.Context) (*dto.ExportResponse, error) {
	trades, err := s.tradeRepo.FindMany(ctx, repository.Filter{}, 0, allTradesLimit, "date", "asc")
	if err != nil {
		s.logger.Error("Failed to load trades for export", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if len(trades) == 0 {
		return &dto.ExportResponse{Data: "", Filename: "trades_export.csv"}, nil
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeaders, ","))
	b.WriteByte('\n')
	for i := range trades {
		b.WriteString(strings.Join(exportRow(&trades[i]), ","))
		b.WriteByte('\n')
	}

	return &dto.ExportResponse{
		Data:     b.String(),
		Filename: fmt.Sprintf("trades_export_%s.csv", time.Now().Format("20060102_150405")),
	}, nil
}

func exportRow(t *entity.Trade) []string {
	return []string{
		t.Date,
		t.Pair,
		string(t.Direction),
		formatAmount(t.EntryPrice),
		formatAmount(t.ExitPrice),
		formatOptional(t.StopLoss),
		formatOptional(t.TakeProfit),
		formatAmount(t.RiskAmount),
		formatAmount(t.ResultAmount),
		// Commas in free text are swapped for semicolons so columns stay
		// aligned without full CSV quoting.
		strings.ReplaceAll(t.Notes, ",", ";"),
	}
}

func formatAmount(v float64) string {
	// 'f' keeps large amounts in plain decimal notation; 'g' would flip to
	// an exponent around 1e6.
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}
