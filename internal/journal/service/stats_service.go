package service

import (
	"context"
	"fmt"
	"math"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/logger"
)

// StatsService produces the trading performance summary.
type StatsService interface {
	GetSummary(ctx context.Context) (*dto.StatsSummary, error)
}

// NewStatsService creates a new statistics service.
func NewStatsService(tradeRepo repository.TradeRepository, logger *logger.Logger) StatsService {
	return &statsService{tradeRepo: tradeRepo, logger: logger}
}

type statsService struct {
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
}

// GetSummary aggregates over the full trade set.
func (s *statsService) GetSummary(ctx context.Context) (*dto.StatsSummary, error) {
	trades, err := s.tradeRepo.FindMany(ctx, repository.Filter{}, 0, allTradesLimit, "date", "desc")
	if err != nil {
		s.logger.Error("Failed to load trades for summary", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	summary := computeSummary(trades)
	return &summary, nil
}

// allTradesLimit bounds the reporting queries; a single-user journal stays far
// below it.
const allTradesLimit = 100000

// computeSummary is a pure function over the trade set. Breakeven trades count
// toward total_trades only; they sit in neither the winning nor the losing
// partition. All ratios are defined as 0 on degenerate input rather than
// failing, and monetary outputs are rounded to two decimals at this boundary.
func computeSummary(trades []entity.Trade) dto.StatsSummary {
	if len(trades) == 0 {
		return dto.StatsSummary{}
	}

	var (
		winning, losing         int
		totalProfit             float64
		grossProfit, grossLoss  float64
		largestWin, largestLoss float64
	)

	for _, t := range trades {
		totalProfit += t.ResultAmount
		switch {
		case t.ResultAmount > 0:
			winning++
			grossProfit += t.ResultAmount
			if t.ResultAmount > largestWin {
				largestWin = t.ResultAmount
			}
		case t.ResultAmount < 0:
			losing++
			grossLoss += -t.ResultAmount
			if t.ResultAmount < largestLoss {
				largestLoss = t.ResultAmount
			}
		}
	}

	winRate := float64(winning) / float64(len(trades)) * 100

	var profitFactor float64
	if grossLoss > 0 {
		profitFactor = grossProfit / grossLoss
	}
	var averageWin float64
	if winning > 0 {
		averageWin = grossProfit / float64(winning)
	}
	var averageLoss float64
	if losing > 0 {
		averageLoss = grossLoss / float64(losing)
	}

	return dto.StatsSummary{
		TotalTrades:   len(trades),
		WinningTrades: winning,
		LosingTrades:  losing,
		TotalProfit:   round2(totalProfit),
		WinRate:       round2(winRate),
		ProfitFactor:  round2(profitFactor),
		AverageWin:    round2(averageWin),
		AverageLoss:   round2(averageLoss),
		LargestWin:    round2(largestWin),
		LargestLoss:   round2(largestLoss),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
