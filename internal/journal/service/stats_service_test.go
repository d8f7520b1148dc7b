package service

import (
	"context"
	"testing"

	"trading-journal/internal/entity"
	"trading-journal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradesWithResults(results ...float64) []entity.Trade {
	trades := make([]entity.Trade, len(results))
	for i, r := range results {
		trades[i] = entity.Trade{ResultAmount: r}
	}
	return trades
}

func TestComputeSummary_EmptySet(t *testing.T) {
	summary := computeSummary(nil)

	assert.Zero(t, summary.TotalTrades)
	assert.Zero(t, summary.WinningTrades)
	assert.Zero(t, summary.LosingTrades)
	assert.Zero(t, summary.TotalProfit)
	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.ProfitFactor)
	assert.Zero(t, summary.AverageWin)
	assert.Zero(t, summary.AverageLoss)
	assert.Zero(t, summary.LargestWin)
	assert.Zero(t, summary.LargestLoss)
}

func TestComputeSummary_MixedResults(t *testing.T) {
	summary := computeSummary(tradesWithResults(150, 120, -85, -70))

	assert.Equal(t, 4, summary.TotalTrades)
	assert.Equal(t, 2, summary.WinningTrades)
	assert.Equal(t, 2, summary.LosingTrades)
	assert.Equal(t, 115.0, summary.TotalProfit)
	assert.Equal(t, 50.0, summary.WinRate)
	assert.Equal(t, 1.74, summary.ProfitFactor)
	assert.Equal(t, 135.0, summary.AverageWin)
	assert.Equal(t, 77.5, summary.AverageLoss)
	assert.Equal(t, 150.0, summary.LargestWin)
	assert.Equal(t, -85.0, summary.LargestLoss)
}

func TestComputeSummary_NoLosersMeansZeroProfitFactor(t *testing.T) {
	summary := computeSummary(tradesWithResults(150, 120))

	// Degenerate by policy: 0, not infinity and not an error.
	assert.Zero(t, summary.ProfitFactor)
	assert.Equal(t, 100.0, summary.WinRate)
	assert.Zero(t, summary.AverageLoss)
	assert.Zero(t, summary.LargestLoss)
}

func TestComputeSummary_BreakevenCountsTowardTotalOnly(t *testing.T) {
	summary := computeSummary(tradesWithResults(100, 0, 0, -50))

	assert.Equal(t, 4, summary.TotalTrades)
	assert.Equal(t, 1, summary.WinningTrades)
	assert.Equal(t, 1, summary.LosingTrades)
	assert.Equal(t, 50.0, summary.TotalProfit)
	assert.Equal(t, 25.0, summary.WinRate)
}

func TestComputeSummary_RoundsAtReportingBoundary(t *testing.T) {
	summary := computeSummary(tradesWithResults(10, -3, -3))

	// 10 / 6 = 1.666... and 1/3 of trades won, both reported with two decimals.
	assert.Equal(t, 1.67, summary.ProfitFactor)
	assert.Equal(t, 33.33, summary.WinRate)
}

func TestStatsService_GetSummary(t *testing.T) {
	repo, _ := setupEnv(t)
	svc := NewStatsService(repo, logger.NewNop())
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalTrades)

	require.NoError(t, repo.Insert(ctx, &entity.Trade{ID: "t1", Date: "2024-01-15", Pair: "EURUSD", Direction: entity.DirectionBuy, ResultAmount: 150}))
	require.NoError(t, repo.Insert(ctx, &entity.Trade{ID: "t2", Date: "2024-01-16", Pair: "EURUSD", Direction: entity.DirectionSell, ResultAmount: -85}))

	summary, err = svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalTrades)
	assert.Equal(t, 65.0, summary.TotalProfit)
}
