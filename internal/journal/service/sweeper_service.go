package service

import (
	"context"
	"fmt"
	"time"

	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/storage"
	"trading-journal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SweeperService periodically removes attachment files no trade references
// anymore. Replacement keeps the old file when its deletion fails, so garbage
// can accumulate; the sweeper is the compensating cleanup.
type SweeperService interface {
	Start(ctx context.Context) error
	Sweep(ctx context.Context) (int, error)
}

// NewSweeperService creates a sweeper running on the given cron schedule.
// Files younger than gracePeriod are skipped so an upload racing a sweep is
// never collected.
func NewSweeperService(tradeRepo repository.TradeRepository, attachments *storage.AttachmentStore, logger *logger.Logger, schedule string, gracePeriod time.Duration) SweeperService {
	return &sweeperService{
		tradeRepo:   tradeRepo,
		attachments: attachments,
		logger:      logger,
		schedule:    schedule,
		gracePeriod: gracePeriod,
	}
}

type sweeperService struct {
	tradeRepo   repository.TradeRepository
	attachments *storage.AttachmentStore
	logger      *logger.Logger
	schedule    string
	gracePeriod time.Duration
}

// Start registers the cron job and blocks until the context is canceled.
func (s *sweeperService) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.schedule, func() {
		removed, err := s.Sweep(ctx)
		if err != nil {
			s.logger.Error("Attachment sweep failed", logger.ErrorField(err))
			return
		}
		if removed > 0 {
			s.logger.Info("Attachment sweep removed orphaned files", logger.Field("count", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", s.schedule, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Sweep deletes stored files that no trade references and that are older than
// the grace period. Individual delete failures are logged, never fatal.
func (s *sweeperService) Sweep(ctx context.Context) (int, error) {
	stored, err := s.attachments.List()
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return 0, nil
	}

	trades, err := s.tradeRepo.FindMany(ctx, repository.Filter{}, 0, allTradesLimit, "date", "desc")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	referenced := make(map[string]struct{}, len(trades))
	for i := range trades {
		if trades[i].ScreenshotURL != nil {
			referenced[*trades[i].ScreenshotURL] = struct{}{}
		}
	}

	cutoff := time.Now().Add(-s.gracePeriod)
	removed := 0
	for url, modTime := range stored {
		if _, ok := referenced[url]; ok {
			continue
		}
		if modTime.After(cutoff) {
			continue
		}
		if err := s.attachments.Delete(url); err != nil {
			s.logger.Warn("Failed to delete orphaned attachment", logger.Field("url", url), logger.ErrorField(err))
			continue
		}
		removed++
	}
	return removed, nil
}
