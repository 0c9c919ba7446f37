package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
)

// sweepBatchSize bounds how many rows one sweep pass loads at a time.
const sweepBatchSize = 500

type sweeperService struct {
	repo     repositories.Repository
	db       *gorm.DB
	logger   *slog.Logger
	requests *requestService
	notifier NotificationEventService

	interval  time.Duration
	threshold time.Duration
}

func NewSweeperService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, requests RequestService, notifier NotificationEventService, interval, threshold time.Duration) SweeperService {
	return &sweeperService{
		repo:      repo,
		db:        db,
		logger:    logger,
		requests:  requests.(*requestService),
		notifier:  notifier,
		interval:  interval,
		threshold: threshold,
	}
}

// Sweep expires every PENDING request older than the threshold. A failure
// on one row is logged and the scan continues, so one bad record never
// halts the sweep. Re-running on a clean state is a no-op.
func (s *sweeperService) Sweep(ctx context.Context, now time.Time, threshold time.Duration) (int, error) {
	cutoff := now.Add(-threshold)

	expired := 0
	for {
		batch, err := s.repo.Request().GetPendingOlderThan(ctx, s.db, cutoff, sweepBatchSize)
		if err != nil {
			return expired, err
		}
		if len(batch) == 0 {
			break
		}

		progressed := false
		for _, request := range batch {
			moved, err := s.requests.expire(ctx, request.ID)
			if err != nil {
				s.logger.Warn("Skipping request during sweep",
					"request_id", request.ID,
					"error", err)
				continue
			}
			if !moved {
				// Accepted or rejected between scan and update
				continue
			}

			progressed = true
			expired++
			s.logger.Info("Auto-cancelled stale request",
				"request_id", request.ID,
				"created_at", request.CreatedAt)

			if s.notifier != nil {
				request.Status = models.RequestCancelledAuto
				s.notifier.NotifyRequestExpired(ctx, request)
			}
		}

		if len(batch) < sweepBatchSize {
			break
		}
		if !progressed {
			// Every row in a full batch failed, bail out instead of spinning
			break
		}
	}

	return expired, nil
}

// Start runs the sweeper until ctx is cancelled. Each tick gets its own
// timeout so a stuck pass cannot stall the loop forever.
func (s *sweeperService) Start(ctx context.Context) {
	s.logger.Info("Expiry sweeper started",
		"interval", s.interval,
		"threshold", s.threshold)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *sweeperService) runOnce(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	count, err := s.Sweep(tickCtx, time.Now(), s.threshold)
	if err != nil {
		s.logger.Error("Sweep pass failed", "expired", count, "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("Sweep pass finished", "expired", count)
	}
}
