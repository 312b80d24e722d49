package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/metrics"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/repositories"
)

// DefaultRetentionDays is used when the configured period is not positive.
const DefaultRetentionDays = 90

// RetentionService deletes conversations that have not been updated recently.
type RetentionService interface {
	// Prune removes conversations last updated more than retentionDays ago.
	Prune(ctx context.Context, retentionDays int) (int64, error)

	// Start schedules Prune on the configured cron expression. It does
	// nothing when no schedule is configured. Cancel ctx or call Stop to end it.
	Start(ctx context.Context) error

	// Stop halts the scheduler and waits for a running prune to finish.
	Stop()
}

type retentionService struct {
	conversations repositories.ConversationRepository
	cfg           config.RetentionConfig
	metrics       *metrics.Collector
	logger        *zap.Logger
	now           func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewRetentionService creates a retention service. collector may be nil.
func NewRetentionService(
	conversations repositories.ConversationRepository,
	cfg config.RetentionConfig,
	collector *metrics.Collector,
	logger *zap.Logger,
) RetentionService {
	return &retentionService{
		conversations: conversations,
		cfg:           cfg,
		metrics:       collector,
		logger:        logger.Named("retention-service"),
		now:           time.Now,
	}
}

var _ RetentionService = (*retentionService)(nil)

func (s *retentionService) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted, err := s.conversations.DeleteUpdatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune conversations: %w", err)
	}

	s.metrics.RecordRetention(deleted)
	if deleted > 0 {
		s.logger.Info("Retention cleanup completed",
			zap.Int("retention_days", retentionDays),
			zap.Time("cutoff", cutoff),
			zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func (s *retentionService) Start(ctx context.Context) error {
	if s.cfg.Schedule == "" {
		s.logger.Info("Retention schedule not configured, conversations are kept indefinitely")
		return nil
	}

	schedule, err := cron.ParseStandard(s.cfg.Schedule)
	if err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.cfg.Schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("retention scheduler already started")
	}

	s.cron = cron.New()
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		if _, err := s.Prune(ctx, s.cfg.Days); err != nil {
			s.logger.Error("Scheduled retention cleanup failed", zap.Error(err))
		}
	}))
	s.cron.Start()

	s.logger.Info("Retention scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.Int("retention_days", s.cfg.Days))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *retentionService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("Retention scheduler stopped")
}
