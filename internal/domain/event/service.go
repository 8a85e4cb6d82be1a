package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const defaultListLimit = 50

// Service records and lists report events.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new event service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogEvent stores an event with the current timestamp if missing.
func (s *Service) LogEvent(ctx context.Context, tenantID string, entry *Event) error {
	if entry == nil || entry.Type == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging event: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("report event", "type", entry.Type, "tenant_id", tenantID, "project_count", entry.ProjectCount, "duration_ms", entry.DurationMS)
	}
	return nil
}

// PortfolioRebuilt records a health portfolio cache rebuild.
// Storage failures are logged, not returned, so the report itself still succeeds.
func (s *Service) PortfolioRebuilt(ctx context.Context, tenantID string, projectCount int, took time.Duration) {
	s.record(ctx, tenantID, &Event{
		Type:         TypePortfolioRebuilt,
		ProjectCount: projectCount,
		DurationMS:   took.Milliseconds(),
	})
}

// SnapshotSweep records a tenant-wide snapshot sweep.
func (s *Service) SnapshotSweep(ctx context.Context, tenantID string, projectCount, snapshotted int, took time.Duration) {
	details, _ := json.Marshal(map[string]int{"snapshotted": snapshotted, "failed": projectCount - snapshotted})
	s.record(ctx, tenantID, &Event{
		Type:         TypeSnapshotSweep,
		ProjectCount: projectCount,
		DurationMS:   took.Milliseconds(),
		Details:      string(details),
	})
}

func (s *Service) record(ctx context.Context, tenantID string, entry *Event) {
	if err := s.LogEvent(ctx, tenantID, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to record report event", "type", entry.Type, "tenant_id", tenantID, "error", err)
	}
}

// Recent lists events newest first.
func (s *Service) Recent(ctx context.Context, tenantID string, opts ListOptions) ([]Event, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	events, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}
