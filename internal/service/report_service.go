package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Report window limits.
const (
	DefaultRecentHours     = 24
	DefaultIntervalHours   = 1
	DefaultIntervalMinutes = 5
	MaxReportHours         = 24 * 90
)

// ReportService serves the admin dashboard aggregations. Every failure is
// reported as an internal error; results are never partial.
type ReportService struct {
	reports repository.ReportRepository
	logger  *zap.Logger
	now     func() time.Time
}

// RecentCount is the number of tickets created since a point in time.
type RecentCount struct {
	Count int
	Since time.Time
}

// NewReportService builds the service.
func NewReportService(reports repository.ReportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{reports: reports, logger: logger, now: time.Now}
}

// CountByStatus returns a count for every status, zero included.
func (s *ReportService) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	counts, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, s.fail("count by status", err)
	}
	result := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	for _, status := range domain.TicketStatuses {
		result[status] = counts[status]
	}
	return result, nil
}

// CountByAssignee returns ticket counts keyed by assignee email.
func (s *ReportService) CountByAssignee(ctx context.Context) (map[string]int, error) {
	counts, err := s.reports.CountByAssignee(ctx)
	if err != nil {
		return nil, s.fail("count by assignee", err)
	}
	return counts, nil
}

// CountRecent counts tickets created in the last hours.
func (s *ReportService) CountRecent(ctx context.Context, hours int) (*RecentCount, error) {
	if err := validateHours(hours); err != nil {
		return nil, err
	}
	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	count, err := s.reports.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, s.fail("count recent", err)
	}
	return &RecentCount{Count: count, Since: since}, nil
}

// CountByInterval buckets the tickets of the last hours into intervals of
// intervalMinutes. Empty buckets are omitted.
func (s *ReportService) CountByInterval(ctx context.Context, hours, intervalMinutes int) ([]domain.IntervalCount, error) {
	if err := validateHours(hours); err != nil {
		return nil, err
	}
	if intervalMinutes <= 0 || intervalMinutes > hours*60 {
		return nil, apperrors.NewValidationError("invalid report window", apperrors.FieldError{
			Field:   "interval",
			Message: fmt.Sprintf("interval must be between 1 and %d minutes", hours*60),
		})
	}
	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	buckets, err := s.reports.CountByInterval(ctx, since, time.Duration(intervalMinutes)*time.Minute)
	if err != nil {
		return nil, s.fail("count by interval", err)
	}
	return buckets, nil
}

// UsersWithTicketCounts lists every account with how many tickets it created.
func (s *ReportService) UsersWithTicketCounts(ctx context.Context) ([]domain.UserTicketCount, error) {
	users, err := s.reports.UsersWithTicketCounts(ctx)
	if err != nil {
		return nil, s.fail("users with ticket counts", err)
	}
	return users, nil
}

// SupportAgentWorkload lists support agents with their assigned tickets per status.
func (s *ReportService) SupportAgentWorkload(ctx context.Context) ([]domain.AgentWorkload, error) {
	agents, err := s.reports.SupportAgentWorkload(ctx)
	if err != nil {
		return nil, s.fail("support agent workload", err)
	}
	return agents, nil
}

func (s *ReportService) fail(report string, err error) error {
	s.logger.Error("report failed", zap.String("report", report), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func validateHours(hours int) error {
	if hours <= 0 || hours > MaxReportHours {
		return apperrors.NewValidationError("invalid report window", apperrors.FieldError{
			Field:   "hours",
			Message: fmt.Sprintf("hours must be between 1 and %d", MaxReportHours),
		})
	}
	return nil
}
