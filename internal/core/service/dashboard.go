package service

import (
	"context"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

// RecentActivityLimit is the number of audit entries shown on the dashboard.
const RecentActivityLimit = 3

// DashboardService gathers the dashboard summary.
type DashboardService struct {
	api   API
	audit *AuditService
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(api API) *DashboardService {
	return &DashboardService{api: api, audit: NewAuditService(api)}
}

// Stats fetches the aggregate counters.
func (s *DashboardService) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := s.api.Send(ctx, connection.Request{Endpoint: EndpointStats}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentActivity returns the newest audit entries. Users who may not read
// the audit trail get nil without a request.
func (s *DashboardService) RecentActivity(ctx context.Context, user *domain.CurrentUser) ([]domain.AuditLog, error) {
	if !CanViewAudit(user) {
		return nil, nil
	}
	page, err := s.audit.List(ctx, 1)
	if err != nil {
		return nil, domain.ErrAuditUnavailable.WithCause(err)
	}
	logs := page.Data
	if len(logs) > RecentActivityLimit {
		logs = logs[:RecentActivityLimit]
	}
	return logs, nil
}
