package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

// AuditService reads the audit trail.
type AuditService struct {
	api API
}

// NewAuditService creates an AuditService.
func NewAuditService(api API) *AuditService {
	return &AuditService{api: api}
}

// List fetches one page of audit entries.
func (s *AuditService) List(ctx context.Context, page int) (*domain.Page[domain.AuditLog], error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var out domain.Page[domain.AuditLog]
	if err := s.api.Send(ctx, connection.Request{Endpoint: EndpointAudit, Params: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FilterAudit returns the entries matching search and action, in order.
// search is case-insensitive and looks at the user name, event, client IP,
// user agent and the JSON of the old and new values. action is "all", ""
// or one event name.
func FilterAudit(logs []domain.AuditLog, search, action string) []domain.AuditLog {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.AuditLog, 0, len(logs))
	for _, log := range logs {
		if action != "" && action != domain.AuditActionAll && log.Event != action {
			continue
		}
		if term != "" && !auditMatches(log, term) {
			continue
		}
		out = append(out, log)
	}
	return out
}

func auditMatches(log domain.AuditLog, term string) bool {
	fields := []string{log.Event, log.IPAddress, log.UserAgent}
	if log.User != nil {
		fields = append(fields, log.User.Name)
	}
	fields = append(fields, valuesJSON(log.NewValues), valuesJSON(log.OldValues))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func valuesJSON(v domain.Values) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
