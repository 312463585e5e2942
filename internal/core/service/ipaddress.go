package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

// IPService manages IP address records.
type IPService struct {
	api API
}

// NewIPService creates an IPService.
func NewIPService(api API) *IPService {
	return &IPService{api: api}
}

// List fetches one page of records. Pages below 1 are treated as 1.
func (s *IPService) List(ctx context.Context, page int, filter domain.IPFilter) (*domain.Page[domain.IPAddress], error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	filter.Apply(params)

	var out domain.Page[domain.IPAddress]
	if err := s.api.Send(ctx, connection.Request{Endpoint: EndpointIPAddresses, Params: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single record.
func (s *IPService) Get(ctx context.Context, id domain.ID) (*domain.IPAddress, error) {
	if id.IsZero() {
		return nil, domain.ErrMissingArgument.WithDetails("id")
	}
	var raw json.RawMessage
	if err := s.api.Send(ctx, connection.Request{Endpoint: recordEndpoint(id)}, &raw); err != nil {
		return nil, notFound(id, err)
	}
	ip := decodeRecord(raw)
	if ip == nil {
		return nil, domain.ErrIPAddressNotFound.WithDetails(id.String())
	}
	return ip, nil
}

// Create validates form and creates a record. The returned record is nil
// when the backend does not echo it.
func (s *IPService) Create(ctx context.Context, form domain.IPAddressForm) (*domain.IPAddress, error) {
	if err := domain.Validate(form); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err := s.api.Send(ctx, connection.Request{
		Endpoint: EndpointIPAddresses,
		Method:   http.MethodPost,
		Body:     form,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw), nil
}

// Update validates form and replaces the record's fields.
func (s *IPService) Update(ctx context.Context, id domain.ID, form domain.IPAddressForm) (*domain.IPAddress, error) {
	if id.IsZero() {
		return nil, domain.ErrMissingArgument.WithDetails("id")
	}
	if err := domain.Validate(form); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err := s.api.Send(ctx, connection.Request{
		Endpoint: recordEndpoint(id),
		Method:   http.MethodPut,
		Body:     form,
	}, &raw)
	if err != nil {
		return nil, notFound(id, err)
	}
	return decodeRecord(raw), nil
}

// Delete removes a record.
func (s *IPService) Delete(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return domain.ErrMissingArgument.WithDetails("id")
	}
	err := s.api.Send(ctx, connection.Request{
		Endpoint: recordEndpoint(id),
		Method:   http.MethodDelete,
	}, nil)
	return notFound(id, err)
}

func recordEndpoint(id domain.ID) string {
	return EndpointIPAddresses + "/" + url.PathEscape(id.String())
}

// notFound maps a 404 onto ErrIPAddressNotFound, keeping the API error as
// the cause.
func notFound(id domain.ID, err error) error {
	if errors.Is(err, connection.ErrNotFound) {
		return domain.ErrIPAddressNotFound.WithDetails(id.String()).WithCause(err)
	}
	return err
}

// decodeRecord accepts either a bare record or one wrapped in {"data": ...}.
func decodeRecord(raw json.RawMessage) *domain.IPAddress {
	if len(raw) == 0 {
		return nil
	}
	var wrapped struct {
		Data *domain.IPAddress `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil && !wrapped.Data.ID.IsZero() {
		return wrapped.Data
	}
	var ip domain.IPAddress
	if err := json.Unmarshal(raw, &ip); err == nil && !ip.ID.IsZero() {
		return &ip
	}
	return nil
}

// CanModify reports whether user may edit ip: super-admins may edit any
// record, other users only their own.
func CanModify(user *domain.CurrentUser, ip *domain.IPAddress) bool {
	if user.IsSuperAdmin() {
		return true
	}
	if !user.IsAuthenticated() || ip == nil {
		return false
	}
	owner := ip.OwnerID()
	return !owner.IsZero() && owner == user.User.ID
}

// CanDelete reports whether user may delete records.
func CanDelete(user *domain.CurrentUser) bool {
	return user.IsSuperAdmin()
}

// CanViewAudit reports whether user may read the audit trail.
func CanViewAudit(user *domain.CurrentUser) bool {
	return user.IsSuperAdmin()
}
