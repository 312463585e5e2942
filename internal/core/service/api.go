package service

import (
	"context"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
)

// Backend endpoints.
const (
	EndpointLogin       = "/api/login"
	EndpointLogout      = "/api/logout"
	EndpointUser        = "/api/user"
	EndpointIPAddresses = "/api/internet-protocol-address"
	EndpointAudit       = "/api/audit"
	EndpointStats       = "/api/stats"
)

// API is the request surface the services need. *connection.Client
// implements it.
type API interface {
	Send(ctx context.Context, req connection.Request, out any) error
}
