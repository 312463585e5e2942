package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

// AuthService logs users in and out and resolves the current user.
type AuthService struct {
	api     API
	session *connection.Session
}

// NewAuthService creates an AuthService that stores tokens in session.
func NewAuthService(api API, session *connection.Session) *AuthService {
	return &AuthService{api: api, session: session}
}

// Login exchanges credentials for an access token and stores it in the
// session. Missing fields fail validation without a request.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := domain.Validate(creds); err != nil {
		return nil, err
	}

	var resp domain.LoginResponse
	err := s.api.Send(ctx, connection.Request{
		Endpoint: EndpointLogin,
		Method:   http.MethodPost,
		Body:     creds,
		Silent:   true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, domain.ErrNotAuthenticated.WithDetails("login response carried no access token")
	}

	s.session.Set(resp.AccessToken)
	return &resp, nil
}

// Logout tells the backend to end the session. The local token is cleared
// whether or not the request succeeds.
func (s *AuthService) Logout(ctx context.Context) error {
	defer s.session.Clear()
	return s.api.Send(ctx, connection.Request{
		Endpoint: EndpointLogout,
		Method:   http.MethodPost,
		Silent:   true,
	}, nil)
}

// CurrentUser returns the logged-in user and role.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.CurrentUser, error) {
	if !s.session.Active() {
		return nil, domain.ErrNotAuthenticated
	}
	var user domain.CurrentUser
	if err := s.api.Send(ctx, connection.Request{Endpoint: EndpointUser}, &user); err != nil {
		if errors.Is(err, connection.ErrUnauthorized) {
			return nil, domain.ErrSessionExpired.WithCause(err)
		}
		return nil, err
	}
	if !user.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return &user, nil
}

// LoggedIn reports whether a token is held.
func (s *AuthService) LoggedIn() bool {
	return s.session.Active()
}
