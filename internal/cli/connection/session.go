package connection

import "sync/atomic"

// Session holds the bearer credential for one client. It lives in process
// memory only and is shared by reference between the client and the
// services that log in and out.
type Session struct {
	token atomic.Pointer[string]
}

// NewSession returns a session, optionally seeded with a token.
func NewSession(token string) *Session {
	s := &Session{}
	if token != "" {
		s.Set(token)
	}
	return s
}

// Token returns the current token, or "" when none is set.
func (s *Session) Token() string {
	if p := s.token.Load(); p != nil {
		return *p
	}
	return ""
}

// Set replaces the token. Concurrent writers race; the last one wins.
func (s *Session) Set(token string) {
	if token == "" {
		s.Clear()
		return
	}
	s.token.Store(&token)
}

// Clear drops the token.
func (s *Session) Clear() {
	s.token.Store(nil)
}

// Active reports whether a token is held.
func (s *Session) Active() bool {
	return s.Token() != ""
}
