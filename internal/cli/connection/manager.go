package connection

import (
	"errors"
	"strings"
	"sync"
)

// ErrNotConnected is returned when no server has been configured.
var ErrNotConnected = errors.New("not connected: set a server with --server or IPADMIN_SERVER")

// Manager owns the session and the client bound to the current server.
// The session survives reconnects so a REPL can switch servers without
// dropping the login.
type Manager struct {
	mu      sync.RWMutex
	session *Session
	opts    Options
	client  *Client
}

// NewManager creates a manager. A nil session starts logged out.
func NewManager(session *Session, opts Options) *Manager {
	if session == nil {
		session = NewSession("")
	}
	if opts.Jar == nil {
		// cookiejar.New only fails on a bad option set; a nil jar makes
		// each client build its own.
		opts.Jar, _ = newJar()
	}
	return &Manager{session: session, opts: opts}
}

// Connect binds a new client to server, replacing any previous one.
func (m *Manager) Connect(server string) (*Client, error) {
	m.mu.RLock()
	opts := m.opts
	m.mu.RUnlock()

	c, err := NewClient(server, m.session, opts)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.client = c
	m.mu.Unlock()
	return c, nil
}

// Reconfigure replaces the client options and rebinds to server. The
// session and the cookie jar are kept. A blank server disconnects and
// returns a nil client.
func (m *Manager) Reconfigure(server string, opts Options) (*Client, error) {
	m.mu.Lock()
	if opts.Jar == nil {
		opts.Jar = m.opts.Jar
	}
	m.opts = opts
	m.mu.Unlock()
	if strings.TrimSpace(server) == "" {
		m.Disconnect()
		return nil, nil
	}
	return m.Connect(server)
}

// Disconnect drops the current client. Client reports ErrNotConnected
// until the next Connect.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.client = nil
	m.mu.Unlock()
}

// Client returns the current client or ErrNotConnected.
func (m *Manager) Client() (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, ErrNotConnected
	}
	return m.client, nil
}

// Session returns the shared credential holder.
func (m *Manager) Session() *Session {
	return m.session
}

// Server returns the base URL of the current client, or "".
func (m *Manager) Server() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return ""
	}
	return m.client.BaseURL()
}
