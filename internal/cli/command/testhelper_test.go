package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/ipadmin-go/internal/cli/connection"
	"github.com/yndnr/ipadmin-go/internal/core/domain"
	"github.com/yndnr/ipadmin-go/internal/telemetry/metric"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "secret"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// backend is an in-memory ipadmin API. It accepts only the latest issued
// token; expire() invalidates it so the next call exercises refresh.
type backend struct {
	*httptest.Server

	mu        sync.Mutex
	role      string
	token     string
	issued    int
	refresh   bool
	ips       []domain.IPAddress
	nextID    int
	audit     []domain.AuditLog
	stats     domain.Stats
	requests  []string
	lastForm  domain.IPAddressForm
	failAudit bool
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	owner := &domain.UserDetails{ID: "1", Name: "Ada", Email: testEmail}
	other := &domain.UserDetails{ID: "2", Name: "Bob", Email: "bob@example.com"}
	b := &backend{
		role:    domain.RoleSuperAdmin,
		refresh: true,
		nextID:  3,
		ips: []domain.IPAddress{
			{ID: "1", IPAddress: "10.0.0.1", Label: "office", Comment: "main router", UserID: "1", User: owner, CreatedAt: testTime, UpdatedAt: testTime},
			{ID: "2", IPAddress: "2001:db8::1", Label: "lab", UserID: "2", User: other, CreatedAt: testTime, UpdatedAt: testTime},
		},
		audit: []domain.AuditLog{
			{ID: "10", Event: "created", User: owner, IPAddress: "192.0.2.7", URL: "/api/internet-protocol-address", NewValues: domain.Values{"label": "office"}, CreatedAt: testTime},
			{ID: "11", Event: "login", User: owner, IPAddress: "192.0.2.7", URL: "/api/login", CreatedAt: testTime},
			{ID: "12", Event: "updated", User: other, IPAddress: "192.0.2.8", URL: "/api/internet-protocol-address/2", OldValues: domain.Values{"label": "old"}, NewValues: domain.Values{"label": "lab"}, CreatedAt: testTime},
			{ID: "13", Event: "deleted", IPAddress: "192.0.2.9", URL: "/api/internet-protocol-address/5", CreatedAt: testTime},
		},
		stats: domain.Stats{TotalIPAddresses: 2, AddedThisMonth: 1, ActiveUsers: 2},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// update changes backend state under its lock.
func (b *backend) update(fn func(b *backend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *backend) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
}

func (b *backend) requestLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *backend) submitted() domain.IPAddressForm {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastForm
}

func (b *backend) issue() string {
	b.issued++
	b.token = "token-" + strconv.Itoa(b.issued)
	return b.token
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)

	switch r.URL.Path {
	case "/api/login":
		var creds domain.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r", Path: "/"})
		writeJSON(w, http.StatusOK, domain.LoginResponse{AccessToken: b.issue()})
		return
	case connection.RefreshEndpoint:
		if _, err := r.Cookie("refresh_token"); err != nil || !b.refresh {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		writeJSON(w, http.StatusOK, domain.LoginResponse{AccessToken: b.issue()})
		return
	}

	if b.token == "" || r.Header.Get("Authorization") != "Bearer "+b.token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}

	path := r.URL.Path
	switch {
	case path == "/api/logout":
		b.token = ""
		writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
	case path == "/api/user":
		writeJSON(w, http.StatusOK, domain.CurrentUser{
			User: &domain.UserDetails{ID: "1", Name: "Ada", Email: testEmail},
			Role: b.role,
		})
	case path == "/api/stats":
		writeJSON(w, http.StatusOK, b.stats)
	case path == "/api/audit":
		if b.failAudit {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Server Error"})
			return
		}
		if b.role != domain.RoleSuperAdmin {
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "This action is unauthorized."})
			return
		}
		writeJSON(w, http.StatusOK, domain.Page[domain.AuditLog]{Data: b.audit, CurrentPage: 1, LastPage: 1, Total: len(b.audit)})
	case path == "/api/internet-protocol-address":
		b.serveCollection(w, r)
	case strings.HasPrefix(path, "/api/internet-protocol-address/"):
		b.serveRecord(w, r, strings.TrimPrefix(path, "/api/internet-protocol-address/"))
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		label := r.URL.Query().Get("label")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		var data []domain.IPAddress
		for _, ip := range b.ips {
			if label == "" || ip.Label == label {
				data = append(data, ip)
			}
		}
		// One record per page so paging is observable.
		out := domain.Page[domain.IPAddress]{CurrentPage: page, LastPage: len(data), Total: len(data), PerPage: 1}
		if out.LastPage < 1 {
			out.LastPage = 1
		}
		if page <= len(data) {
			out.Data = data[page-1 : page]
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var form domain.IPAddressForm
		_ = json.NewDecoder(r.Body).Decode(&form)
		b.lastForm = form
		ip := domain.IPAddress{
			ID:        domain.ID(strconv.Itoa(b.nextID)),
			IPAddress: form.IPAddress,
			Label:     form.Label,
			UserID:    "1",
			CreatedAt: testTime,
			UpdatedAt: testTime,
		}
		if form.Comment != nil {
			ip.Comment = *form.Comment
		}
		b.nextID++
		b.ips = append(b.ips, ip)
		writeJSON(w, http.StatusCreated, map[string]any{"data": ip})
	}
}

func (b *backend) serveRecord(w http.ResponseWriter, r *http.Request, id string) {
	idx := -1
	for i, ip := range b.ips {
		if ip.ID.String() == id {
			idx = i
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found."})
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, b.ips[idx])
	case http.MethodPut:
		var form domain.IPAddressForm
		_ = json.NewDecoder(r.Body).Decode(&form)
		b.lastForm = form
		if form.Label == "taken" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "The label has already been taken.",
				"errors":  map[string][]string{"label": {"The label has already been taken."}},
			})
			return
		}
		b.ips[idx].IPAddress = form.IPAddress
		b.ips[idx].Label = form.Label
		b.ips[idx].Comment = ""
		if form.Comment != nil {
			b.ips[idx].Comment = *form.Comment
		}
		writeJSON(w, http.StatusOK, b.ips[idx])
	case http.MethodDelete:
		b.ips = append(b.ips[:idx], b.ips[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// harness runs the CLI against a backend with an isolated config file.
type harness struct {
	t          *testing.T
	backend    *backend
	configPath string
	metrics    *metric.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		t:          t,
		backend:    newBackend(t),
		configPath: filepath.Join(dir, "cli.yaml"),
		metrics:    metric.NewRegistry(),
	}
	h.writeConfig("server: " + h.backend.URL + "\nhistory_file: " + filepath.Join(dir, "history") + "\n")
	return h
}

func (h *harness) writeConfig(content string) {
	h.t.Helper()
	require.NoError(h.t, os.WriteFile(h.configPath, []byte(content), 0600), "write config")
}

type result struct {
	code   int
	stdout string
	stderr string
}

// run executes one command line with input as stdin.
func (h *harness) run(input string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	code := Main(context.Background(), Options{
		In:         strings.NewReader(input),
		Out:        &out,
		Err:        &errOut,
		ConfigPath: h.configPath,
		Metrics:    h.metrics,
	}, append([]string{AppName}, args...))
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// login returns the global flags for automatic login.
func login(args ...string) []string {
	return append([]string{"--email", testEmail, "--password", testPassword}, args...)
}
