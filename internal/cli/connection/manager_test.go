package connection

import (
	"errors"
	"testing"
	"time"

	"github.com/yndnr/ipadmin-go/internal/telemetry/logger"
)

func TestNewManager(t *testing.T) {
	m := NewManager(nil, Options{})
	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.Server() != "" {
		t.Error("new manager should have no server")
	}
	if _, err := m.Client(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Client() error = %v, want ErrNotConnected", err)
	}
	if m.Session() == nil {
		t.Error("Session() should never be nil")
	}
}

func TestManager_Connect(t *testing.T) {
	session := NewSession("tok")
	m := NewManager(session, Options{Logger: logger.Nop()})

	c, err := m.Connect("localhost:8000")
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if c.Session() != session {
		t.Error("client should share the manager session")
	}
	if got := m.Server(); got != "http://localhost:8000" {
		t.Errorf("Server() = %q", got)
	}

	c2, _ := m.Connect("https://other.example.com")
	if got, _ := m.Client(); got != c2 {
		t.Error("Connect should replace the current client")
	}
	if !session.Active() {
		t.Error("reconnecting must keep the session")
	}

	if _, err := m.Connect(""); err == nil {
		t.Error("Connect(\"\") should fail")
	}
}

func TestManager_ReconfigureKeepsSessionAndJar(t *testing.T) {
	session := NewSession("tok")
	m := NewManager(session, Options{Logger: logger.Nop()})
	first, err := m.Connect("localhost:8000")
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	second, err := m.Reconfigure("localhost:9000", Options{Logger: logger.Nop(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("Reconfigure failed: %v", err)
	}
	if second.Session() != session {
		t.Error("reconfigured client should share the session")
	}
	if first.http.Jar != second.http.Jar {
		t.Error("reconfigured client should share the cookie jar")
	}
	if second.http.Timeout != time.Second {
		t.Errorf("Timeout = %v, want 1s", second.http.Timeout)
	}
	if got := m.Server(); got != "http://localhost:9000" {
		t.Errorf("Server() = %q", got)
	}
}

func TestManager_ReconfigureBlankServerDisconnects(t *testing.T) {
	m := NewManager(NewSession("tok"), Options{Logger: logger.Nop()})
	if _, err := m.Connect("localhost:8000"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	c, err := m.Reconfigure("  ", Options{Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("Reconfigure failed: %v", err)
	}
	if c != nil {
		t.Error("blank server should yield no client")
	}
	if _, err := m.Client(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Client() error = %v, want ErrNotConnected", err)
	}
	if m.Server() != "" {
		t.Errorf("Server() = %q, want empty", m.Server())
	}
	if m.Session().Token() != "tok" {
		t.Error("session should survive a disconnect")
	}
}
