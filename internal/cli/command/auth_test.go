package command

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLogin(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("auth", "login")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Logged in as "+testEmail+"\n", res.stdout)
	assert.Contains(t, res.stderr, "kept in memory only")
	assert.Equal(t, []string{"POST /api/login"}, h.backend.requestLog())
}

func TestAuthLogin_PrintToken(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("auth", "login", "--print-token")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "token-1\n", res.stdout)
}

func TestAuthLogin_Prompts(t *testing.T) {
	h := newHarness(t)
	res := h.run(testEmail+"\n"+testPassword+"\n", "auth", "login")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Email: ")
	assert.Contains(t, res.stderr, "Password: ")
	assert.Contains(t, res.stdout, "Logged in as "+testEmail)
}

func TestAuthLogin_ConfiguredEmail(t *testing.T) {
	h := newHarness(t)
	h.writeConfig("server: " + h.backend.URL + "\nemail: " + testEmail + "\n")
	res := h.run(testPassword+"\n", "auth", "login")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stderr, "Email: ")
	assert.Contains(t, res.stdout, "Logged in as "+testEmail)
}

func TestAuthLogin_BadPassword(t *testing.T) {
	h := newHarness(t)
	res := h.run("", "--email", testEmail, "--password", "wrong", "auth", "login")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "✗ Invalid credentials")
	assert.NotContains(t, res.stderr, "error:")
	assert.Contains(t, res.stderr, "hint: run 'ipadmin-cli auth login'")
	// A 401 still gets exactly one refresh attempt, which has no cookie.
	assert.Equal(t, []string{"POST /api/login", "GET /api/auth/refresh-token"}, h.backend.requestLog())
}

func TestAuthLogin_EmptyPassword(t *testing.T) {
	h := newHarness(t)
	res := h.run("\n", "--email", testEmail, "auth", "login")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "password: Password is required")
	assert.Empty(t, h.backend.requestLog())
}

func TestAuthLogout_NotLoggedIn(t *testing.T) {
	h := newHarness(t)
	res := h.run("", "auth", "logout")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Not logged in.\n", res.stdout)
}

func TestAuthWhoami(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("auth", "whoami")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Ada")
	assert.Contains(t, res.stdout, "Super Admin")

	h.backend.update(func(b *backend) { b.role = "user" })
	res = h.run("", login("-o", "json", "auth", "whoami")...)
	require.Equal(t, 0, res.code, res.stderr)
	var view whoamiView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, "Ada", view.Name)
	assert.Equal(t, "user", view.Role)
}

func TestAuthStatus_LoggedOut(t *testing.T) {
	h := newHarness(t)
	res := h.run("", "-o", "json", "auth", "status")
	require.Equal(t, 0, res.code, res.stderr)

	var view statusView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.False(t, view.LoggedIn)
	assert.Equal(t, h.backend.URL, view.Server)
	assert.Empty(t, h.backend.requestLog())
}

func TestAuthStatus_Token(t *testing.T) {
	h := newHarness(t)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	res := h.run("", "--token", token, "-o", "json", "auth", "status")
	require.Equal(t, 0, res.code, res.stderr)

	var view statusView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.True(t, view.LoggedIn)
	assert.NotEqual(t, token, view.Token)
	assert.Equal(t, token[:3]+"..."+token[len(token)-3:], view.Token)
	require.NotNil(t, view.ExpiresAt)
	assert.True(t, exp.Equal(*view.ExpiresAt))
	assert.False(t, view.Expired)

	res = h.run("", "--token", "opaque-token-value", "auth", "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "opa...lue")
	assert.Contains(t, res.stdout, "unknown")
	assert.NotContains(t, res.stdout, "opaque-token-value")
}
