package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/ipadmin-go/internal/infra/buildinfo"
)

func TestSystemVersion(t *testing.T) {
	h := newHarness(t)
	res := h.run("", "system", "version")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Version")
	assert.Contains(t, res.stdout, buildinfo.Version)

	res = h.run("", "-o", "json", "sys", "version")
	require.Equal(t, 0, res.code, res.stderr)
	var info buildinfo.Info
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, buildinfo.Get(), info)
}

func TestSystemMetrics(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "list")...)
	require.Equal(t, 0, res.code, res.stderr)

	res = h.run("", "system", "metrics")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ipadmin_requests_total")
	assert.Contains(t, res.stdout, `endpoint="/api/internet-protocol-address"`)
	assert.NotContains(t, res.stdout, "go_goroutines")

	res = h.run("", "system", "metrics", "--all")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "go_goroutines")
}
