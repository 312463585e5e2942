package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/ipadmin-go/internal/core/domain"
)

func TestIPList(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "list")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "IP ADDRESS")
	assert.Contains(t, res.stdout, "10.0.0.1")
	assert.Contains(t, res.stdout, "office")
	assert.Contains(t, res.stdout, "Ada")
	assert.NotContains(t, res.stdout, "COMMENT")
	assert.Contains(t, res.stdout, "Page 1 of 2 (2 total)")
	assert.NotContains(t, res.stdout, "to change page")
}

func TestIPNextPrev_NeedInteractiveMode(t *testing.T) {
	h := newHarness(t)
	for _, move := range []string{"next", "prev"} {
		res := h.run("", login("ip", move)...)
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "'ip "+move+"' only works in interactive mode")
		assert.Contains(t, res.stderr, "ip list --page N")
		assert.Empty(t, res.stdout)
	}
	assert.Empty(t, h.backend.requestLog())
}

func TestIPList_Wide(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("-w", "ip", "list", "--page", "2")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "COMMENT")
	assert.Contains(t, res.stdout, "ACCESS")
	assert.Contains(t, res.stdout, "2001:db8::1")
	assert.Contains(t, res.stdout, "edit,delete")
	assert.Contains(t, res.stdout, "Page 2 of 2 (2 total)")
}

func TestIPList_Filters(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "list", "--label", "lab")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "2001:db8::1")
	assert.Contains(t, res.stdout, "Page 1 of 1 (1 total)")

	res = h.run("", login("ip", "list", "--search", "nomatch")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No IP addresses found.")
}

func TestIPList_InvalidRange(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "list", "--ip-start", "10.0.0.256")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "ip-start: Invalid IP address format")
	assert.Empty(t, h.backend.requestLog())
}

func TestIPList_JSON(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("-o", "json", "ip", "list")...)
	require.Equal(t, 0, res.code, res.stderr)

	var page domain.Page[domain.IPAddress]
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "10.0.0.1", page.Data[0].IPAddress)
	assert.Equal(t, 2, page.LastPage)
}

func TestIPGet(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "get", "2")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "2001:db8::1")
	assert.Contains(t, res.stdout, "ipv6")
	assert.Contains(t, res.stdout, "Bob")
}

func TestIPGet_NotFound(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "get", "99")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "✗ Not found.")
	assert.NotContains(t, res.stderr, "error:")
}

func TestIPGet_MissingID(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "get")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "missing required argument")
	assert.Empty(t, h.backend.requestLog())
}

func TestIPCreate(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "create", "--ip", "192.168.1.10", "--label", "printer", "--comment", "floor 2")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "192.168.1.10")
	assert.Contains(t, res.stdout, "printer")
	assert.Contains(t, res.stderr, "✓ Created successfully!")

	form := h.backend.submitted()
	assert.Equal(t, "192.168.1.10", form.IPAddress)
	require.NotNil(t, form.Comment)
	assert.Equal(t, "floor 2", *form.Comment)
}

func TestIPCreate_ValidationBeforeRequest(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "create", "--ip", "999.1.1.1")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error: validation failed")
	assert.Contains(t, res.stderr, "ip_address: Invalid IP address format")
	assert.Contains(t, res.stderr, "label: Label is required")
	assert.Empty(t, h.backend.requestLog())
}

func TestIPUpdate(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "update", "--label", "core", "1")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "core")
	assert.Contains(t, res.stderr, "✓ Updated successfully!")

	form := h.backend.submitted()
	assert.Equal(t, "10.0.0.1", form.IPAddress)
	assert.Equal(t, "core", form.Label)
	require.NotNil(t, form.Comment)
	assert.Equal(t, "main router", *form.Comment)
}

func TestIPUpdate_ServerValidation(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "update", "--label", "taken", "1")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "✗ The label has already been taken.")
	assert.Contains(t, res.stderr, "  label: The label has already been taken.")
}

func TestIPUpdate_RegularUserOtherRecord(t *testing.T) {
	h := newHarness(t)
	h.backend.update(func(b *backend) { b.role = "user" })

	res := h.run("", login("ip", "update", "--label", "mine", "2")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "permission denied")
	assert.Contains(t, res.stderr, "hint: this action requires the super-admin role")
	assert.NotContains(t, h.backend.requestLog(), "PUT /api/internet-protocol-address/2")

	res = h.run("", login("ip", "update", "--label", "mine", "1")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, h.backend.requestLog(), "PUT /api/internet-protocol-address/1")
}

func TestIPDelete(t *testing.T) {
	h := newHarness(t)

	res := h.run("n\n", login("ip", "delete", "2")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cancelled.")
	assert.Contains(t, res.stderr, "Delete IP address record 2? [y/N]: ")
	assert.NotContains(t, h.backend.requestLog(), "DELETE /api/internet-protocol-address/2")

	res = h.run("y\n", login("ip", "delete", "2")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "✓ Deleted successfully!")
	assert.Contains(t, h.backend.requestLog(), "DELETE /api/internet-protocol-address/2")
}

func TestIPDelete_Force(t *testing.T) {
	h := newHarness(t)
	res := h.run("", login("ip", "rm", "--force", "1")...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, h.backend.requestLog(), "DELETE /api/internet-protocol-address/1")
}

func TestIPDelete_RegularUser(t *testing.T) {
	h := newHarness(t)
	h.backend.update(func(b *backend) { b.role = "user" })

	res := h.run("", login("ip", "delete", "-f", "1")...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "permission denied")
	assert.NotContains(t, h.backend.requestLog(), "DELETE /api/internet-protocol-address/1")
}

func TestIPValidate(t *testing.T) {
	h := newHarness(t)
	res := h.run("", "ip", "validate", "10.0.0.1", "::1", "300.1.1.1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "ipv4")
	assert.Contains(t, res.stdout, "ipv6")
	assert.Contains(t, res.stdout, "invalid")
	assert.Contains(t, res.stderr, "error: 1 of 3 addresses are invalid")
	assert.Empty(t, h.backend.requestLog())

	res = h.run("", "-o", "json", "ip", "validate", "192.168.0.1")
	require.Equal(t, 0, res.code, res.stderr)
	var results []validationResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	assert.Equal(t, []validationResult{{Address: "192.168.0.1", Kind: "ipv4", Valid: true}}, results)
}
