package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
)

func TestGet(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"GET /api/stores/2": `{"success":true,"data":{"id":2,"code":"S2","name":"Branch 2","phone":"0901"}}`,
	})

	out, err := execute(t, b.URL, "", "get", "warehouses", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE:")
	assert.Contains(t, out, "Branch 2")

	out, err = execute(t, b.URL, "", "get", "stores", "2", "-o", "json")
	require.NoError(t, err)
	var s inventory.Store
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "S2", s.Code)
}

func TestGet_Errors(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, nil)

	_, err := execute(t, b.URL, "", "get", "stores", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")

	_, err = execute(t, b.URL, "", "get", "stores", "77")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, err.Error(), "stores 77")
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		confirm   PromptResult
		wantErr   error
		wantCalls int
	}{
		{name: "yes flag skips prompt", args: []string{"delete", "units", "9", "--yes"}, wantCalls: 1},
		{name: "confirmed", args: []string{"delete", "units", "9"}, confirm: PromptResult{Accepted: true}, wantCalls: 1},
		{name: "declined", args: []string{"delete", "units", "9"}, wantErr: ErrAborted},
		{name: "cancelled", args: []string{"delete", "units", "9"}, confirm: PromptResult{Cancelled: true}, wantErr: ErrAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			b := newFakeBackend(t, map[string]string{"DELETE /api/units/9": ""})

			var asked string
			prev := confirmFunc
			confirmFunc = func(title, _ string) PromptResult {
				asked = title
				return tt.confirm
			}
			t.Cleanup(func() { confirmFunc = prev })

			out, err := execute(t, b.URL, "", tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Delete Units 9?", asked)
			} else {
				require.NoError(t, err)
				assert.Contains(t, out, "Deleted units 9")
			}
			assert.Len(t, b.Calls(), tt.wantCalls)
		})
	}
}

// enableAudit writes a user config that turns the audit log on and returns its path.
func enableAudit(t *testing.T, home string) string {
	t.Helper()
	auditPath := filepath.Join(home, "audit.jsonl")
	cfg := "logging:\n  level: error\n  audit:\n    enabled: true\n    file: " + auditPath + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600))
	return auditPath
}

func readAudit(t *testing.T, path string) []logging.AuditEntry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []logging.AuditEntry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var e logging.AuditEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestReceipt_RejectWithReason(t *testing.T) {
	home := setupCLI(t)
	auditPath := enableAudit(t, home)
	b := newFakeBackend(t, map[string]string{
		"POST /api/exports/17/reject": `{"success":true,"data":{"id":17,"code":"PX017","status":"REJECTED","totalValue":0}}`,
	})

	out, err := execute(t, b.URL, "", "receipt", "out", "REJECT", "17", "--reason", "wrong quantities")
	require.NoError(t, err)
	assert.Contains(t, out, "Exports 17: reject")
	assert.Contains(t, out, "REJECTED")

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"reason":"wrong quantities"}`, calls[0].body)

	entries := readAudit(t, auditPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "receipt reject", entries[0].Command)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "exports", entries[0].Parameters["resource"])
	assert.NotEmpty(t, entries[0].TraceID)
}

func TestReceipt_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown action", args: []string{"receipt", "imports", "ship", "1"}, wantErr: inventory.ErrInvalidAction},
		{name: "no workflow", args: []string{"receipt", "products", "approve", "1"}, wantErr: inventory.ErrInvalidAction},
		{name: "cancel a check", args: []string{"receipt", "checks", "cancel", "1"}, wantErr: inventory.ErrInvalidAction},
		{name: "check reject needs reason", args: []string{"receipt", "checks", "reject", "1"}, wantErr: inventory.ErrReasonRequired},
		{name: "reason without reject", args: []string{"receipt", "imports", "approve", "1", "--reason", "x"}, wantMsg: "only valid with reject"},
		{name: "bad id", args: []string{"receipt", "imports", "approve", "abc"}, wantMsg: "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			b := newFakeBackend(t, nil)

			_, err := execute(t, b.URL, "", tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Empty(t, b.Calls())
		})
	}
}

func TestReceipt_FailureIsAudited(t *testing.T) {
	home := setupCLI(t)
	auditPath := enableAudit(t, home)
	b := newFakeBackend(t, map[string]string{
		"POST /api/imports/5/approve": `{"success":false,"message":"already approved"}`,
	})

	_, err := execute(t, b.URL, "", "receipt", "imports", "approve", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already approved")

	entries := readAudit(t, auditPath)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].Error, "already approved")
}

func TestStock(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"GET /api/stocks/product/12": `[{"productId":12,"storeId":1,"storeName":"Main","quantity":3,"minStock":5},
			{"productId":12,"storeId":2,"storeName":"Branch","quantity":40,"minStock":5,"maxStock":100}]`,
		"GET /api/stocks/product/12/store/2": `{"productId":12,"storeId":2,"quantity":40}`,
		"GET /api/stocks/paged":              `{"content":[{"productId":1,"storeId":1,"quantity":7}],"totalElements":31,"totalPages":4,"number":1,"size":10}`,
	})

	out, err := execute(t, b.URL, "", "stock", "--product", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "LOW")
	assert.Contains(t, out, "2 row(s) total, 43 unit(s) shown")

	out, err = execute(t, b.URL, "", "stock", "--product", "12", "--store", "2", "-o", "json")
	require.NoError(t, err)
	var rows []inventory.Stock
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(40), rows[0].Quantity)

	_, err = execute(t, b.URL, "", "stock", "--page", "2", "--page-size", "10")
	require.NoError(t, err)
	calls := b.Calls()
	assert.Equal(t, "page=1&size=10", calls[len(calls)-1].query)
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, nil)

	_, err := execute(t, b.URL, "", "browse", "products")
	require.ErrorIs(t, err, ErrNotATerminal)
	assert.Contains(t, err.Error(), "stockdesk list products")

	_, err = execute(t, b.URL, "", "browse", "nope")
	require.ErrorIs(t, err, inventory.ErrUnknownResource)
}
