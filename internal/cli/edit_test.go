package cli

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

func TestCreate(t *testing.T) {
	home := setupCLI(t)
	auditPath := enableAudit(t, home)
	b := newFakeBackend(t, map[string]string{
		"POST /api/units": `{"success":true,"data":{"id":31,"name":"Box","description":"Carton of 24"}}`,
	})

	out, err := execute(t, b.URL, `{"name":"Box","description":"Carton of 24"}`, "create", "units", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Created units 31")
	assert.Contains(t, out, "Carton of 24")

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.JSONEq(t, `{"name":"Box","description":"Carton of 24"}`, calls[0].body)

	entries := readAudit(t, auditPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Command)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "units", entries[0].Parameters["resource"])
}

func TestUpdate_FromFile(t *testing.T) {
	home := setupCLI(t)
	auditPath := enableAudit(t, home)
	b := newFakeBackend(t, map[string]string{
		"PUT /api/stores/2": `{"success":true,"data":{"id":2,"code":"S2","name":"Branch 2"}}`,
	})
	payload := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"id":2,"code":"S2","name":"Branch 2"}`), 0o600))

	out, err := execute(t, b.URL, "", "update", "warehouses", "2", "-f", payload, "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "Updated", "machine output carries only the record")
	var s inventory.Store
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "Branch 2", s.Name)

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/api/stores/2", calls[0].path)

	entries := readAudit(t, auditPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "update", entries[0].Command)
	assert.Equal(t, "2", entries[0].Parameters["id"])
}

func TestCreateUpdate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr error
		wantMsg string
	}{
		{name: "missing file flag", args: []string{"create", "units"}, wantMsg: "required flag"},
		{name: "unknown field", args: []string{"create", "units", "-f", "-"}, stdin: `{"name":"Box","colour":"red"}`, wantErr: inventory.ErrInvalidPayload},
		{name: "empty stdin", args: []string{"create", "units", "-f", "-"}, wantErr: inventory.ErrInvalidPayload},
		{name: "missing file", args: []string{"create", "units", "-f", "/nonexistent/unit.json"}, wantMsg: "reading payload"},
		{name: "unknown resource", args: []string{"create", "widgets", "-f", "-"}, stdin: `{}`, wantErr: inventory.ErrUnknownResource},
		{name: "bad id", args: []string{"update", "units", "x", "-f", "-"}, stdin: `{}`, wantMsg: "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			b := newFakeBackend(t, nil)

			_, err := execute(t, b.URL, tt.stdin, tt.args...)
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

func TestUpdate_BackendRejectionIsAudited(t *testing.T) {
	home := setupCLI(t)
	auditPath := enableAudit(t, home)
	b := newFakeBackend(t, map[string]string{
		"PUT /api/units/4": `{"success":false,"message":"name already used"}`,
	})
	b.status["PUT /api/units/4"] = http.StatusBadRequest

	_, err := execute(t, b.URL, `{"name":"Box"}`, "update", "units", "4", "-f", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name already used")

	entries := readAudit(t, auditPath)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.NotEmpty(t, entries[0].Error)
}
