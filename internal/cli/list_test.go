package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/cli/pagination"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

const productsPage = `{"content":[
	{"id":1,"code":"P001","name":"Ballpoint pen","unitPrice":3500,"categoryName":"Stationery","status":"ACTIVE","stockQuantity":120},
	{"id":2,"code":"P002","name":"A4 paper","unitPrice":"65000.50","status":"ACTIVE"}
],"totalElements":2,"totalPages":1,"number":0,"size":20}`

func TestList_Table(t *testing.T) {
	setupCLI(t)
	t.Setenv("STOCKDESK_TOKEN", "tok")
	b := newFakeBackend(t, map[string]string{"GET /api/products/search": productsPage})

	out, err := execute(t, b.URL, "", "list", "products")
	require.NoError(t, err)

	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "P001")
	assert.Contains(t, out, "Ballpoint pen")
	assert.Contains(t, out, "Showing 1-2 of 2 • Page 1/1")

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "page=0&size=20", calls[0].query)
	assert.Equal(t, "Bearer tok", calls[0].auth)
}

func TestList_FlagsReachTheWire(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{
		"GET /api/products/search": `{"content":[],"totalElements":41,"totalPages":9,"number":2,"size":5}`,
		"GET /api/imports/search":  `{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":10}`,
	})

	out, err := execute(t, b.URL, "", "list", "p",
		"--page", "3", "--page-size", "5", "--sort", "createdAt:DESC", "--search", "pen", "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Resource   string                    `json:"resource"`
		Items      []json.RawMessage         `json:"items"`
		Pagination pagination.PaginationMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, inventory.ResourceProducts, doc.Resource)
	assert.NotNil(t, doc.Items)
	assert.Equal(t, 3, doc.Pagination.CurrentPage)
	assert.True(t, doc.Pagination.HasNext)
	assert.True(t, doc.Pagination.HasPrevious)

	_, err = execute(t, b.URL, "", "list", "imports",
		"--search", "PN", "--status", "pending", "--from", "2025-01-01", "--sort", "code", "--page-size", "10")
	require.NoError(t, err)

	calls := b.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "name=pen&page=2&size=5&sort=createdAt%2Cdesc", calls[0].query)
	assert.Equal(t, "code=PN&from=2025-01-01&page=0&size=10&sortDir=asc&sortField=code&status=PENDING", calls[1].query)
}

func TestList_NDJSON(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{"GET /api/products/search": productsPage})

	out, err := execute(t, b.URL, "", "list", "products", "--output", "ndjson")
	require.NoError(t, err)

	lines := splitLines(out)
	require.Len(t, lines, 2)
	var p inventory.Product
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &p))
	assert.Equal(t, "P002", p.Code)
}

func TestList_InvalidInputNeverHitsTheBackend(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown resource", args: []string{"list", "widgets"}, wantErr: inventory.ErrUnknownResource},
		{name: "page zero", args: []string{"list", "products", "--page", "0"}, wantErr: pagination.ErrInvalidPage},
		{name: "page size too large", args: []string{"list", "products", "--page-size", "5000"}, wantErr: pagination.ErrInvalidPageSize},
		{name: "bad sort order", args: []string{"list", "products", "--sort", "name:up"}, wantErr: pagination.ErrInvalidSortOrder},
		{name: "bad date", args: []string{"list", "imports", "--from", "01/02/2025"}, wantErr: inventory.ErrInvalidParams},
		{name: "reversed range", args: []string{"list", "imports", "--from", "2025-02-01", "--to", "2025-01-01"}, wantErr: inventory.ErrInvalidParams},
		{name: "bad output", args: []string{"list", "products", "-o", "xml"}, wantMsg: "unsupported output format"},
		{name: "missing resource", args: []string{"list"}, wantMsg: "accepts 1 arg"},
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

func TestList_UnauthorizedHintsAtLogin(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{"GET /api/products/search": `{"message":"token expired"}`})
	b.status["GET /api/products/search"] = 401

	_, err := execute(t, b.URL, "", "list", "products")
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Contains(t, err.Error(), "stockdesk login")
}

func TestList_PageSizeFromConfig(t *testing.T) {
	setupCLI(t)
	b := newFakeBackend(t, map[string]string{"GET /api/units/search": `{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":50}`})

	_, err := execute(t, b.URL, "", "config", "set", "output.page_size", "50")
	require.NoError(t, err)

	out, err := execute(t, b.URL, "", "list", "units")
	require.NoError(t, err)
	assert.Contains(t, out, "No units found.")

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "page=0&size=50", calls[0].query)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
