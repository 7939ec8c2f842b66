package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr error
	}{
		{name: "valid default", params: *NewPaginationParams(0)},
		{name: "valid page", params: PaginationParams{Page: 3, PageSize: 50, SortOrder: "desc"}},
		{name: "zero page", params: PaginationParams{Page: 0, PageSize: 10}, wantErr: ErrInvalidPage},
		{name: "zero page-size", params: PaginationParams{Page: 1, PageSize: 0}, wantErr: ErrInvalidPageSize},
		{name: "page-size too large", params: PaginationParams{Page: 1, PageSize: 1001}, wantErr: ErrInvalidPageSize},
		{name: "bad order", params: PaginationParams{Page: 1, PageSize: 10, SortOrder: "up"}, wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPaginationParams_WirePage(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1}.WirePage())
	assert.Equal(t, 4, PaginationParams{Page: 5}.WirePage())
	assert.Equal(t, 0, PaginationParams{Page: 0}.WirePage())
}

func TestNewPaginationParams_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewPaginationParams(-3).PageSize)
	assert.Equal(t, 50, NewPaginationParams(50).PageSize)
	assert.Equal(t, 1, NewPaginationParams(50).Page)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		sortStr   string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{name: "empty", sortStr: "", wantField: "", wantOrder: "asc"},
		{name: "field only", sortStr: "code", wantField: "code", wantOrder: "asc"},
		{name: "field with desc", sortStr: "createdAt:desc", wantField: "createdAt", wantOrder: "desc"},
		{name: "uppercase order", sortStr: "name:DESC", wantField: "name", wantOrder: "desc"},
		{name: "spaces", sortStr: " name : asc ", wantField: "name", wantOrder: "asc"},
		{name: "bad order", sortStr: "name:sideways", wantErr: ErrInvalidSortOrder},
		{name: "empty field", sortStr: ":desc", wantErr: ErrEmptySortField},
		{name: "too many parts", sortStr: "a:b:c", wantErr: ErrInvalidSortFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, order, err := ParseSort(tt.sortStr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestPaginationParams_SetSort(t *testing.T) {
	p := NewPaginationParams(10)
	require.NoError(t, p.SetSort("price:desc"))
	assert.Equal(t, "price", p.SortField)
	assert.Equal(t, "desc", p.SortOrder)

	require.Error(t, p.SetSort("price:nope"))
	assert.Equal(t, "price", p.SortField, "failed parse leaves params unchanged")
}

func TestValidateSortField(t *testing.T) {
	valid := []string{"code", "name"}
	assert.NoError(t, ValidateSortField("code", valid))
	assert.NoError(t, ValidateSortField("", valid))
	assert.NoError(t, ValidateSortField("anything", nil))

	err := ValidateSortField("price", valid)
	require.ErrorIs(t, err, ErrInvalidSortField)
	assert.Contains(t, err.Error(), "code, name")
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name      string
		wirePage  int
		size      int
		pages     int
		total     int64
		want      PaginationMeta
		wantFirst int64
		wantLast  int64
	}{
		{
			name: "first of three", wirePage: 0, size: 20, pages: 3, total: 45,
			want:      PaginationMeta{CurrentPage: 1, PageSize: 20, TotalPages: 3, TotalItems: 45, HasNext: true},
			wantFirst: 1, wantLast: 20,
		},
		{
			name: "last short page", wirePage: 2, size: 20, pages: 3, total: 45,
			want:      PaginationMeta{CurrentPage: 3, PageSize: 20, TotalPages: 3, TotalItems: 45, HasPrevious: true},
			wantFirst: 41, wantLast: 45,
		},
		{
			name: "empty", wirePage: 0, size: 20, pages: 0, total: 0,
			want: PaginationMeta{CurrentPage: 1, PageSize: 20},
		},
		{
			name: "past the end", wirePage: 9, size: 10, pages: 2, total: 15,
			want: PaginationMeta{CurrentPage: 10, PageSize: 10, TotalPages: 2, TotalItems: 15, HasPrevious: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPaginationMeta(tt.wirePage, tt.size, tt.pages, tt.total)
			assert.Equal(t, tt.want, got)
			first, last := got.Range()
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
