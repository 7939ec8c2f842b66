package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Paging and sorting limits.
const (
	DefaultPage      = 1
	MinPage          = 1
	DefaultPageSize  = 20
	MinPageSize      = 1
	MaxPageSize      = 1000
	DefaultSortField = ""
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPageSize   = errors.New("page-size must be between 1 and 1000")
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'code:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// PaginationParams holds the --page, --page-size and --sort flags.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of results per page.
	PageSize int

	// SortField is the backend field to sort by (e.g., "code", "createdAt").
	SortField string

	// SortOrder is the sort direction: "asc" or "desc".
	SortOrder string
}

// NewPaginationParams creates PaginationParams on the first page with pageSize rows.
// A non-positive pageSize selects DefaultPageSize.
func NewPaginationParams(pageSize int) *PaginationParams {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PaginationParams{
		Page:      DefaultPage,
		PageSize:  pageSize,
		SortField: DefaultSortField,
		SortOrder: DefaultSortOrder,
	}
}

// Validate checks page bounds.
func (p PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.SortOrder != "" && p.SortOrder != SortOrderAsc && p.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// WirePage is the 0-based page sent to the backend.
func (p PaginationParams) WirePage() int {
	return max(0, p.Page-1)
}

// SetSort parses a --sort value into SortField and SortOrder.
func (p *PaginationParams) SetSort(sortStr string) error {
	field, order, err := ParseSort(sortStr)
	if err != nil {
		return err
	}
	p.SortField, p.SortOrder = field, order
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "code", "createdAt:desc", "name:asc".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}

// ValidateSortField rejects a field outside valid. An empty field or an empty
// valid list accepts anything.
func ValidateSortField(field string, valid []string) error {
	if field == "" || len(valid) == 0 {
		return nil
	}
	for _, v := range valid {
		if v == field {
			return nil
		}
	}
	return fmt.Errorf("%w %q (valid: %s)", ErrInvalidSortField, field, strings.Join(valid, ", "))
}
