package inventory

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidParams is returned when SearchParams cannot be encoded.
var ErrInvalidParams = errors.New("invalid search parameters")

// DateLayout is the backend's date filter format.
const DateLayout = "2006-01-02"

// FilterDialect maps the generic filters onto the query parameter names one
// family of endpoints expects. An empty name means the filter is not supported.
type FilterDialect struct {
	Code     string
	Name     string
	Phone    string
	Type     string
	Status   string
	From     string
	To       string
	SortPair bool // sortField + sortDir instead of a single sort=field,dir
}

// Filter dialects observed on the backend.
//
//nolint:gochecknoglobals // Static lookup tables.
var (
	CatalogueFilters = FilterDialect{
		Code: "code", Name: "name", Phone: "phone", Type: "type",
		From: "fromDate", To: "toDate",
	}
	ReceiptFilters = FilterDialect{
		Code: "code", Status: "status", From: "from", To: "to", SortPair: true,
	}
	CheckFilters = FilterDialect{
		Code: "checkCode", Status: "status", From: "fromDate", To: "toDate",
	}
)

// SearchParams are the filters, sort and page of a search call.
// Page is 0-based, as on the wire.
type SearchParams struct {
	Code      string
	Name      string
	Phone     string
	Type      string
	Status    string
	From      string
	To        string
	SortField string
	SortDir   string
	Page      int
	Size      int
}

// Validate checks page bounds, sort direction and date formats.
func (p SearchParams) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: page must not be negative, got %d", ErrInvalidParams, p.Page)
	}
	if p.Size < 0 {
		return fmt.Errorf("%w: size must not be negative, got %d", ErrInvalidParams, p.Size)
	}
	switch strings.ToLower(p.SortDir) {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: sort direction must be asc or desc, got %q", ErrInvalidParams, p.SortDir)
	}
	for _, d := range []string{p.From, p.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidParams, d)
		}
	}
	if p.From != "" && p.To != "" && p.From > p.To {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidParams, p.From, p.To)
	}
	return nil
}

// Values encodes p for the given dialect. Unsupported filters are dropped,
// and status ALL is omitted because the backend treats absence as "any".
func (p SearchParams) Values(d FilterDialect) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if key != "" && value != "" {
			v.Set(key, value)
		}
	}
	set(d.Code, p.Code)
	set(d.Name, p.Name)
	set(d.Phone, p.Phone)
	set(d.Type, p.Type)
	if !strings.EqualFold(p.Status, StatusAll) {
		set(d.Status, strings.ToUpper(p.Status))
	}
	set(d.From, p.From)
	set(d.To, p.To)

	if p.SortField != "" {
		dir := strings.ToLower(p.SortDir)
		if d.SortPair {
			v.Set("sortField", p.SortField)
			if dir != "" {
				v.Set("sortDir", dir)
			}
		} else {
			sortValue := p.SortField
			if dir != "" {
				sortValue += "," + dir
			}
			v.Set("sort", sortValue)
		}
	}

	v.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	return v
}
