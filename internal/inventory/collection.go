package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// ErrInvalidPayload is returned when a JSON body does not decode into the
// resource's payload type.
var ErrInvalidPayload = errors.New("invalid payload")

// Collection is the CRUD surface of one resource, T being the record and P its payload.
type Collection[T Record, P any] struct {
	client   *api.Client
	resource Resource
}

// NewCollection binds a resource to a client.
func NewCollection[T Record, P any](client *api.Client, resource Resource) *Collection[T, P] {
	return &Collection[T, P]{client: client, resource: resource}
}

// Resource returns the bound resource.
func (c *Collection[T, P]) Resource() Resource {
	return c.resource
}

// Search returns one page of records matching p.
func (c *Collection[T, P]) Search(ctx context.Context, p SearchParams) (api.Page[T], error) {
	log := logging.FromContext(ctx)

	var page api.Page[T]
	if err := p.Validate(); err != nil {
		return page, err
	}
	log.Debug().
		Ctx(ctx).
		Str("component", "inventory").
		Str("operation", "search").
		Str("resource", c.resource.Name).
		Int("page", p.Page).
		Int("size", p.Size).
		Msg("searching")

	if err := c.client.Get(ctx, c.resource.Path+"/search", p.Values(c.resource.Filters), &page); err != nil {
		return page, fmt.Errorf("searching %s: %w", c.resource.Name, err)
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}

// Get fetches one record by id.
func (c *Collection[T, P]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := c.client.Get(ctx, c.itemPath(id), nil, &out); err != nil {
		return out, fmt.Errorf("getting %s %d: %w", c.resource.Name, id, err)
	}
	return out, nil
}

// Create posts a new record and returns what the backend stored.
func (c *Collection[T, P]) Create(ctx context.Context, payload P) (T, error) {
	var out T
	if err := c.client.Post(ctx, c.resource.Path, payload, &out); err != nil {
		return out, fmt.Errorf("creating %s: %w", c.resource.Name, err)
	}
	return out, nil
}

// Update replaces the record with id.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, payload P) (T, error) {
	var out T
	if err := c.client.Put(ctx, c.itemPath(id), payload, &out); err != nil {
		return out, fmt.Errorf("updating %s %d: %w", c.resource.Name, id, err)
	}
	return out, nil
}

// Delete removes the record with id.
func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	if err := c.client.Delete(ctx, c.itemPath(id)); err != nil {
		return fmt.Errorf("deleting %s %d: %w", c.resource.Name, id, err)
	}
	return nil
}

// SearchRecords is Search with the rows widened to Record.
func (c *Collection[T, P]) SearchRecords(ctx context.Context, p SearchParams) (api.Page[Record], error) {
	page, err := c.Search(ctx, p)
	if err != nil {
		return api.Page[Record]{}, err
	}
	rows := make([]Record, len(page.Content))
	for i, r := range page.Content {
		rows[i] = r
	}
	return api.Page[Record]{
		Content:       rows,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Number:        page.Number,
		Size:          page.Size,
	}, nil
}

// GetRecord is Get with the result widened to Record.
func (c *Collection[T, P]) GetRecord(ctx context.Context, id int64) (Record, error) {
	r, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateJSON decodes raw into the payload type and creates the record.
// Unknown fields are rejected so that a typo never silently drops a value.
func (c *Collection[T, P]) CreateJSON(ctx context.Context, raw []byte) (Record, error) {
	payload, err := c.decodePayload(raw)
	if err != nil {
		return nil, err
	}
	r, err := c.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateJSON decodes raw into the payload type and replaces the record with id.
func (c *Collection[T, P]) UpdateJSON(ctx context.Context, id int64, raw []byte) (Record, error) {
	payload, err := c.decodePayload(raw)
	if err != nil {
		return nil, err
	}
	r, err := c.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Collection[T, P]) decodePayload(raw []byte) (P, error) {
	var payload P
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, fmt.Errorf("%w: empty %s body", ErrInvalidPayload, c.resource.Name)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, c.resource.Name, err)
	}
	if dec.More() {
		return payload, fmt.Errorf("%w: %s: trailing data after the JSON object", ErrInvalidPayload, c.resource.Name)
	}
	return payload, nil
}

func (c *Collection[T, P]) itemPath(id int64) string {
	return c.resource.Path + "/" + strconv.FormatInt(id, 10)
}

// Browser is the type-erased view of a Collection used by generic commands and screens.
type Browser interface {
	Resource() Resource
	SearchRecords(ctx context.Context, p SearchParams) (api.Page[Record], error)
	GetRecord(ctx context.Context, id int64) (Record, error)
	CreateJSON(ctx context.Context, raw []byte) (Record, error)
	UpdateJSON(ctx context.Context, id int64, raw []byte) (Record, error)
	Delete(ctx context.Context, id int64) error
}
