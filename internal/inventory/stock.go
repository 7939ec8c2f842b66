package inventory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/api"
)

const stockPath = "/api/stocks"

// StockService reads per-store stock levels.
type StockService struct {
	client *api.Client
}

// NewStockService binds the stock endpoints to a client.
func NewStockService(client *api.Client) *StockService {
	return &StockService{client: client}
}

// ByProduct returns the stock of one product in every store.
func (s *StockService) ByProduct(ctx context.Context, productID int64) ([]Stock, error) {
	var out []Stock
	path := fmt.Sprintf("%s/product/%d", stockPath, productID)
	if err := s.client.Get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("stock of product %d: %w", productID, err)
	}
	return out, nil
}

// ByProductAndStore returns the stock of one product in one store.
func (s *StockService) ByProductAndStore(ctx context.Context, productID, storeID int64) (Stock, error) {
	var out Stock
	path := fmt.Sprintf("%s/product/%d/store/%d", stockPath, productID, storeID)
	if err := s.client.Get(ctx, path, nil, &out); err != nil {
		return out, fmt.Errorf("stock of product %d in store %d: %w", productID, storeID, err)
	}
	return out, nil
}

// ByStore returns the stock of every product in one store.
func (s *StockService) ByStore(ctx context.Context, storeID int64) ([]Stock, error) {
	var out []Stock
	path := fmt.Sprintf("%s/store/%d", stockPath, storeID)
	if err := s.client.Get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("stock of store %d: %w", storeID, err)
	}
	return out, nil
}

// Page returns one page of all stock rows. page is 0-based.
func (s *StockService) Page(ctx context.Context, page, size int) (api.Page[Stock], error) {
	q := url.Values{"page": {strconv.Itoa(max(0, page))}}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	var out api.Page[Stock]
	if err := s.client.Get(ctx, stockPath+"/paged", q, &out); err != nil {
		return out, fmt.Errorf("stock page %d: %w", page, err)
	}
	return out, nil
}

// Total sums the quantity over rows.
func Total(rows []Stock) int64 {
	var n int64
	for _, r := range rows {
		n += r.Quantity
	}
	return n
}
