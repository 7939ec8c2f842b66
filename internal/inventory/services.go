package inventory

import (
	"fmt"

	"github.com/stockdesk/stockdesk/internal/api"
)

// Services bundles every service bound to one client.
type Services struct {
	Products   *Collection[Product, ProductPayload]
	Categories *Collection[Category, Category]
	Suppliers  *Collection[Supplier, Supplier]
	Customers  *Collection[Customer, Customer]
	Stores     *Collection[Store, Store]
	Units      *Collection[Unit, Unit]
	Imports    *Workflow[Receipt, ReceiptRequest]
	Exports    *Workflow[Receipt, ReceiptRequest]
	Checks     *Workflow[InventoryCheck, CheckRequest]
	Stock      *StockService
	Auth       *AuthService

	browsers map[string]Browser
}

// NewServices binds every resource to client.
func NewServices(client *api.Client) *Services {
	s := &Services{
		Products:   NewCollection[Product, ProductPayload](client, mustResource(ResourceProducts)),
		Categories: NewCollection[Category, Category](client, mustResource(ResourceCategories)),
		Suppliers:  NewCollection[Supplier, Supplier](client, mustResource(ResourceSuppliers)),
		Customers:  NewCollection[Customer, Customer](client, mustResource(ResourceCustomers)),
		Stores:     NewCollection[Store, Store](client, mustResource(ResourceStores)),
		Units:      NewCollection[Unit, Unit](client, mustResource(ResourceUnits)),
		Imports:    NewWorkflow[Receipt, ReceiptRequest](client, mustResource(ResourceImports)),
		Exports:    NewWorkflow[Receipt, ReceiptRequest](client, mustResource(ResourceExports)),
		Checks:     NewWorkflow[InventoryCheck, CheckRequest](client, mustResource(ResourceChecks)),
		Stock:      NewStockService(client),
		Auth:       NewAuthService(client),
	}
	s.browsers = map[string]Browser{
		ResourceProducts:   s.Products,
		ResourceCategories: s.Categories,
		ResourceSuppliers:  s.Suppliers,
		ResourceCustomers:  s.Customers,
		ResourceStores:     s.Stores,
		ResourceUnits:      s.Units,
		ResourceImports:    s.Imports,
		ResourceExports:    s.Exports,
		ResourceChecks:     s.Checks,
	}
	return s
}

// Browser resolves a resource name or alias to its type-erased collection.
func (s *Services) Browser(name string) (Browser, error) {
	r, err := LookupResource(name)
	if err != nil {
		return nil, err
	}
	return s.browsers[r.Name], nil
}

// Transitioner resolves a workflow resource by name or alias.
func (s *Services) Transitioner(name string) (Transitioner, error) {
	b, err := s.Browser(name)
	if err != nil {
		return nil, err
	}
	t, ok := b.(Transitioner)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no workflow", ErrInvalidAction, b.Resource().Name)
	}
	return t, nil
}

// Browsers returns every collection in catalogue order.
func (s *Services) Browsers() []Browser {
	out := make([]Browser, 0, len(resources))
	for _, r := range resources {
		out = append(out, s.browsers[r.Name])
	}
	return out
}

func mustResource(name string) Resource {
	r, err := LookupResource(name)
	if err != nil {
		panic(err)
	}
	return r
}
