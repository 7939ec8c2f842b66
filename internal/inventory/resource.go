package inventory

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrUnknownResource is returned by LookupResource for a name it does not know.
var ErrUnknownResource = errors.New("unknown resource")

// Field describes one display column of a resource.
type Field struct {
	Key     string
	Label   string
	Width   int
	Numeric bool
}

// Resource is a backend collection: its REST path, display columns and filters.
type Resource struct {
	Name    string
	Aliases []string
	Path    string
	Title   string
	Fields  []Field
	// Filters names the query parameters the search endpoint understands.
	Filters FilterDialect
	// Actions lists the workflow transitions the resource accepts.
	Actions []Action
}

// HasAction reports whether a is a valid transition for the resource.
func (r Resource) HasAction(a Action) bool {
	return slices.Contains(r.Actions, a)
}

// Resource names.
const (
	ResourceProducts   = "products"
	ResourceCategories = "categories"
	ResourceSuppliers  = "suppliers"
	ResourceCustomers  = "customers"
	ResourceStores     = "stores"
	ResourceUnits      = "units"
	ResourceImports    = "imports"
	ResourceExports    = "exports"
	ResourceChecks     = "checks"
)

var (
	idField     = Field{Key: "id", Label: "ID", Width: 6, Numeric: true}
	codeField   = Field{Key: "code", Label: "CODE", Width: 12}
	nameField   = Field{Key: "name", Label: "NAME", Width: 28}
	statusField = Field{Key: "status", Label: "STATUS", Width: 10}
	phoneField  = Field{Key: "phone", Label: "PHONE", Width: 13}
)

//nolint:gochecknoglobals // Static resource catalogue.
var resources = []Resource{
	{
		Name: ResourceProducts, Aliases: []string{"product", "p"}, Path: "/api/products", Title: "Products",
		Fields: []Field{
			idField, codeField, nameField,
			{Key: "category", Label: "CATEGORY", Width: 16},
			{Key: "unit", Label: "UNIT", Width: 8},
			{Key: "price", Label: "PRICE", Width: 12, Numeric: true},
			{Key: "stock", Label: "STOCK", Width: 7, Numeric: true},
			statusField,
		},
		Filters: CatalogueFilters,
	},
	{
		Name: ResourceCategories, Aliases: []string{"category"}, Path: "/api/categories", Title: "Categories",
		Fields: []Field{
			idField, codeField, nameField,
			{Key: "description", Label: "DESCRIPTION", Width: 32},
		},
		Filters: CatalogueFilters,
	},
	{
		Name: ResourceSuppliers, Aliases: []string{"supplier"}, Path: "/api/suppliers", Title: "Suppliers",
		Fields: []Field{
			idField, codeField, nameField,
			{Key: "type", Label: "TYPE", Width: 9},
			phoneField,
			{Key: "email", Label: "EMAIL", Width: 24},
		},
		Filters: CatalogueFilters,
	},
	{
		Name: ResourceCustomers, Aliases: []string{"customer"}, Path: "/api/customers", Title: "Customers",
		Fields: []Field{
			idField, codeField, nameField, phoneField,
			{Key: "email", Label: "EMAIL", Width: 24},
			statusField,
		},
		Filters: CatalogueFilters,
	},
	{
		Name: ResourceStores, Aliases: []string{"store", "warehouses"}, Path: "/api/stores", Title: "Stores",
		Fields: []Field{
			idField, codeField, nameField, phoneField,
			{Key: "address", Label: "ADDRESS", Width: 32},
		},
		Filters: CatalogueFilters,
	},
	{
		Name: ResourceUnits, Aliases: []string{"unit"}, Path: "/api/units", Title: "Units",
		Fields: []Field{
			idField,
			{Key: "name", Label: "NAME", Width: 16},
			{Key: "description", Label: "DESCRIPTION", Width: 32},
			{Key: "active", Label: "ACTIVE", Width: 6},
		},
		Filters: CatalogueFilters,
	},
	{
		Name: ResourceImports, Aliases: []string{"import", "in"}, Path: "/api/imports", Title: "Imports",
		Fields:  receiptFields("SUPPLIER"),
		Filters: ReceiptFilters,
		Actions: []Action{ActionConfirm, ActionApprove, ActionCancel, ActionReject},
	},
	{
		Name: ResourceExports, Aliases: []string{"export", "out"}, Path: "/api/exports", Title: "Exports",
		Fields:  receiptFields("CUSTOMER"),
		Filters: ReceiptFilters,
		Actions: []Action{ActionConfirm, ActionApprove, ActionCancel, ActionReject},
	},
	{
		Name: ResourceChecks, Aliases: []string{"check", "inventory-checks"}, Path: "/api/inventory-checks", Title: "Inventory checks",
		Fields: []Field{
			idField, codeField,
			{Key: "date", Label: "DATE", Width: 10},
			{Key: "store", Label: "STORE", Width: 18},
			{Key: "difference", Label: "DIFFERENCE", Width: 12, Numeric: true},
			statusField,
		},
		Filters: CheckFilters,
		Actions: []Action{ActionApprove, ActionConfirm, ActionReject},
	},
}

func receiptFields(party string) []Field {
	return []Field{
		idField, codeField,
		{Key: "date", Label: "DATE", Width: 10},
		{Key: "party", Label: party, Width: 22},
		{Key: "store", Label: "STORE", Width: 16},
		{Key: "total", Label: "TOTAL", Width: 14, Numeric: true},
		statusField,
	}
}

// Resources returns the catalogue in display order.
func Resources() []Resource {
	return slices.Clone(resources)
}

// ResourceNames returns the canonical names, sorted.
func ResourceNames() []string {
	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// LookupResource resolves a canonical name or alias, case-insensitively.
func LookupResource(name string) (Resource, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, r := range resources {
		if r.Name == n || slices.Contains(r.Aliases, n) {
			return r, nil
		}
	}
	return Resource{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownResource, name, strings.Join(ResourceNames(), ", "))
}
