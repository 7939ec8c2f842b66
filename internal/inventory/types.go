package inventory

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is a row the CLI and TUI can render without knowing its concrete type.
// Cells are aligned with the owning Resource's Fields.
type Record interface {
	RowID() int64
	Cells() []string
}

// Status values shared by imports and exports.
const (
	StatusAll       = "ALL"
	StatusPending   = "PENDING"
	StatusImported  = "IMPORTED"
	StatusExported  = "EXPORTED"
	StatusCancelled = "CANCELLED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusReturned  = "RETURNED"
)

// Product is a catalogue item.
type Product struct {
	ID               int64           `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"shortDescription,omitempty"`
	Image            string          `json:"image,omitempty"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	CategoryID       *int64          `json:"categoryId,omitempty"`
	CategoryName     string          `json:"categoryName,omitempty"`
	SupplierID       *int64          `json:"supplierId,omitempty"`
	SupplierIDs      []int64         `json:"supplierIds,omitempty"`
	UnitID           *int64          `json:"unitId,omitempty"`
	UnitName         string          `json:"unitName,omitempty"`
	Status           string          `json:"status"`
	Quantity         *int64          `json:"quantity,omitempty"`
	StockQuantity    *int64          `json:"stockQuantity,omitempty"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
}

func (p Product) RowID() int64 { return p.ID }

func (p Product) Cells() []string {
	return []string{
		formatID(p.ID), p.Code, p.Name, p.CategoryName, p.UnitName,
		formatMoney(p.UnitPrice), formatQty(p.StockQuantity), p.Status,
	}
}

// ProductPayload is the create/update body for products.
type ProductPayload struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"shortDescription,omitempty"`
	Image            string          `json:"image,omitempty"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Status           string          `json:"status"`
	CategoryID       *int64          `json:"categoryId,omitempty"`
	SupplierIDs      []int64         `json:"supplierIds,omitempty"`
	UnitID           *int64          `json:"unitId,omitempty"`
}

// Category groups products.
type Category struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (c Category) RowID() int64 { return c.ID }

func (c Category) Cells() []string {
	return []string{formatID(c.ID), c.Code, c.Name, c.Description}
}

// Supplier types.
const (
	SupplierTypeVendor   = "NCC"
	SupplierTypeInternal = "INTERNAL"
	SupplierTypeStaff    = "STAFF"
)

// Supplier is a vendor, an internal warehouse or a sales staff member.
type Supplier struct {
	ID          int64  `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (s Supplier) RowID() int64 { return s.ID }

func (s Supplier) Cells() []string {
	return []string{formatID(s.ID), s.Code, s.Name, s.Type, s.Phone, s.Email}
}

// Customer buys goods through exports.
type Customer struct {
	ID          int64  `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name,omitempty"`
	Username    string `json:"username,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (c Customer) RowID() int64 { return c.ID }

// DisplayName prefers the customer name, then the full name, then the username.
func (c Customer) DisplayName() string {
	for _, s := range []string{c.Name, c.FullName, c.Username} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c Customer) Cells() []string {
	return []string{formatID(c.ID), c.Code, c.DisplayName(), c.Phone, c.Email, c.Status}
}

// Store is a warehouse or shop holding stock.
type Store struct {
	ID          int64  `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s Store) RowID() int64 { return s.ID }

func (s Store) Cells() []string {
	return []string{formatID(s.ID), s.Code, s.Name, s.Phone, s.Address}
}

// Unit is a unit of measure.
type Unit struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

func (u Unit) RowID() int64 { return u.ID }

func (u Unit) Cells() []string {
	active := ""
	if u.Active != nil {
		active = strconv.FormatBool(*u.Active)
	}
	return []string{formatID(u.ID), u.Name, u.Description, active}
}

// ReceiptItem is one line of an import or export.
type ReceiptItem struct {
	ID              int64           `json:"id,omitempty"`
	ProductID       int64           `json:"productId"`
	ProductCode     string          `json:"productCode,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	UnitName        string          `json:"unitName,omitempty"`
	StoreID         *int64          `json:"storeId,omitempty"`
	StoreName       string          `json:"storeName,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	ImportDetailsID *int64          `json:"importDetailsId,omitempty"`
}

// LineTotal is quantity times unit price less the discount.
func (i ReceiptItem) LineTotal() decimal.Decimal {
	gross := i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
	discount := gross.Mul(i.DiscountPercent).Div(decimal.NewFromInt(100))
	return gross.Sub(discount)
}

// Receipt is an import (goods in) or export (goods out).
type Receipt struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	StoreID         int64           `json:"storeId"`
	StoreName       string          `json:"storeName,omitempty"`
	SupplierID      *int64          `json:"supplierId,omitempty"`
	SupplierName    string          `json:"supplierName,omitempty"`
	CustomerID      *int64          `json:"customerId,omitempty"`
	CustomerName    string          `json:"customerName,omitempty"`
	Status          string          `json:"status"`
	ImportsDate     string          `json:"importsDate,omitempty"`
	ExportsDate     string          `json:"exportsDate,omitempty"`
	Note            string          `json:"note,omitempty"`
	Description     string          `json:"description,omitempty"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	Items           []ReceiptItem   `json:"items,omitempty"`
	CreatedByName   string          `json:"createdByName,omitempty"`
	ApprovedByName  string          `json:"approvedByName,omitempty"`
	ApprovedAt      string          `json:"approvedAt,omitempty"`
	RejectedByName  string          `json:"rejectedByName,omitempty"`
	RejectedAt      string          `json:"rejectedAt,omitempty"`
}

func (r Receipt) RowID() int64 { return r.ID }

// Date returns whichever of the import or export date is set.
func (r Receipt) Date() string {
	if r.ImportsDate != "" {
		return r.ImportsDate
	}
	return r.ExportsDate
}

// Party is the supplier for imports and the customer for exports.
func (r Receipt) Party() string {
	if r.SupplierName != "" {
		return r.SupplierName
	}
	return r.CustomerName
}

func (r Receipt) Cells() []string {
	return []string{
		formatID(r.ID), r.Code, shortDate(r.Date()), r.Party(), r.StoreName,
		formatMoney(r.TotalValue), r.Status,
	}
}

// ReceiptItemRequest is one line of a receipt create/update body.
type ReceiptItemRequest struct {
	ProductID       int64           `json:"productId"`
	StoreID         *int64          `json:"storeId,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	ImportDetailsID *int64          `json:"importDetailsId,omitempty"`
}

// ReceiptRequest is the create/update body for imports and exports.
type ReceiptRequest struct {
	Code            string               `json:"code,omitempty"`
	StoreID         int64                `json:"storeId"`
	SupplierID      *int64               `json:"supplierId,omitempty"`
	CustomerID      *int64               `json:"customerId,omitempty"`
	CustomerName    string               `json:"customerName,omitempty"`
	CustomerPhone   string               `json:"customerPhone,omitempty"`
	CustomerAddress string               `json:"customerAddress,omitempty"`
	OrderID         *int64               `json:"orderId,omitempty"`
	Note            string               `json:"note,omitempty"`
	Description     string               `json:"description,omitempty"`
	Items           []ReceiptItemRequest `json:"items"`
}

// CheckItem is one counted product of an inventory check.
type CheckItem struct {
	ID                 int64           `json:"id,omitempty"`
	ProductID          int64           `json:"productId"`
	ProductCode        string          `json:"productCode,omitempty"`
	ProductName        string          `json:"productName,omitempty"`
	SystemQuantity     int64           `json:"systemQuantity"`
	ActualQuantity     int64           `json:"actualQuantity"`
	DifferenceQuantity int64           `json:"differenceQuantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	Note               string          `json:"note,omitempty"`
}

// InventoryCheck is a stock count comparing system and actual quantities.
type InventoryCheck struct {
	ID                   int64           `json:"id"`
	CheckCode            string          `json:"checkCode"`
	StoreID              int64           `json:"storeId"`
	StoreName            string          `json:"storeName,omitempty"`
	Description          string          `json:"description,omitempty"`
	Status               string          `json:"status"`
	CheckDate            string          `json:"checkDate"`
	Note                 string          `json:"note,omitempty"`
	TotalDifferenceValue decimal.Decimal `json:"totalDifferenceValue"`
	Items                []CheckItem     `json:"items,omitempty"`
}

func (c InventoryCheck) RowID() int64 { return c.ID }

func (c InventoryCheck) Cells() []string {
	return []string{
		formatID(c.ID), c.CheckCode, shortDate(c.CheckDate), c.StoreName,
		formatMoney(c.TotalDifferenceValue), c.Status,
	}
}

// CheckItemRequest is one line of an inventory check create/update body.
type CheckItemRequest struct {
	ProductID      int64           `json:"productId"`
	SystemQuantity int64           `json:"systemQuantity"`
	ActualQuantity int64           `json:"actualQuantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Note           string          `json:"note,omitempty"`
}

// CheckRequest is the create/update body for inventory checks.
type CheckRequest struct {
	CheckCode   string             `json:"checkCode,omitempty"`
	StoreID     int64              `json:"storeId"`
	Description string             `json:"description,omitempty"`
	CheckDate   string             `json:"checkDate"`
	Note        string             `json:"note,omitempty"`
	Items       []CheckItemRequest `json:"items"`
}

// Stock is the quantity of one product in one store.
type Stock struct {
	ProductID int64  `json:"productId"`
	StoreID   int64  `json:"storeId"`
	StoreName string `json:"storeName,omitempty"`
	StoreCode string `json:"storeCode,omitempty"`
	Quantity  int64  `json:"quantity"`
	MinStock  *int64 `json:"minStock,omitempty"`
	MaxStock  *int64 `json:"maxStock,omitempty"`
}

// BelowMinimum reports whether the quantity is under the configured minimum.
func (s Stock) BelowMinimum() bool {
	return s.MinStock != nil && s.Quantity < *s.MinStock
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatQty(q *int64) string {
	if q == nil {
		return "-"
	}
	return strconv.FormatInt(*q, 10)
}

// shortDate keeps the YYYY-MM-DD part of an ISO timestamp.
func shortDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}
