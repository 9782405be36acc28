package export

import "github.com/shopspring/decimal"

// Availability is the stock availability flag exposed to the feed consumer.
type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

// AvailabilityForQuantity derives the availability flag from a stock count.
func AvailabilityForQuantity(quantity int) Availability {
	if quantity <= 0 {
		return AvailabilityOutOfStock
	}
	return AvailabilityInStock
}

// LineItem is one product line within an exported order. Price is the unit
// price expressed in the canonical currency.
type LineItem struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderRecord is one normalized order in the export feed. Total and every
// line item price are expressed in the store's default currency regardless
// of the currency the order was placed in.
type OrderRecord struct {
	OrderID    int64           `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Date       string          `json:"date"`
	Products   []LineItem      `json:"products"`
}

// ProductRecord is one normalized catalog entry in the export feed. Currency
// is the currency of the calling context, not necessarily the canonical one.
type ProductRecord struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Availability Availability    `json:"availability"`
	Description  string          `json:"description"`
	Manufacturer *string         `json:"manufacturer"`
	Image        *string         `json:"image"`
	URL          string          `json:"url"`
	Category     string          `json:"category"`
}

// CategoryNode is one active category loaded for path resolution. Nodes are
// rebuilt on every product export run and never cached across calls.
type CategoryNode struct {
	ID       int64  `gorm:"column:id"`
	ParentID int64  `gorm:"column:parent_id"`
	Name     string `gorm:"column:name"`
}
