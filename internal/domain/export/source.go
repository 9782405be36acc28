package export

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderRow is one exportable order as returned by the primary order query.
type OrderRow struct {
	OrderID        int64           `gorm:"column:order_id"`
	CurrencyID     int64           `gorm:"column:id_currency"`
	ConversionRate decimal.Decimal `gorm:"column:conversion_rate"`
	Email          string          `gorm:"column:email"`
	Total          decimal.Decimal `gorm:"column:total"`
	Date           time.Time       `gorm:"column:date"`
}

// LineItemRow is one order line as returned by the batched line-item query.
type LineItemRow struct {
	OrderID     int64           `gorm:"column:id_order"`
	ProductID   int64           `gorm:"column:product_id"`
	AttributeID int64           `gorm:"column:product_attribute_id"`
	Reference   string          `gorm:"column:sku"`
	Name        string          `gorm:"column:name"`
	Quantity    int             `gorm:"column:quantity"`
	Price       decimal.Decimal `gorm:"column:price"`
}

// ProductRow is one active product as returned by the catalog query.
type ProductRow struct {
	ProductID         int64           `gorm:"column:id_product"`
	DefaultCategoryID int64           `gorm:"column:id_category_default"`
	Reference         string          `gorm:"column:sku"`
	Name              string          `gorm:"column:name"`
	DescriptionShort  string          `gorm:"column:description_short"`
	Description       string          `gorm:"column:description"`
	Manufacturer      *string         `gorm:"column:manufacturer"`
	Quantity          int             `gorm:"column:quantity"`
	Price             decimal.Decimal `gorm:"column:price"`
	TaxRulesGroupID   int64           `gorm:"column:id_tax_rules_group"`
	WholesalePrice    decimal.Decimal `gorm:"column:wholesale_price"`
	OutOfStock        int             `gorm:"column:out_of_stock"`
	LinkRewrite       string          `gorm:"column:link_rewrite"`
	ImageID           *int64          `gorm:"column:id_image"`
}

// OrderSource retrieves exportable orders. When stateIDs is non-empty the
// source filters on those state ids; otherwise it falls back to states
// flagged as logable (accountable for financial reporting).
type OrderSource interface {
	FindExportable(ctx context.Context, since time.Time, stateIDs []int64) ([]OrderRow, error)
}

// LineItemSource retrieves line items for a set of order ids in one query.
type LineItemSource interface {
	FindByOrderIDs(ctx context.Context, orderIDs []int64) ([]LineItemRow, error)
}

// ProductSource retrieves active products for a language/shop combination.
type ProductSource interface {
	FindActive(ctx context.Context, languageID, shopID int64) ([]ProductRow, error)
}

// CategorySource retrieves all active categories for a language/shop
// combination, used to preload the path resolver.
type CategorySource interface {
	FindActive(ctx context.Context, languageID, shopID int64) ([]CategoryNode, error)
}

// CurrencySource resolves a currency id to its ISO 4217 code.
type CurrencySource interface {
	ISOCode(ctx context.Context, currencyID int64) (string, error)
}

// Settings exposes store-level configuration. Absent keys degrade to zero
// values; only data-access failures surface as errors.
type Settings interface {
	DefaultCurrencyID(ctx context.Context) (int64, error)
	ExportableOrderStates(ctx context.Context) ([]int64, error)
	RootCategoryID(ctx context.Context) (int64, error)
	HomeCategoryID(ctx context.Context) (int64, error)
	ShopProtocol(ctx context.Context) (string, error)
}

// PriceCalculator computes the catalog price of a product through the
// store's tax and group pricing rules. The export pipeline treats it as an
// opaque computation.
type PriceCalculator interface {
	Price(ctx context.Context, productID int64, includeTax bool, precision int32, groupID int64) (decimal.Decimal, error)
}

// LinkBuilder renders storefront URLs. Image URLs may come back without a
// scheme; callers prefix the shop protocol when needed.
type LinkBuilder interface {
	ImageURL(slug string, imageID int64, variant string) string
	ProductURL(productID int64, slug string, languageID, shopID int64) string
}
