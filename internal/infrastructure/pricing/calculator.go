package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaxInclusiveCalculator computes catalog selling prices straight from the
// store tables: base price, tax rate from the product's tax rules group, and
// any specific-price reduction for the given customer group.
type TaxInclusiveCalculator struct {
	db     *gorm.DB
	prefix string
}

// NewTaxInclusiveCalculator creates a calculator reading from the store
// tables with the given prefix.
func NewTaxInclusiveCalculator(db *gorm.DB, prefix string) *TaxInclusiveCalculator {
	return &TaxInclusiveCalculator{db: db, prefix: prefix}
}

var hundred = decimal.NewFromInt(100)

type basePriceRow struct {
	Price   decimal.Decimal `gorm:"column:price"`
	TaxRate decimal.Decimal `gorm:"column:tax_rate"`
}

type reductionRow struct {
	Reduction     decimal.Decimal `gorm:"column:reduction"`
	ReductionType string          `gorm:"column:reduction_type"`
}

// Price returns the selling price of a product rounded to the given number of
// decimal places. The tax rate comes from the product's tax rules group; when
// includeTax is false the net price is returned. A specific price configured
// for the given group (or for all groups) is applied before rounding.
func (c *TaxInclusiveCalculator) Price(ctx context.Context, productID int64, includeTax bool, precision int32, groupID int64) (decimal.Decimal, error) {
	base, err := c.basePrice(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}

	price := base.Price
	if includeTax && base.TaxRate.IsPositive() {
		price = price.Mul(decimal.NewFromInt(1).Add(base.TaxRate.Div(hundred)))
	}

	red, found, err := c.reduction(ctx, productID, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	if found {
		switch red.ReductionType {
		case "percentage":
			price = price.Mul(decimal.NewFromInt(1).Sub(red.Reduction))
		case "amount":
			price = price.Sub(red.Reduction)
			if price.IsNegative() {
				price = decimal.Zero
			}
		}
	}

	return price.Round(precision), nil
}

func (c *TaxInclusiveCalculator) basePrice(ctx context.Context, productID int64) (*basePriceRow, error) {
	query := fmt.Sprintf(`
		SELECT
			p.price,
			COALESCE(t.rate, 0) AS tax_rate
		FROM %[1]sproduct p
		LEFT JOIN %[1]stax_rule tr ON tr.id_tax_rules_group = p.id_tax_rules_group
		LEFT JOIN %[1]stax t ON t.id_tax = tr.id_tax AND t.active = 1
		WHERE p.id_product = ?
		LIMIT 1`, c.prefix)

	var row basePriceRow
	result := c.db.WithContext(ctx).Raw(query, productID).Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query price for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("product %d has no price row", productID)
	}
	return &row, nil
}

func (c *TaxInclusiveCalculator) reduction(ctx context.Context, productID, groupID int64) (*reductionRow, bool, error) {
	// id_group = 0 means the reduction applies to every group; a row for the
	// specific group wins over the catch-all.
	query := fmt.Sprintf(`
		SELECT
			sp.reduction,
			sp.reduction_type
		FROM %sspecific_price sp
		WHERE sp.id_product = ? AND sp.id_group IN ?
		ORDER BY sp.id_group DESC
		LIMIT 1`, c.prefix)

	var row reductionRow
	result := c.db.WithContext(ctx).Raw(query, productID, []int64{0, groupID}).Scan(&row)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to query specific price for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &row, true, nil
}
