package persistence

import (
	"context"
	"fmt"

	"github.com/ovesio/feedexport/internal/domain/export"
	"gorm.io/gorm"
)

// GormLineItemSource implements export.LineItemSource over the store schema.
type GormLineItemSource struct {
	db     *gorm.DB
	prefix string
}

// NewGormLineItemSource creates a new GormLineItemSource.
func NewGormLineItemSource(db *gorm.DB, tablePrefix string) *GormLineItemSource {
	return &GormLineItemSource{db: db, prefix: tablePrefix}
}

// FindByOrderIDs loads the line items of every given order in one query. An
// empty id set returns immediately without touching the database. Row order
// is whatever the store returns; callers group without re-sorting.
func (s *GormLineItemSource) FindByOrderIDs(ctx context.Context, orderIDs []int64) ([]export.LineItemRow, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT
			od.id_order,
			od.product_id,
			od.product_attribute_id,
			od.product_reference AS sku,
			od.product_name AS name,
			od.product_quantity AS quantity,
			od.unit_price_tax_incl AS price
		FROM %sorder_detail od
		WHERE od.id_order IN ?`, s.prefix)

	var rows []export.LineItemRow
	if err := s.db.WithContext(ctx).Raw(query, orderIDs).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query order line items: %w", err)
	}
	return rows, nil
}
