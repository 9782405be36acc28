package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/ovesio/feedexport/internal/domain/export"
	"gorm.io/gorm"
)

// GormOrderSource implements export.OrderSource over the store schema.
type GormOrderSource struct {
	db     *gorm.DB
	prefix string
}

// NewGormOrderSource creates a new GormOrderSource. tablePrefix is the store
// table prefix, e.g. "ps_".
func NewGormOrderSource(db *gorm.DB, tablePrefix string) *GormOrderSource {
	return &GormOrderSource{db: db, prefix: tablePrefix}
}

// FindExportable returns one row per qualifying order created on or after
// since, ascending by order id. A non-empty stateIDs list filters on the
// order's current state; otherwise only logable states qualify.
func (s *GormOrderSource) FindExportable(ctx context.Context, since time.Time, stateIDs []int64) ([]export.OrderRow, error) {
	query := fmt.Sprintf(`
		SELECT
			o.id_order AS order_id,
			o.id_currency,
			o.conversion_rate,
			c.email,
			o.total_paid_tax_incl AS total,
			o.date_add AS date
		FROM %[1]sorders o
		LEFT JOIN %[1]scustomer c ON o.id_customer = c.id_customer
		LEFT JOIN %[1]sorder_state os ON o.current_state = os.id_order_state
		WHERE o.date_add >= ?`, s.prefix)

	args := []interface{}{since.Format("2006-01-02")}
	if len(stateIDs) > 0 {
		query += " AND o.current_state IN ?"
		args = append(args, stateIDs)
	} else {
		query += " AND os.logable = 1"
	}
	query += " ORDER BY o.id_order ASC"

	var rows []export.OrderRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query exportable orders: %w", err)
	}
	return rows, nil
}
