package persistence

import (
	"context"
	"fmt"

	"github.com/ovesio/feedexport/internal/domain/export"
	"gorm.io/gorm"
)

// GormProductSource implements export.ProductSource over the store schema.
type GormProductSource struct {
	db     *gorm.DB
	prefix string
}

// NewGormProductSource creates a new GormProductSource.
func NewGormProductSource(db *gorm.DB, tablePrefix string) *GormProductSource {
	return &GormProductSource{db: db, prefix: tablePrefix}
}

// FindActive returns one row per active product in the given language/shop
// combination, ascending by product id. Localized fields, manufacturer,
// stock and the cover image are joined in; missing relations come back as
// NULLs and degrade to zero values.
func (s *GormProductSource) FindActive(ctx context.Context, languageID, shopID int64) ([]export.ProductRow, error) {
	query := fmt.Sprintf(`
		SELECT
			p.id_product,
			p.id_category_default,
			p.reference AS sku,
			pl.name,
			pl.description_short,
			pl.description,
			m.name AS manufacturer,
			sa.quantity,
			p.price,
			p.id_tax_rules_group,
			p.wholesale_price,
			sa.out_of_stock,
			pl.link_rewrite,
			i.id_image
		FROM %[1]sproduct p
		LEFT JOIN %[1]sproduct_lang pl ON p.id_product = pl.id_product AND pl.id_shop = ?
		LEFT JOIN %[1]smanufacturer m ON p.id_manufacturer = m.id_manufacturer
		LEFT JOIN %[1]sstock_available sa ON p.id_product = sa.id_product AND sa.id_product_attribute = 0 AND sa.id_shop = ?
		LEFT JOIN %[1]simage i ON p.id_product = i.id_product AND i.cover = 1
		WHERE pl.id_lang = ?
		AND p.active = 1
		ORDER BY p.id_product ASC`, s.prefix)

	var rows []export.ProductRow
	if err := s.db.WithContext(ctx).Raw(query, shopID, shopID, languageID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}
	return rows, nil
}
