package persistence

import (
	"context"
	"fmt"

	"github.com/ovesio/feedexport/internal/domain/export"
	"gorm.io/gorm"
)

// GormCategorySource implements export.CategorySource over the store schema.
type GormCategorySource struct {
	db     *gorm.DB
	prefix string
}

// NewGormCategorySource creates a new GormCategorySource.
func NewGormCategorySource(db *gorm.DB, tablePrefix string) *GormCategorySource {
	return &GormCategorySource{db: db, prefix: tablePrefix}
}

// FindActive returns every active category with its localized name for the
// given language/shop combination. The result feeds the in-memory path
// resolver of a single export run.
func (s *GormCategorySource) FindActive(ctx context.Context, languageID, shopID int64) ([]export.CategoryNode, error) {
	query := fmt.Sprintf(`
		SELECT
			c.id_category AS id,
			c.id_parent AS parent_id,
			cl.name
		FROM %[1]scategory c
		LEFT JOIN %[1]scategory_lang cl ON c.id_category = cl.id_category AND cl.id_shop = ?
		WHERE cl.id_lang = ?
		AND c.active = 1`, s.prefix)

	var nodes []export.CategoryNode
	if err := s.db.WithContext(ctx).Raw(query, shopID, languageID).Scan(&nodes).Error; err != nil {
		return nil, fmt.Errorf("query active categories: %w", err)
	}
	return nodes, nil
}
