package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormCurrencySource resolves currency ids to ISO 4217 codes.
type GormCurrencySource struct {
	db     *gorm.DB
	prefix string
}

// NewGormCurrencySource creates a new GormCurrencySource.
func NewGormCurrencySource(db *gorm.DB, tablePrefix string) *GormCurrencySource {
	return &GormCurrencySource{db: db, prefix: tablePrefix}
}

// ISOCode returns the ISO code of the given currency, or the empty string
// when the currency does not exist.
func (s *GormCurrencySource) ISOCode(ctx context.Context, currencyID int64) (string, error) {
	query := fmt.Sprintf("SELECT iso_code FROM %scurrency WHERE id_currency = ?", s.prefix)

	var iso string
	if err := s.db.WithContext(ctx).Raw(query, currencyID).Scan(&iso).Error; err != nil {
		return "", fmt.Errorf("query currency %d: %w", currencyID, err)
	}
	return iso, nil
}
