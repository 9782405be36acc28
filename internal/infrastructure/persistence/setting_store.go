package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Configuration keys read from the store settings table.
const (
	keyDefaultCurrency = "PS_CURRENCY_DEFAULT"
	keyOrderStates     = "OVESIO_ECOMMERCE_ORDER_STATES"
	keyRootCategory    = "PS_ROOT_CATEGORY"
	keyHomeCategory    = "PS_HOME_CATEGORY"
	keySSLEnabled      = "PS_SSL_ENABLED"
)

// GormSettingStore implements export.Settings over the store's key-value
// configuration table. Absent keys degrade to zero values; a malformed
// order-state list degrades to "no override" with a warning.
type GormSettingStore struct {
	db     *gorm.DB
	prefix string
	logger *zap.Logger
}

// NewGormSettingStore creates a new GormSettingStore.
func NewGormSettingStore(db *gorm.DB, tablePrefix string, logger *zap.Logger) *GormSettingStore {
	return &GormSettingStore{db: db, prefix: tablePrefix, logger: logger}
}

// Get reads one configuration value. Absent keys and NULL values come back
// as the empty string.
func (s *GormSettingStore) Get(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("SELECT value FROM %sconfiguration WHERE name = ?", s.prefix)

	var value sql.NullString
	if err := s.db.WithContext(ctx).Raw(query, name).Scan(&value).Error; err != nil {
		return "", fmt.Errorf("read configuration %q: %w", name, err)
	}
	return value.String, nil
}

// DefaultCurrencyID returns the store's canonical currency id.
func (s *GormSettingStore) DefaultCurrencyID(ctx context.Context) (int64, error) {
	return s.getInt(ctx, keyDefaultCurrency)
}

// RootCategoryID returns the configured root category id.
func (s *GormSettingStore) RootCategoryID(ctx context.Context) (int64, error) {
	return s.getInt(ctx, keyRootCategory)
}

// HomeCategoryID returns the configured home category id.
func (s *GormSettingStore) HomeCategoryID(ctx context.Context) (int64, error) {
	return s.getInt(ctx, keyHomeCategory)
}

// ExportableOrderStates returns the configured order-state id list, or nil
// when the key is absent, empty or not valid JSON. Callers treat nil as
// "filter on logable states instead".
func (s *GormSettingStore) ExportableOrderStates(ctx context.Context) ([]int64, error) {
	raw, err := s.Get(ctx, keyOrderStates)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warn("malformed order state list, falling back to logable states",
			zap.String("key", keyOrderStates),
			zap.Error(err))
		return nil, nil
	}
	return ids, nil
}

// ShopProtocol returns "https://" when SSL is enabled for the shop and
// "http://" otherwise.
func (s *GormSettingStore) ShopProtocol(ctx context.Context) (string, error) {
	raw, err := s.Get(ctx, keySSLEnabled)
	if err != nil {
		return "", err
	}
	if raw == "1" {
		return "https://", nil
	}
	return "http://", nil
}

func (s *GormSettingStore) getInt(ctx context.Context, name string) (int64, error) {
	raw, err := s.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.Warn("non-numeric configuration value",
			zap.String("key", name),
			zap.String("value", raw))
		return 0, nil
	}
	return id, nil
}
