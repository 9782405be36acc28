package export

import (
	"context"
	"time"

	"github.com/ovesio/feedexport/internal/domain/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderSource is a mock implementation of export.OrderSource
type MockOrderSource struct {
	mock.Mock
}

func (m *MockOrderSource) FindExportable(ctx context.Context, since time.Time, stateIDs []int64) ([]export.OrderRow, error) {
	args := m.Called(ctx, since, stateIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.OrderRow), args.Error(1)
}

// MockLineItemSource is a mock implementation of export.LineItemSource
type MockLineItemSource struct {
	mock.Mock
}

func (m *MockLineItemSource) FindByOrderIDs(ctx context.Context, orderIDs []int64) ([]export.LineItemRow, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.LineItemRow), args.Error(1)
}

// MockCurrencySource is a mock implementation of export.CurrencySource
type MockCurrencySource struct {
	mock.Mock
}

func (m *MockCurrencySource) ISOCode(ctx context.Context, currencyID int64) (string, error) {
	args := m.Called(ctx, currencyID)
	return args.String(0), args.Error(1)
}

// MockSettings is a mock implementation of export.Settings
type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) DefaultCurrencyID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettings) ExportableOrderStates(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSettings) RootCategoryID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettings) HomeCategoryID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettings) ShopProtocol(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockProductSource is a mock implementation of export.ProductSource
type MockProductSource struct {
	mock.Mock
}

func (m *MockProductSource) FindActive(ctx context.Context, languageID, shopID int64) ([]export.ProductRow, error) {
	args := m.Called(ctx, languageID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.ProductRow), args.Error(1)
}

// MockCategorySource is a mock implementation of export.CategorySource
type MockCategorySource struct {
	mock.Mock
}

func (m *MockCategorySource) FindActive(ctx context.Context, languageID, shopID int64) ([]export.CategoryNode, error) {
	args := m.Called(ctx, languageID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.CategoryNode), args.Error(1)
}

// MockPriceCalculator is a mock implementation of export.PriceCalculator
type MockPriceCalculator struct {
	mock.Mock
}

func (m *MockPriceCalculator) Price(ctx context.Context, productID int64, includeTax bool, precision int32, groupID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, productID, includeTax, precision, groupID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockLinkBuilder is a mock implementation of export.LinkBuilder
type MockLinkBuilder struct {
	mock.Mock
}

func (m *MockLinkBuilder) ImageURL(slug string, imageID int64, variant string) string {
	args := m.Called(slug, imageID, variant)
	return args.String(0)
}

func (m *MockLinkBuilder) ProductURL(productID int64, slug string, languageID, shopID int64) string {
	args := m.Called(productID, slug, languageID, shopID)
	return args.String(0)
}
