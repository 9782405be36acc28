package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ovesio/feedexport/internal/domain/export"
	"github.com/ovesio/feedexport/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const defaultCurrencyID = int64(1)

func newOrderExportFixture() (*OrderExportService, *MockOrderSource, *MockLineItemSource, *MockCurrencySource, *MockSettings) {
	orders := new(MockOrderSource)
	items := new(MockLineItemSource)
	currencies := new(MockCurrencySource)
	settings := new(MockSettings)
	svc := NewOrderExportService(orders, items, currencies, settings)
	return svc, orders, items, currencies, settings
}

func stubOrderDefaults(currencies *MockCurrencySource, settings *MockSettings) {
	settings.On("DefaultCurrencyID", mock.Anything).Return(defaultCurrencyID, nil)
	settings.On("ExportableOrderStates", mock.Anything).Return(nil, nil)
	currencies.On("ISOCode", mock.Anything, defaultCurrencyID).Return("EUR", nil)
}

func orderDate() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func TestOrderExportService_ExportOrders(t *testing.T) {
	t.Run("order in default currency passes totals through unchanged", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		for _, total := range []string{"199.99", "-10.50", "0"} {
			raw := decimal.RequireFromString(total)
			orders.ExpectedCalls = nil
			items.ExpectedCalls = nil
			orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{
				{OrderID: 7, CurrencyID: defaultCurrencyID, ConversionRate: decimal.RequireFromString("1.2"), Email: "jane@example.com", Total: raw, Date: orderDate()},
			}, nil)
			items.On("FindByOrderIDs", mock.Anything, []int64{7}).Return([]export.LineItemRow{}, nil)

			records, err := svc.ExportOrders(context.Background(), 12)

			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.True(t, raw.Equal(records[0].Total), "total %s must pass through", total)
			assert.Equal(t, "EUR", records[0].Currency)
		}
	})

	t.Run("foreign currency divides total and item prices by the rate", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		rate := decimal.RequireFromString("2")
		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{
			{OrderID: 9, CurrencyID: 3, ConversionRate: rate, Email: "jane@example.com", Total: decimal.RequireFromString("100"), Date: orderDate()},
		}, nil)
		items.On("FindByOrderIDs", mock.Anything, []int64{9}).Return([]export.LineItemRow{
			{OrderID: 9, ProductID: 1, Reference: "SKU-A", Name: "A", Quantity: 2, Price: decimal.RequireFromString("30")},
			{OrderID: 9, ProductID: 2, Reference: "SKU-B", Name: "B", Quantity: 1, Price: decimal.RequireFromString("40")},
		}, nil)

		records, err := svc.ExportOrders(context.Background(), 12)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, decimal.RequireFromString("50").Equal(records[0].Total))
		require.Len(t, records[0].Products, 2)
		assert.True(t, decimal.RequireFromString("15").Equal(records[0].Products[0].Price))
		assert.True(t, decimal.RequireFromString("20").Equal(records[0].Products[1].Price))
	})

	t.Run("zero conversion rate leaves amounts unchanged", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{
			{OrderID: 4, CurrencyID: 3, ConversionRate: decimal.Zero, Email: "jane@example.com", Total: decimal.RequireFromString("100"), Date: orderDate()},
		}, nil)
		items.On("FindByOrderIDs", mock.Anything, []int64{4}).Return([]export.LineItemRow{
			{OrderID: 4, ProductID: 1, Reference: "SKU-A", Name: "A", Quantity: 1, Price: decimal.RequireFromString("30")},
		}, nil)

		records, err := svc.ExportOrders(context.Background(), 12)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, decimal.RequireFromString("100").Equal(records[0].Total))
		assert.True(t, decimal.RequireFromString("30").Equal(records[0].Products[0].Price))
	})

	t.Run("non-positive duration falls back to twelve months", func(t *testing.T) {
		for _, months := range []int{0, -3} {
			svc, orders, items, currencies, settings := newOrderExportFixture()
			stubOrderDefaults(currencies, settings)
			_ = items

			var got time.Time
			orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) { got = args.Get(1).(time.Time) }).
				Return([]export.OrderRow{}, nil)

			_, err := svc.ExportOrders(context.Background(), months)

			require.NoError(t, err)
			want := time.Now().AddDate(0, -DefaultDurationMonths, 0)
			assert.Equal(t, want.Format("2006-01-02"), got.Format("2006-01-02"))
		}
	})

	t.Run("configured state list is passed to the order source", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		_ = items
		settings.On("DefaultCurrencyID", mock.Anything).Return(defaultCurrencyID, nil)
		settings.On("ExportableOrderStates", mock.Anything).Return([]int64{2, 5}, nil)
		currencies.On("ISOCode", mock.Anything, defaultCurrencyID).Return("EUR", nil)

		orders.On("FindExportable", mock.Anything, mock.Anything, []int64{2, 5}).Return([]export.OrderRow{}, nil)

		_, err := svc.ExportOrders(context.Background(), 6)

		require.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("no qualifying orders yields empty sequence without loading items", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{}, nil)

		records, err := svc.ExportOrders(context.Background(), 12)

		require.NoError(t, err)
		assert.Empty(t, records)
		items.AssertNotCalled(t, "FindByOrderIDs", mock.Anything, mock.Anything)
	})

	t.Run("order without line items gets an empty product list", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{
			{OrderID: 11, CurrencyID: defaultCurrencyID, ConversionRate: decimal.New(1, 0), Email: "jane@example.com", Total: decimal.RequireFromString("5"), Date: orderDate()},
		}, nil)
		items.On("FindByOrderIDs", mock.Anything, []int64{11}).Return([]export.LineItemRow{}, nil)

		records, err := svc.ExportOrders(context.Background(), 12)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotNil(t, records[0].Products)
		assert.Empty(t, records[0].Products)
	})

	t.Run("same email hashes identically across orders", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{
			{OrderID: 1, CurrencyID: defaultCurrencyID, ConversionRate: decimal.New(1, 0), Email: "jane@example.com", Total: decimal.RequireFromString("1"), Date: orderDate()},
			{OrderID: 2, CurrencyID: defaultCurrencyID, ConversionRate: decimal.New(1, 0), Email: "jane@example.com", Total: decimal.RequireFromString("2"), Date: orderDate()},
			{OrderID: 3, CurrencyID: defaultCurrencyID, ConversionRate: decimal.New(1, 0), Email: "john@example.com", Total: decimal.RequireFromString("3"), Date: orderDate()},
		}, nil)
		items.On("FindByOrderIDs", mock.Anything, []int64{1, 2, 3}).Return([]export.LineItemRow{}, nil)

		records, err := svc.ExportOrders(context.Background(), 12)

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, records[0].CustomerID, records[1].CustomerID)
		assert.NotEqual(t, records[0].CustomerID, records[2].CustomerID)
		assert.NotEqual(t, "jane@example.com", records[0].CustomerID)
	})

	t.Run("records come back ascending by order id with verbatim dates", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{
			{OrderID: 1, CurrencyID: defaultCurrencyID, ConversionRate: decimal.New(1, 0), Email: "a@example.com", Total: decimal.RequireFromString("1"), Date: orderDate()},
			{OrderID: 2, CurrencyID: defaultCurrencyID, ConversionRate: decimal.New(1, 0), Email: "b@example.com", Total: decimal.RequireFromString("2"), Date: orderDate()},
		}, nil)
		items.On("FindByOrderIDs", mock.Anything, []int64{1, 2}).Return([]export.LineItemRow{}, nil)

		records, err := svc.ExportOrders(context.Background(), 12)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(1), records[0].OrderID)
		assert.Equal(t, int64(2), records[1].OrderID)
		assert.Equal(t, "2026-03-14 09:30:00", records[0].Date)
	})

	t.Run("completion log goes through the context logger", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)
		_ = items

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return([]export.OrderRow{}, nil)

		core, observed := observer.New(zap.InfoLevel)
		ctx, _ := logger.WithRequestID(context.Background(), zap.New(core), "req-7")

		_, err := svc.ExportOrders(ctx, 12)

		require.NoError(t, err)
		entries := observed.FilterMessage("order export complete").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	})

	t.Run("query failure aborts the export", func(t *testing.T) {
		svc, orders, items, currencies, settings := newOrderExportFixture()
		stubOrderDefaults(currencies, settings)
		_ = items

		orders.On("FindExportable", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		records, err := svc.ExportOrders(context.Background(), 12)

		assert.Error(t, err)
		assert.Nil(t, records)
	})
}

func TestOrderExportService_LoadLineItems(t *testing.T) {
	t.Run("empty id set issues no query", func(t *testing.T) {
		svc, _, items, _, _ := newOrderExportFixture()

		grouped, err := svc.LoadLineItems(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, grouped)
		items.AssertNotCalled(t, "FindByOrderIDs", mock.Anything, mock.Anything)
	})

	t.Run("groups rows by order id preserving row order", func(t *testing.T) {
		svc, _, items, _, _ := newOrderExportFixture()

		items.On("FindByOrderIDs", mock.Anything, []int64{1, 2, 3}).Return([]export.LineItemRow{
			{OrderID: 2, ProductID: 10, Reference: "B-1", Name: "B one", Quantity: 1, Price: decimal.RequireFromString("9")},
			{OrderID: 1, ProductID: 20, Reference: "", AttributeID: 7, Name: "A one", Quantity: 2, Price: decimal.RequireFromString("4")},
			{OrderID: 2, ProductID: 11, Reference: "B-2", Name: "B two", Quantity: 3, Price: decimal.RequireFromString("1")},
		}, nil)

		grouped, err := svc.LoadLineItems(context.Background(), []int64{1, 2, 3})

		require.NoError(t, err)
		require.Len(t, grouped, 2)
		assert.Equal(t, []string{"B-1", "B-2"}, []string{grouped[2][0].SKU, grouped[2][1].SKU})
		assert.Equal(t, "20-7", grouped[1][0].SKU)

		_, ok := grouped[3]
		assert.False(t, ok, "order without items must have no map entry")
	})

	t.Run("duplicate skus within one order are kept", func(t *testing.T) {
		svc, _, items, _, _ := newOrderExportFixture()

		items.On("FindByOrderIDs", mock.Anything, []int64{5}).Return([]export.LineItemRow{
			{OrderID: 5, ProductID: 1, Reference: "SAME", Name: "first", Quantity: 1, Price: decimal.RequireFromString("2")},
			{OrderID: 5, ProductID: 1, Reference: "SAME", Name: "second", Quantity: 2, Price: decimal.RequireFromString("2")},
		}, nil)

		grouped, err := svc.LoadLineItems(context.Background(), []int64{5})

		require.NoError(t, err)
		require.Len(t, grouped[5], 2)
	})
}
