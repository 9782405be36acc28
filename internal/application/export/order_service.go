package export

import (
	"context"
	"fmt"
	"time"

	"github.com/ovesio/feedexport/internal/domain/export"
	"github.com/ovesio/feedexport/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultDurationMonths is the trailing order window applied when the caller
// does not supply a positive one.
const DefaultDurationMonths = 12

// orderDateLayout renders order creation timestamps the way the store keeps
// them, without timezone conversion.
const orderDateLayout = "2006-01-02 15:04:05"

// OrderExportService assembles normalized order records for a trailing time
// window. All monetary amounts are converted to the store's default currency.
type OrderExportService struct {
	orders     export.OrderSource
	items      export.LineItemSource
	currencies export.CurrencySource
	settings   export.Settings
}

// NewOrderExportService creates a new OrderExportService.
func NewOrderExportService(
	orders export.OrderSource,
	items export.LineItemSource,
	currencies export.CurrencySource,
	settings export.Settings,
) *OrderExportService {
	return &OrderExportService{
		orders:     orders,
		items:      items,
		currencies: currencies,
		settings:   settings,
	}
}

// ExportOrders returns one record per qualifying order of the trailing
// durationMonths window, ascending by order id. Non-positive durations fall
// back to DefaultDurationMonths.
func (s *OrderExportService) ExportOrders(ctx context.Context, durationMonths int) ([]export.OrderRecord, error) {
	if durationMonths <= 0 {
		durationMonths = DefaultDurationMonths
	}
	since := time.Now().AddDate(0, -durationMonths, 0)

	defaultCurrencyID, err := s.settings.DefaultCurrencyID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load default currency id: %w", err)
	}
	currencyISO, err := s.currencies.ISOCode(ctx, defaultCurrencyID)
	if err != nil {
		return nil, fmt.Errorf("resolve default currency: %w", err)
	}

	stateIDs, err := s.settings.ExportableOrderStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exportable order states: %w", err)
	}

	rows, err := s.orders.FindExportable(ctx, since, stateIDs)
	if err != nil {
		return nil, fmt.Errorf("query exportable orders: %w", err)
	}

	records := make([]export.OrderRecord, 0, len(rows))
	if len(rows) == 0 {
		return records, nil
	}

	orderIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.OrderID)
	}
	itemsByOrder, err := s.LoadLineItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		// An order placed in a foreign currency carries the rate that
		// converted the default currency into it; dividing converts back.
		// A non-positive rate means broken data, amounts pass unchanged.
		convert := row.CurrencyID != defaultCurrencyID && row.ConversionRate.IsPositive()

		total := row.Total
		if convert {
			total = total.Div(row.ConversionRate)
		}

		products := itemsByOrder[row.OrderID]
		if convert {
			for i := range products {
				products[i].Price = products[i].Price.Div(row.ConversionRate)
			}
		}
		if products == nil {
			products = []export.LineItem{}
		}

		records = append(records, export.OrderRecord{
			OrderID:    row.OrderID,
			CustomerID: export.HashCustomerID(row.Email),
			Total:      total,
			Currency:   currencyISO,
			Date:       row.Date.Format(orderDateLayout),
			Products:   products,
		})
	}

	logger.FromContext(ctx).Info("order export complete",
		zap.Int("orders", len(records)),
		zap.String("since", since.Format("2006-01-02")),
		zap.String("currency", currencyISO))

	return records, nil
}

// LoadLineItems fetches the line items for every given order id in a single
// query and groups them by order id, preserving query row order. An empty id
// set issues no query. Orders without line items get no map entry.
func (s *OrderExportService) LoadLineItems(ctx context.Context, orderIDs []int64) (map[int64][]export.LineItem, error) {
	grouped := make(map[int64][]export.LineItem)
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	rows, err := s.items.FindByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order line items: %w", err)
	}

	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], export.LineItem{
			SKU:      export.LineItemSKU(row.Reference, row.ProductID, row.AttributeID),
			Name:     row.Name,
			Quantity: row.Quantity,
			Price:    row.Price,
		})
	}
	return grouped, nil
}
