package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovesio/feedexport/internal/domain/export"
	"github.com/ovesio/feedexport/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	// coverImageVariant is the image size variant requested for product covers.
	coverImageVariant = "home_default"

	// pricePrecision is the decimal precision requested from the price
	// calculator for catalog prices.
	pricePrecision = 6
)

// ProductExportService assembles normalized catalog records for the shop,
// language and currency of the calling context.
type ProductExportService struct {
	products   export.ProductSource
	categories export.CategorySource
	settings   export.Settings
	pricing    export.PriceCalculator
	links      export.LinkBuilder
}

// NewProductExportService creates a new ProductExportService.
func NewProductExportService(
	products export.ProductSource,
	categories export.CategorySource,
	settings export.Settings,
	pricing export.PriceCalculator,
	links export.LinkBuilder,
) *ProductExportService {
	return &ProductExportService{
		products:   products,
		categories: categories,
		settings:   settings,
		pricing:    pricing,
		links:      links,
	}
}

// ExportProducts returns one record per active product in the context's
// language/shop combination, deduplicated by SKU. When two rows resolve to
// the same SKU the last-processed row wins while keeping the first row's
// position in the sequence.
func (s *ProductExportService) ExportProducts(ctx context.Context, ec export.ExportContext) ([]export.ProductRecord, error) {
	rootID, err := s.settings.RootCategoryID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load root category id: %w", err)
	}
	homeID, err := s.settings.HomeCategoryID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load home category id: %w", err)
	}
	protocol, err := s.settings.ShopProtocol(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shop protocol: %w", err)
	}

	// Preload the full active category tree once; path resolution below is
	// in-memory only. The resolver is scoped to this call.
	nodes, err := s.categories.FindActive(ctx, ec.LanguageID, ec.ShopID)
	if err != nil {
		return nil, fmt.Errorf("preload categories: %w", err)
	}
	resolver := export.NewPathResolver(nodes, rootID, homeID)

	rows, err := s.products.FindActive(ctx, ec.LanguageID, ec.ShopID)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}

	records := make([]export.ProductRecord, 0, len(rows))
	indexBySKU := make(map[string]int, len(rows))

	for _, row := range rows {
		sku := export.CatalogSKU(row.Reference, row.ProductID)

		price, err := s.pricing.Price(ctx, row.ProductID, true, pricePrecision, ec.DefaultGroupID)
		if err != nil {
			return nil, fmt.Errorf("compute price for product %d: %w", row.ProductID, err)
		}

		description := export.ToPlainText(row.Description)
		if description == "" {
			description = export.ToPlainText(row.DescriptionShort)
		}

		var image *string
		if row.ImageID != nil && *row.ImageID != 0 {
			link := s.links.ImageURL(row.LinkRewrite, *row.ImageID, coverImageVariant)
			if !strings.HasPrefix(link, "http") {
				link = protocol + link
			}
			image = &link
		}

		record := export.ProductRecord{
			SKU:          sku,
			Name:         row.Name,
			Quantity:     row.Quantity,
			Price:        price,
			Currency:     ec.CurrencyCode,
			Availability: export.AvailabilityForQuantity(row.Quantity),
			Description:  description,
			Manufacturer: row.Manufacturer,
			Image:        image,
			URL:          s.links.ProductURL(row.ProductID, row.LinkRewrite, ec.LanguageID, ec.ShopID),
			Category:     resolver.Resolve(row.DefaultCategoryID),
		}

		if i, ok := indexBySKU[sku]; ok {
			records[i] = record
			continue
		}
		indexBySKU[sku] = len(records)
		records = append(records, record)
	}

	logger.FromContext(ctx).Info("product export complete",
		zap.Int("products", len(records)),
		zap.Int("categories", len(nodes)),
		zap.Int64("language_id", ec.LanguageID),
		zap.Int64("shop_id", ec.ShopID))

	return records, nil
}
