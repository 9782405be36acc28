package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovesio/feedexport/internal/domain/export"
	applogger "github.com/ovesio/feedexport/internal/infrastructure/logger"
	"github.com/ovesio/feedexport/internal/interfaces/http/middleware"
)

// OrderExporter produces normalized order records for a trailing time window
type OrderExporter interface {
	ExportOrders(ctx context.Context, durationMonths int) ([]export.OrderRecord, error)
}

// ProductExporter produces normalized catalog records for an export context
type ProductExporter interface {
	ExportProducts(ctx context.Context, ec export.ExportContext) ([]export.ProductRecord, error)
}

// ExportHandler exposes the order and product feeds over HTTP
type ExportHandler struct {
	BaseHandler
	orders   OrderExporter
	products ProductExporter
	defaults export.ExportContext
}

// NewExportHandler creates a new ExportHandler. The defaults context is used
// for every request parameter the caller does not override.
func NewExportHandler(orders OrderExporter, products ProductExporter, defaults export.ExportContext) *ExportHandler {
	return &ExportHandler{
		orders:   orders,
		products: products,
		defaults: defaults,
	}
}

// RegisterRoutes registers the export routes
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/export")
	group.GET("/orders", h.GetOrders)
	group.GET("/products", h.GetProducts)
}

// Non-positive months values are accepted; the exporter substitutes its
// default window for them.
type ordersRequest struct {
	Months int `form:"months" json:"months"`
}

type productsRequest struct {
	Lang     int64  `form:"lang" json:"lang" binding:"omitempty,min=1"`
	Shop     int64  `form:"shop" json:"shop" binding:"omitempty,min=1"`
	Currency string `form:"currency" json:"currency" binding:"omitempty,iso4217"`
	Group    int64  `form:"group" json:"group" binding:"omitempty,min=1"`
}

// GetOrders returns the order feed for the trailing months window
func (h *ExportHandler) GetOrders(c *gin.Context) {
	var req ordersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	records, err := h.orders.ExportOrders(c.Request.Context(), req.Months)
	if err != nil {
		applogger.GetGinLogger(c).Error("order export failed", zap.Error(err))
		h.ExportError(c, "order export failed")
		return
	}

	h.List(c, records, len(records))
}

// GetProducts returns the catalog feed for the requested shop scope
func (h *ExportHandler) GetProducts(c *gin.Context) {
	var req productsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ec := h.defaults
	if req.Lang != 0 {
		ec.LanguageID = req.Lang
	}
	if req.Shop != 0 {
		ec.ShopID = req.Shop
	}
	if req.Currency != "" {
		ec.CurrencyCode = req.Currency
	}
	if req.Group != 0 {
		ec.DefaultGroupID = req.Group
	}

	records, err := h.products.ExportProducts(c.Request.Context(), ec)
	if err != nil {
		applogger.GetGinLogger(c).Error("product export failed", zap.Error(err))
		h.ExportError(c, "product export failed")
		return
	}

	h.List(c, records, len(records))
}
