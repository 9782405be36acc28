package export

// ExportContext carries the shop scope a product export runs under. It is
// passed explicitly by the caller instead of being read from ambient state.
type ExportContext struct {
	LanguageID     int64
	ShopID         int64
	CurrencyCode   string
	DefaultGroupID int64
}
