package links

import "fmt"

// ShopLinkBuilder builds storefront URLs the way the shop front office
// exposes them. Image links come back without a scheme, matching how the
// store keeps them; the export layer prepends the shop protocol.
type ShopLinkBuilder struct {
	protocol string
	host     string
}

// NewShopLinkBuilder creates a builder for the given protocol ("http://" or
// "https://") and shop host.
func NewShopLinkBuilder(protocol, host string) *ShopLinkBuilder {
	return &ShopLinkBuilder{protocol: protocol, host: host}
}

// ImageURL returns the scheme-less link to a product image in the given
// variant, e.g. "shop.example.com/5-home_default/running-shoe.jpg".
func (b *ShopLinkBuilder) ImageURL(slug string, imageID int64, variant string) string {
	return fmt.Sprintf("%s/%d-%s/%s.jpg", b.host, imageID, variant, slug)
}

// ProductURL returns the absolute front-office link to a product page.
func (b *ShopLinkBuilder) ProductURL(productID int64, slug string, languageID, shopID int64) string {
	return fmt.Sprintf("%s%s/index.php?controller=product&id_product=%d&rewrite=%s&id_lang=%d&id_shop=%d",
		b.protocol, b.host, productID, slug, languageID, shopID)
}
