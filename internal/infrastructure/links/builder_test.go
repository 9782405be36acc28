package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShopLinkBuilder_ImageURL(t *testing.T) {
	b := NewShopLinkBuilder("https://", "shop.example.com")

	url := b.ImageURL("running-shoe", 5, "home_default")
	assert.Equal(t, "shop.example.com/5-home_default/running-shoe.jpg", url)
}

func TestShopLinkBuilder_ProductURL(t *testing.T) {
	b := NewShopLinkBuilder("https://", "shop.example.com")

	url := b.ProductURL(42, "running-shoe", 1, 1)
	assert.Equal(t,
		"https://shop.example.com/index.php?controller=product&id_product=42&rewrite=running-shoe&id_lang=1&id_shop=1",
		url)
}

func TestShopLinkBuilder_HTTPProtocol(t *testing.T) {
	b := NewShopLinkBuilder("http://", "shop.example.com")

	url := b.ProductURL(7, "sandal", 2, 3)
	assert.Equal(t,
		"http://shop.example.com/index.php?controller=product&id_product=7&rewrite=sandal&id_lang=2&id_shop=3",
		url)
}
