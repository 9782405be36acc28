package export

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// LineItemSKU returns the SKU for an order line: the stored product
// reference when present, otherwise the product id, with the variant
// attribute id appended when one is set.
func LineItemSKU(reference string, productID, attributeID int64) string {
	if reference != "" {
		return reference
	}
	sku := strconv.FormatInt(productID, 10)
	if attributeID != 0 {
		sku += "-" + strconv.FormatInt(attributeID, 10)
	}
	return sku
}

// CatalogSKU returns the SKU for a catalog entry: the stored reference when
// present, otherwise the numeric product id. Catalog SKUs never carry an
// attribute suffix.
func CatalogSKU(reference string, productID int64) string {
	if reference != "" {
		return reference
	}
	return strconv.FormatInt(productID, 10)
}

// HashCustomerID pseudonymizes a customer email with a one-way hash. The
// result is stable for a given email and never exposes the raw address.
func HashCustomerID(email string) string {
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}
