package adapters

import "strings"

// barcodeNamePrefix marks a name that came from a barcode scan rather than
// manual entry or a price-tag scan.
const barcodeNamePrefix = "Barcode: "

// NormalizeBarcode maps a decoded barcode to a name-field prefill. Barcodes
// carry no price information, so the price is always entered manually.
func NormalizeBarcode(code string) Prefill {
	return Prefill{Name: barcodeNamePrefix + strings.TrimSpace(code)}
}
