package adapters

import (
	"regexp"
	"strings"

	"github.com/bigtree-pos/till/internal/domain/money"
)

// unknownItemName is the fallback when no line of the recognized text can
// serve as an item name.
const unknownItemName = "Unknown item"

// pricePattern matches a decimal amount with an optional currency prefix,
// e.g. "R 15.50", "ZAR15,50", "$3.99" or a bare "15.50". Comma is accepted
// as the decimal separator on printed tags.
var pricePattern = regexp.MustCompile(`(?:R|ZAR|\$)?\s*(\d+(?:[.,]\d{1,2})?)`)

// digitPattern rejects candidate name lines that contain digits; those are
// usually prices, quantities, or barcodes.
var digitPattern = regexp.MustCompile(`\d`)

// ExtractFromText pulls a best-effort item from OCR output: the price is the
// first currency-prefixed decimal found, the name is the first line without a
// digit. Either half may be missing; the extraction never fails outright, it
// only degrades toward manual entry.
func ExtractFromText(text string) Prefill {
	prefill := Prefill{Name: unknownItemName}

	if match := pricePattern.FindStringSubmatch(text); match != nil {
		normalized := strings.ReplaceAll(match[1], ",", ".")
		if price, err := money.Parse(normalized); err == nil {
			prefill.Price = &price
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || digitPattern.MatchString(line) {
			continue
		}
		prefill.Name = line
		break
	}

	return prefill
}
