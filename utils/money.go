package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// priceNoise lists characters removed from spreadsheet price cells before parsing
var priceNoise = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// ParsePrice parses a spreadsheet price cell such as "$1,234.50".
// Empty, unparseable or negative values yield zero; a bad price never aborts ingestion.
func ParsePrice(raw string) decimal.Decimal {
	cleaned := priceNoise.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// FormatMoney formats an amount as a string like "$12,500.00".
// Uses comma as thousands separator and dot for decimals.
func FormatMoney(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, fracPart := fixed, ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, fracPart = fixed[:dot], fixed[dot:]
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $
	b.Grow(len(fixed) + len(intPart)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)

	return b.String()
}
