package models

import "github.com/shopspring/decimal"

// CartLine is a single product entry in a session cart.
// Description and UnitPrice are copied when the line is written and are not
// refreshed from later catalog loads.
type CartLine struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	SourceLine  string          `json:"sourceLine"`
}

// LineSnapshot carries the product data copied into a cart line
type LineSnapshot struct {
	Description string
	UnitPrice   decimal.Decimal
	SourceLine  string
}

// SummaryLine is one row of an order summary
type SummaryLine struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	SourceLine  string          `json:"sourceLine"`
}

// OrderSummary is the cart rendered for display or handoff.
// Example response:
// {
//   "lines": [
//     {"code": "GAT-01", "description": "Comida para Gatos", "quantity": 2,
//      "unitPrice": "10", "subtotal": "20", "sourceLine": "linea-gatos"}
//   ],
//   "total": "20",
//   "itemCount": 2
// }
type OrderSummary struct {
	Lines     []SummaryLine   `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}
