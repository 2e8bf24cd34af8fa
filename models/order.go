package models

import "time"

// Order is a cart summary handed off to the external order channel
type Order struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"sessionId"`
	Summary    OrderSummary `json:"summary"`
	Message    string       `json:"message"`
	HandoffURL string       `json:"handoffUrl,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// CartItemRequest represents the request body for setting a cart quantity
// Example: {"line": "linea-gatos", "qty": 3}
type CartItemRequest struct {
	Line string `json:"line"`
	Qty  *int   `json:"qty"`
}
