package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"catalogo-millex/models"
)

// Cart maps product codes to order lines for a single session.
// Every stored line has a positive quantity. Cart is not safe for concurrent
// use; the owning session serializes access.
type Cart struct {
	lines map[string]models.CartLine
}

// New creates an empty cart
func New() *Cart {
	return &Cart{lines: make(map[string]models.CartLine)}
}

// SetQuantity sets the quantity for code.
// qty <= 0 removes the line. qty > 0 upserts it, copying description, unit
// price and source line from snap. Setting the stored quantity again is a
// no-op and keeps the original snapshot.
// Returns true when the cart changed.
func (c *Cart) SetQuantity(code string, snap models.LineSnapshot, qty int) bool {
	current, exists := c.lines[code]
	if qty <= 0 {
		if !exists {
			return false
		}
		delete(c.lines, code)
		return true
	}
	if exists && current.Quantity == qty {
		return false
	}
	c.lines[code] = models.CartLine{
		Code:        code,
		Description: snap.Description,
		UnitPrice:   snap.UnitPrice,
		Quantity:    qty,
		SourceLine:  snap.SourceLine,
	}
	return true
}

// Remove deletes the line for code. Returns true if a line was removed.
func (c *Cart) Remove(code string) bool {
	return c.SetQuantity(code, models.LineSnapshot{}, 0)
}

// Quantity returns the stored quantity for code, 0 if absent
func (c *Cart) Quantity(code string) int {
	return c.lines[code].Quantity
}

// Line returns the line stored for code
func (c *Cart) Line(code string) (models.CartLine, bool) {
	line, ok := c.lines[code]
	return line, ok
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the sum of quantities across all lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Total returns sum(unitPrice * quantity)
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(subtotal(line))
	}
	return total
}

// Clear removes every line and returns the codes that were cleared, sorted.
// Callers use the codes to reset any quantity widgets bound to them.
func (c *Cart) Clear() []string {
	codes := c.codes()
	c.lines = make(map[string]models.CartLine)
	return codes
}

// Summarize returns the lines ordered by code with subtotals and grand total
func (c *Cart) Summarize() models.OrderSummary {
	summary := models.OrderSummary{
		Lines: make([]models.SummaryLine, 0, len(c.lines)),
		Total: decimal.Zero,
	}
	for _, code := range c.codes() {
		line := c.lines[code]
		sub := subtotal(line)
		summary.Lines = append(summary.Lines, models.SummaryLine{
			Code:        line.Code,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    sub,
			SourceLine:  line.SourceLine,
		})
		summary.Total = summary.Total.Add(sub)
		summary.ItemCount += line.Quantity
	}
	return summary
}

func (c *Cart) codes() []string {
	codes := make([]string, 0, len(c.lines))
	for code := range c.lines {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func subtotal(line models.CartLine) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}
