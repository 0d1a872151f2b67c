// Package pricing holds the pure money math shared by the cart store and the
// checkout assembler. All arithmetic is exact decimal; rounding happens only
// at display or submission, never on intermediate values.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dineflow/ordering-api/models"
)

// LineTotal computes (basePrice + sum of option prices) * quantity.
// Option prices may be negative (removal discounts).
func LineTotal(basePrice decimal.Decimal, options []models.SelectedOption, quantity int) decimal.Decimal {
	unit := basePrice
	for _, opt := range options {
		unit = unit.Add(opt.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums the derived totals of the given lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalPrice)
	}
	return total
}

// ItemCount sums line quantities.
func ItemCount(lines []models.CartLine) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}
