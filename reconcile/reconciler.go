// Package reconcile resolves cart-line customizations against the canonical
// add-on catalog before an order may be assembled. Individual customizations
// never fail checkout: unmatched ones degrade, ineligible ones are dropped
// with a warning. Only a cart where no line resolves a product is fatal,
// and that call is made by the assembler, not here.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineflow/ordering-api/catalog"
	"github.com/dineflow/ordering-api/models"
)

// Result is the reconciled order-line view of a cart snapshot. Items holds
// one entry per cart line whose product resolved; lines with unknown
// products are dropped and recorded in Warnings.
type Result struct {
	Items    []models.OrderItem
	Warnings []string
}

// Reconciler maps client-chosen customization identifiers to canonical
// add-on ids and enforces eligibility scoping.
type Reconciler struct {
	menu catalog.MenuCatalog
}

func New(menu catalog.MenuCatalog) *Reconciler {
	return &Reconciler{menu: menu}
}

// Reconcile processes every cart line against the given catalog snapshot.
// The snapshot is fetched once per checkout attempt by the caller; it is
// never re-fetched mid-pipeline.
func (r *Reconciler) Reconcile(ctx context.Context, lines []models.CartLine, addons []models.AddOn) (*Result, error) {
	res := &Result{}
	for _, line := range lines {
		product, err := r.menu.ProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("look up product %d: %w", line.ProductID, err)
		}
		if product == nil {
			res.warnf("line %s: product %d not found, line dropped", line.ID, line.ProductID)
			continue
		}

		item := r.reconcileLine(line, product, addons, res)
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func (r *Reconciler) reconcileLine(line models.CartLine, product *models.Product, addons []models.AddOn, res *Result) models.OrderItem {
	item := models.OrderItem{
		ProductID:   product.ID,
		Name:        product.Name,
		Quantity:    line.Quantity,
		Description: line.ProductDescription,
	}

	// Removals and sizing pass through as annotations; their price deltas
	// stay in the unit price. Chargeable customizations are carried in
	// Adds once verified.
	unit := line.BasePrice
	var notes []string
	for _, opt := range line.SelectedOptions {
		if !opt.Chargeable() {
			unit = unit.Add(opt.Price)
			if opt.Name != "" {
				notes = append(notes, opt.Name)
			}
			continue
		}

		addon, matched := resolve(opt, addons)
		if !matched {
			// Degraded mode: keep the original id rather than blocking
			// checkout, but mark the line so staff can verify by hand.
			res.warnf("line %s: customization %q (%s) not in catalog, passed through unverified",
				line.ID, opt.Name, opt.ID)
			item.Adds = append(item.Adds, models.OrderAdd{
				AddID:    opt.ID,
				Name:     opt.Name,
				Price:    opt.Price,
				Quantity: 1,
			})
			item.UnverifiedAdds = true
			continue
		}

		if !addon.EligibleFor(product) {
			// Never silently charged, never fatal for the rest of the order.
			res.warnf("line %s: add-on %q is not eligible for product %q, dropped",
				line.ID, addon.Name, product.Name)
			continue
		}

		item.Adds = append(item.Adds, models.OrderAdd{
			AddID:    addon.ID,
			Name:     addon.Name,
			Price:    addon.Price,
			Quantity: 1,
		})
	}

	item.UnitPrice = unit
	item.Notes = strings.Join(notes, ", ")
	return item
}

// resolve finds the canonical add-on for a selected option. Ids already in
// canonical (uuid) form are trusted as-is when present in the snapshot;
// only client-local ids fall back to name matching.
func resolve(opt models.SelectedOption, addons []models.AddOn) (*models.AddOn, bool) {
	if _, err := uuid.Parse(opt.ID); err == nil {
		for i := range addons {
			if addons[i].ID == opt.ID {
				return &addons[i], true
			}
		}
		// A canonical-format id missing from the snapshot is stale. Name
		// matching could remap it to a different add-on, so it degrades to
		// unverified pass-through instead.
		return nil, false
	}
	return matchByName(opt.Name, addons)
}

// matchByName is the best-effort fallback: case-insensitive exact match
// first, then substring containment either way. Fuzzy by design; the
// canonical-id path above is always preferred.
func matchByName(name string, addons []models.AddOn) (*models.AddOn, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for i := range addons {
		if strings.ToLower(addons[i].Name) == needle {
			return &addons[i], true
		}
	}
	for i := range addons {
		candidate := strings.ToLower(addons[i].Name)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &addons[i], true
		}
	}
	return nil, false
}

func (res *Result) warnf(format string, args ...any) {
	res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
}

// ItemTotal is the submitted price of one reconciled item:
// (unit price + surviving add-on prices) * quantity. Dropped add-ons are
// gone from Adds and therefore never charged.
func ItemTotal(item models.OrderItem) decimal.Decimal {
	unit := item.UnitPrice
	for _, add := range item.Adds {
		unit = unit.Add(add.Price.Mul(decimal.NewFromInt(int64(add.Quantity))))
	}
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums ItemTotal across the reconciled items.
func (res *Result) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range res.Items {
		total = total.Add(ItemTotal(item))
	}
	return total
}
