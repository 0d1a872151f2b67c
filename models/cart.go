package models

import (
	"github.com/shopspring/decimal"
)

// OptionKind classifies a selected customization. Removals and sizing carry
// zero or negative prices and never hit the add-on catalog; addons/extras are
// chargeable and must be reconciled before submission.
type OptionKind string

const (
	OptionKindAddon   OptionKind = "addon"
	OptionKindExtra   OptionKind = "extra"
	OptionKindSize    OptionKind = "size"
	OptionKindRemoval OptionKind = "removal"
)

// SelectedOption is one customization chosen for a cart line. ID may be a
// client-local identifier; reconciliation maps it to the canonical add-on id
// at checkout. A negative price models a discount ("no chicken").
type SelectedOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Kind  OptionKind      `json:"kind,omitempty"`
}

// Chargeable reports whether the option must be reconciled against the
// catalog. Untyped options are classified by price sign.
func (o SelectedOption) Chargeable() bool {
	switch o.Kind {
	case OptionKindAddon, OptionKindExtra:
		return true
	case OptionKindSize, OptionKindRemoval:
		return false
	}
	return o.Price.IsPositive()
}

// CartLine is one entry in a customer's cart. Two identical additions yield
// two distinct lines; lines are never merged. TotalPrice is derived and is
// recomputed by the cart store on every mutation, never set by hand.
type CartLine struct {
	ID                 string           `json:"id"`
	ProductID          uint             `json:"product_id"`
	ProductName        string           `json:"product_name"`
	ProductDescription string           `json:"product_description"`
	BasePrice          decimal.Decimal  `json:"base_price"`
	ImageURL           string           `json:"image_url,omitempty"`
	SelectedOptions    []SelectedOption `json:"selected_options"`
	Quantity           int              `json:"quantity"`
	TotalPrice         decimal.Decimal  `json:"total_price"`
}

// CartSnapshot is a consistent view of the cart published to subscribers
// after every mutation.
type CartSnapshot struct {
	Lines      []CartLine      `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
