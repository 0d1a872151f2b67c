package models

import (
	"github.com/shopspring/decimal"
)

// AddOn is a canonical customization definition from the catalog. Scope is
// either a set of specific dishes, a set of categories, or both; see
// EligibleFor for how the two interact.
type AddOn struct {
	ID         string          `gorm:"primaryKey" json:"id"` // uuid
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric" json:"price"`
	Available  bool            `gorm:"default:true" json:"available"`
	Categories []Category      `gorm:"many2many:addon_categories" json:"-"`
	Dishes     []Product       `gorm:"many2many:addon_dishes" json:"-"`
}

// EligibleFor reports whether the add-on may be attached to the product.
// An explicit dish scope wins: when Dishes is non-empty, only membership
// there counts and categories are ignored. With no dish scope, the product's
// category must be in Categories. Both scopes empty means the add-on is
// attachable to nothing and must never be offered.
func (a *AddOn) EligibleFor(p *Product) bool {
	if len(a.Dishes) > 0 {
		for _, d := range a.Dishes {
			if d.ID == p.ID {
				return true
			}
		}
		return false
	}
	for _, c := range a.Categories {
		if c.ID == p.CategoryID {
			return true
		}
	}
	return false
}
