package models

import "time"

type User struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"unique;not null" json:"email"`
	Phone     string  `json:"phone"`
	Name      string  `json:"name"`
	Address   Address `gorm:"embedded" json:"address"`
	CreatedAt time.Time
}

// Address is a delivery destination, embedded in User and Order rows and
// stored as saved-address lists in the key-value store.
type Address struct {
	Label      string `json:"label,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone,omitempty"`
}

// Complete reports whether the address can actually be delivered to.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.PostalCode != ""
}

// SavedCard is a stored payment method. Only the masked tail of the number
// is ever kept; full card details never touch persistence.
type SavedCard struct {
	ID     string `json:"id"`
	Holder string `json:"holder"`
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"` // MM/YY
}
