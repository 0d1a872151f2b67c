package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is one orderable dish on the menu.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:numeric;not null" json:"base_price"`
	ImageURL    string          `json:"image_url,omitempty"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Category    Category        `json:"-"`
	Available   bool            `gorm:"default:true" json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Image    string    `json:"image,omitempty"`
	Products []Product `json:"products,omitempty"`
}
