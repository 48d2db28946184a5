package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is used when a product is created without an image.
const PlaceholderImage = "/placeholder.png"

// Product is the catalogue entry. A user owns at most one product (unique
// index on user_id); deleting the owner removes the product.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      *uint           `gorm:"uniqueIndex"`
	User        *User           `gorm:"constraint:OnDelete:CASCADE"`
	Desc        *string         `gorm:"size:50"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedTime time.Time       `gorm:"autoCreateTime"` // set once at insert
	Image       string          `gorm:"size:255;not null;default:'/placeholder.png'"`
}
