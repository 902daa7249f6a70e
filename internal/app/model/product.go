package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the parent of its variants. When HasVariants is false the
// product itself is the sellable unit and Price/StockQuantity apply.
type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	HasVariants   bool            `gorm:"not null" json:"has_variants"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`        // HasVariants 이면 무시
	StockQuantity int             `gorm:"not null" json:"stock_quantity"`                  // HasVariants 이면 무시
	IsActive      bool            `gorm:"not null" json:"is_active"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
