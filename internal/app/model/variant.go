package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is one sellable unit of a product.
//
// CombinationKey holds the sorted attribute value ids ("3,8,12"), or "" for a
// variant without assignments. Together with ProductID it is unique, so the
// database rejects duplicate combinations, the empty one included, even when
// two writers race past the service checks.
type Variant struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	ProductID      uint            `gorm:"not null;index;uniqueIndex:idx_variants_product_combination" json:"product_id"`
	SKU            string          `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	StockQuantity  int             `gorm:"not null" json:"stock_quantity"`
	IsActive       bool            `gorm:"not null;index" json:"is_active"`
	VariantName    string          `gorm:"type:varchar(100)" json:"variant_name"`
	Color          string          `gorm:"type:varchar(50)" json:"color"`
	Size           string          `gorm:"type:varchar(50)" json:"size"`
	ImageURL       string          `json:"image_url"`
	CombinationKey string          `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_variants_product_combination" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Product     *Product                     `gorm:"foreignKey:ProductID" json:"-"`
	Assignments []VariantAttributeAssignment `gorm:"foreignKey:VariantID" json:"attributes"`
}

func (Variant) TableName() string {
	return "variants"
}

// ValueIDs lists the assigned attribute value ids.
func (v Variant) ValueIDs() []uint {
	ids := make([]uint, 0, len(v.Assignments))
	for _, a := range v.Assignments {
		ids = append(ids, a.AttributeValueID)
	}
	return ids
}

// VariantAttributeAssignment links a variant to one attribute value.
// AttributeID is copied from the value so (variant_id, attribute_id) can be
// unique: a variant never carries two values of one attribute.
type VariantAttributeAssignment struct {
	ID               uint `gorm:"primarykey" json:"id"`
	VariantID        uint `gorm:"not null;uniqueIndex:idx_assignments_variant_attribute" json:"variant_id"`
	AttributeID      uint `gorm:"not null;uniqueIndex:idx_assignments_variant_attribute" json:"attribute_id"`
	AttributeValueID uint `gorm:"not null;index" json:"attribute_value_id"`

	AttributeValue *AttributeValue `gorm:"foreignKey:AttributeValueID" json:"attribute_value,omitempty"`
}

func (VariantAttributeAssignment) TableName() string {
	return "variant_attribute_assignments"
}
