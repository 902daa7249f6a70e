package model

import "time"

// Attribute is a dimension of variation, e.g. "Color".
type Attribute struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 내부 이름 (예: "Size")
	DisplayName string    `gorm:"type:varchar(100)" json:"display_name"`              // 화면 표시명
	IsActive    bool      `gorm:"not null" json:"is_active"`                          // 비활성 시 조합 생성 대상에서 제외
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Values []AttributeValue `gorm:"foreignKey:AttributeID" json:"values,omitempty"`
}

func (Attribute) TableName() string {
	return "attributes"
}

// Label prefers the display name.
func (a Attribute) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// AttributeValue is one concrete value of an attribute, e.g. "Red".
type AttributeValue struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AttributeID uint      `gorm:"not null;uniqueIndex:idx_attribute_values_attribute_value" json:"attribute_id"`
	Value       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_values_attribute_value" json:"value"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

func (AttributeValue) TableName() string {
	return "attribute_values"
}
