package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string // 주문 상태 코드

const (
	OrderStatusPending   OrderStatus = "pending"   // 주문 접수
	OrderStatusConfirmed OrderStatus = "confirmed" // 주문 확정
	OrderStatusCancelled OrderStatus = "cancelled" // 주문 취소
)

// Order is the minimal record the purchase path writes; payment and
// fulfilment live outside this service.
type Order struct {
	ID          uint            `gorm:"primarykey" json:"id"`                             // 주문 ID
	UserID      uint            `gorm:"not null;index" json:"user_id"`                    // 주문자 ID
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`  // 총 결제 금액
	Status      OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"` // 주문 상태
	CreatedAt   time.Time       `json:"created_at"`                                       // 생성 시각
	UpdatedAt   time.Time       `json:"updated_at"`                                       // 수정 시각
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`                                   // 삭제 시각(소프트 삭제)

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"` // 주문 항목 목록
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a historical order line. A variant referenced here can no
// longer be deleted.
type OrderItem struct {
	ID          uint            `gorm:"primarykey" json:"id"`                          // 주문 항목 ID
	OrderID     uint            `gorm:"not null;index" json:"order_id"`                // 주문 ID
	ProductID   uint            `gorm:"not null;index" json:"product_id"`              // 상품 ID
	VariantID   *uint           `gorm:"index" json:"variant_id,omitempty"`             // 선택 변형 ID
	Quantity    int             `gorm:"not null" json:"quantity"`                      // 수량
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"` // 단가 (저장된 가격)
	SKUSnapshot string          `gorm:"type:varchar(64)" json:"sku_snapshot"`          // 주문 시점 SKU
	CreatedAt   time.Time       `json:"created_at"`                                    // 생성 시각

	Order Order `gorm:"foreignKey:OrderID" json:"-"` // 주문 정보
}

func (OrderItem) TableName() string {
	return "order_items"
}
