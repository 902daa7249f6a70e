package repository

import (
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(order *model.Order) error
	CountItemsByVariantID(variantID uint) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount.String(),
		"items":        len(order.OrderItems),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"total_amount": order.TotalAmount.String(),
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

// CountItemsByVariantID counts historical order lines for a variant,
// including lines of soft-deleted orders.
func (r *orderRepository) CountItemsByVariantID(variantID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.OrderItem{}).
		Where("variant_id = ?", variantID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count order items for variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return 0, err
	}
	return count, nil
}
