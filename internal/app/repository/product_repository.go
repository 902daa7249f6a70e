package repository

import (
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	MarkHasVariants(id uint) error
	DecrementStock(id uint, quantity int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":         product.Name,
		"has_variants": product.HasVariants,
	})

	if err := r.db.Omit("Variants").Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) MarkHasVariants(id uint) error {
	return r.db.Model(&model.Product{}).
		Where("id = ? AND has_variants = ?", id, false).
		Update("has_variants", true).Error
}

// DecrementStock subtracts quantity only when enough stock remains. It
// reports false when the guard rejected the update.
func (r *productRepository) DecrementStock(id uint, quantity int) (bool, error) {
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product stock", result.Error, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return false, result.Error
	}

	logger.Debug("Product stock decrement attempted", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
		"applied":    result.RowsAffected == 1,
	})
	return result.RowsAffected == 1, nil
}
