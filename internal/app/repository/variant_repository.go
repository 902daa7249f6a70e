package repository

import (
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantRepository interface {
	WithTx(tx *gorm.DB) VariantRepository
	Create(variant *model.Variant) error
	FindByID(id uint) (*model.Variant, error)
	FindByProductID(productID uint, activeOnly bool) ([]model.Variant, error)
	FindAll() ([]model.Variant, error)
	ExistsBySKU(sku string, excludeID uint) (bool, error)
	FindCombinations(productID uint, excludeID uint) (map[uint][]model.VariantAttributeAssignment, error)
	Update(variant *model.Variant) error
	ReplaceAssignments(variant *model.Variant, assignments []model.VariantAttributeAssignment) error
	Delete(id uint) error
	DecrementStock(id uint, quantity int) (bool, error)
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *variantRepository) WithTx(tx *gorm.DB) VariantRepository {
	return &variantRepository{db: tx}
}

func (r *variantRepository) preloadVariant() *gorm.DB {
	return r.db.Preload("Assignments", func(db *gorm.DB) *gorm.DB {
		return db.Order("variant_attribute_assignments.attribute_id ASC")
	}).Preload("Assignments.AttributeValue.Attribute")
}

// Create inserts the variant row and then its assignments. Callers run it
// inside a transaction so a failing assignment removes the variant too.
func (r *variantRepository) Create(variant *model.Variant) error {
	logger.Debug("Creating variant in database", map[string]interface{}{
		"product_id":  variant.ProductID,
		"sku":         variant.SKU,
		"assignments": len(variant.Assignments),
	})

	if err := r.db.Omit(clause.Associations).Create(variant).Error; err != nil {
		logger.Error("Failed to create variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"sku":        variant.SKU,
		})
		return err
	}

	if len(variant.Assignments) > 0 {
		for i := range variant.Assignments {
			variant.Assignments[i].VariantID = variant.ID
		}
		if err := r.db.Omit(clause.Associations).Create(&variant.Assignments).Error; err != nil {
			logger.Error("Failed to create variant assignments", err, map[string]interface{}{
				"variant_id": variant.ID,
			})
			return err
		}
	}

	logger.Debug("Variant created in database", map[string]interface{}{
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})
	return nil
}

func (r *variantRepository) FindByID(id uint) (*model.Variant, error) {
	logger.Debug("Finding variant by ID in database", map[string]interface{}{
		"variant_id": id,
	})

	var variant model.Variant
	if err := r.preloadVariant().First(&variant, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find variant by ID in database", err, map[string]interface{}{
				"variant_id": id,
			})
		}
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByProductID(productID uint, activeOnly bool) ([]model.Variant, error) {
	var variants []model.Variant

	query := r.preloadVariant().Where("product_id = ?", productID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("id ASC").Find(&variants).Error; err != nil {
		logger.Error("Failed to find variants by product ID", err, map[string]interface{}{
			"product_id":  productID,
			"active_only": activeOnly,
		})
		return nil, err
	}

	logger.Debug("Variants found by product ID", map[string]interface{}{
		"product_id": productID,
		"count":      len(variants),
	})
	return variants, nil
}

// FindAll loads every variant with its raw assignments, ordered by product.
func (r *variantRepository) FindAll() ([]model.Variant, error) {
	var variants []model.Variant
	if err := r.db.Preload("Assignments").
		Order("product_id ASC, id ASC").
		Find(&variants).Error; err != nil {
		logger.Error("Failed to load all variants", err)
		return nil, err
	}
	return variants, nil
}

// ExistsBySKU checks the whole catalog. excludeID of 0 excludes nothing.
func (r *variantRepository) ExistsBySKU(sku string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Variant{}).Where("sku = ?", sku)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check SKU existence", err, map[string]interface{}{
			"sku": sku,
		})
		return false, err
	}
	return count > 0, nil
}

// FindCombinations returns the assignments of every variant of the product
// keyed by variant id, skipping excludeID. A variant without assignments is
// present with an empty slice.
func (r *variantRepository) FindCombinations(productID uint, excludeID uint) (map[uint][]model.VariantAttributeAssignment, error) {
	type row struct {
		VariantID        uint
		AttributeID      *uint
		AttributeValueID *uint
	}
	var rows []row

	query := r.db.Table("variants").
		Select("variants.id AS variant_id, variant_attribute_assignments.attribute_id, variant_attribute_assignments.attribute_value_id").
		Joins("LEFT JOIN variant_attribute_assignments ON variant_attribute_assignments.variant_id = variants.id").
		Where("variants.product_id = ?", productID)
	if excludeID != 0 {
		query = query.Where("variants.id <> ?", excludeID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		logger.Error("Failed to load variant combinations", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	combos := make(map[uint][]model.VariantAttributeAssignment)
	for _, rw := range rows {
		assignments := combos[rw.VariantID]
		if rw.AttributeValueID != nil && rw.AttributeID != nil {
			assignments = append(assignments, model.VariantAttributeAssignment{
				VariantID:        rw.VariantID,
				AttributeID:      *rw.AttributeID,
				AttributeValueID: *rw.AttributeValueID,
			})
		}
		combos[rw.VariantID] = assignments
	}
	return combos, nil
}

// Update saves scalar columns only; assignments go through ReplaceAssignments.
func (r *variantRepository) Update(variant *model.Variant) error {
	if err := r.db.Omit(clause.Associations).Save(variant).Error; err != nil {
		logger.Error("Failed to update variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	logger.Debug("Variant updated in database", map[string]interface{}{
		"variant_id": variant.ID,
	})
	return nil
}

// ReplaceAssignments deletes the current set and inserts the new one.
func (r *variantRepository) ReplaceAssignments(variant *model.Variant, assignments []model.VariantAttributeAssignment) error {
	if err := r.db.Where("variant_id = ?", variant.ID).
		Delete(&model.VariantAttributeAssignment{}).Error; err != nil {
		logger.Error("Failed to clear variant assignments", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	for i := range assignments {
		assignments[i].ID = 0
		assignments[i].VariantID = variant.ID
	}
	if len(assignments) > 0 {
		if err := r.db.Omit(clause.Associations).Create(&assignments).Error; err != nil {
			logger.Error("Failed to insert variant assignments", err, map[string]interface{}{
				"variant_id": variant.ID,
			})
			return err
		}
	}

	variant.Assignments = assignments
	logger.Debug("Variant assignments replaced", map[string]interface{}{
		"variant_id": variant.ID,
		"count":      len(assignments),
	})
	return nil
}

// Delete hard-deletes the variant and its assignments.
func (r *variantRepository) Delete(id uint) error {
	if err := r.db.Where("variant_id = ?", id).
		Delete(&model.VariantAttributeAssignment{}).Error; err != nil {
		logger.Error("Failed to delete variant assignments", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}

	result := r.db.Delete(&model.Variant{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete variant", result.Error, map[string]interface{}{
			"variant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Variant deleted from database", map[string]interface{}{
		"variant_id": id,
	})
	return nil
}

// DecrementStock subtracts quantity in a single guarded UPDATE. It reports
// false when the row did not have enough stock.
func (r *variantRepository) DecrementStock(id uint, quantity int) (bool, error) {
	result := r.db.Model(&model.Variant{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement variant stock", result.Error, map[string]interface{}{
			"variant_id": id,
			"quantity":   quantity,
		})
		return false, result.Error
	}

	logger.Debug("Variant stock decrement attempted", map[string]interface{}{
		"variant_id": id,
		"quantity":   quantity,
		"applied":    result.RowsAffected == 1,
	})
	return result.RowsAffected == 1, nil
}
