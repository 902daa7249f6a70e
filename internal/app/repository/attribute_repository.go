package repository

import (
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/gorm"
)

type AttributeRepository interface {
	Create(attribute *model.Attribute) error
	FindAll(activeOnly bool) ([]model.Attribute, error)
	FindByID(id uint) (*model.Attribute, error)
	UpdateActive(id uint, active bool) error
	CreateValue(value *model.AttributeValue) error
	FindValueByID(id uint) (*model.AttributeValue, error)
	FindValuesByIDs(ids []uint) ([]model.AttributeValue, error)
	FindValue(attributeName, value string) (*model.AttributeValue, error)
	UpdateValueActive(id uint, active bool) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) Create(attribute *model.Attribute) error {
	logger.Debug("Creating attribute in database", map[string]interface{}{
		"name": attribute.Name,
	})

	if err := r.db.Create(attribute).Error; err != nil {
		logger.Error("Failed to create attribute in database", err, map[string]interface{}{
			"name": attribute.Name,
		})
		return err
	}

	logger.Debug("Attribute created in database", map[string]interface{}{
		"attribute_id": attribute.ID,
		"values":       len(attribute.Values),
	})
	return nil
}

func (r *attributeRepository) FindAll(activeOnly bool) ([]model.Attribute, error) {
	var attributes []model.Attribute

	query := r.db.Order("attributes.id ASC").
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("attribute_values.id ASC")
		})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&attributes).Error; err != nil {
		logger.Error("Failed to list attributes", err, map[string]interface{}{
			"active_only": activeOnly,
		})
		return nil, err
	}

	logger.Debug("Attributes listed", map[string]interface{}{
		"count":       len(attributes),
		"active_only": activeOnly,
	})
	return attributes, nil
}

func (r *attributeRepository) FindByID(id uint) (*model.Attribute, error) {
	var attribute model.Attribute
	if err := r.db.Preload("Values").First(&attribute, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find attribute by ID", err, map[string]interface{}{
				"attribute_id": id,
			})
		}
		return nil, err
	}
	return &attribute, nil
}

func (r *attributeRepository) UpdateActive(id uint, active bool) error {
	result := r.db.Model(&model.Attribute{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to update attribute activation", result.Error, map[string]interface{}{
			"attribute_id": id,
			"is_active":    active,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Attribute activation updated", map[string]interface{}{
		"attribute_id": id,
		"is_active":    active,
	})
	return nil
}

func (r *attributeRepository) CreateValue(value *model.AttributeValue) error {
	logger.Debug("Creating attribute value in database", map[string]interface{}{
		"attribute_id": value.AttributeID,
		"value":        value.Value,
	})

	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create attribute value", err, map[string]interface{}{
			"attribute_id": value.AttributeID,
			"value":        value.Value,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindValueByID(id uint) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := r.db.Preload("Attribute").First(&value, id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

// FindValuesByIDs returns the values that exist; missing ids are simply absent.
func (r *attributeRepository) FindValuesByIDs(ids []uint) ([]model.AttributeValue, error) {
	var values []model.AttributeValue
	if len(ids) == 0 {
		return values, nil
	}

	if err := r.db.Preload("Attribute").Where("id IN ?", ids).Find(&values).Error; err != nil {
		logger.Error("Failed to find attribute values", err, map[string]interface{}{
			"value_ids": ids,
		})
		return nil, err
	}

	logger.Debug("Attribute values loaded", map[string]interface{}{
		"requested": len(ids),
		"found":     len(values),
	})
	return values, nil
}

// FindValue looks a value up by attribute name and value text (case sensitive).
func (r *attributeRepository) FindValue(attributeName, value string) (*model.AttributeValue, error) {
	var found model.AttributeValue
	err := r.db.Preload("Attribute").
		Joins("JOIN attributes ON attributes.id = attribute_values.attribute_id").
		Where("attributes.name = ? AND attribute_values.value = ?", attributeName, value).
		First(&found).Error
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *attributeRepository) UpdateValueActive(id uint, active bool) error {
	result := r.db.Model(&model.AttributeValue{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to update attribute value activation", result.Error, map[string]interface{}{
			"value_id":  id,
			"is_active": active,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
