package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/gorm"
)

const (
	catalogKeyAll    = "attributes:all"
	catalogKeyActive = "attributes:active"
	cacheTimeout     = 500 * time.Millisecond
)

// CatalogCache is a JSON document cache. pkg/redis.Cache satisfies it.
type CatalogCache interface {
	GetJSON(ctx context.Context, name string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, name string, value interface{}) error
	Delete(ctx context.Context, names ...string) error
}

type CreateAttributeInput struct {
	Name        string   `json:"name" binding:"required"`
	DisplayName string   `json:"display_name"`
	Values      []string `json:"values"`
}

type CatalogService interface {
	CreateAttribute(input CreateAttributeInput) (*model.Attribute, error)
	ListAttributes(activeOnly bool) ([]model.Attribute, error)
	GetAttribute(id uint) (*model.Attribute, error)
	SetAttributeActive(id uint, active bool) (*model.Attribute, error)
	AddValue(attributeID uint, value string) (*model.AttributeValue, error)
	SetValueActive(valueID uint, active bool) (*model.AttributeValue, error)
}

type catalogService struct {
	attributeRepo repository.AttributeRepository
	cache         CatalogCache
}

// NewCatalogService builds the attribute catalog. cache may be nil.
func NewCatalogService(attributeRepo repository.AttributeRepository, cache CatalogCache) CatalogService {
	return &catalogService{
		attributeRepo: attributeRepo,
		cache:         cache,
	}
}

func (s *catalogService) CreateAttribute(input CreateAttributeInput) (*model.Attribute, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidAttributeInput)
	}

	attribute := &model.Attribute{
		Name:        name,
		DisplayName: strings.TrimSpace(input.DisplayName),
		IsActive:    true,
	}

	seen := make(map[string]struct{}, len(input.Values))
	for _, raw := range input.Values {
		value := strings.TrimSpace(raw)
		if value == "" {
			return nil, fmt.Errorf("%w: empty value", ErrInvalidAttributeInput)
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		attribute.Values = append(attribute.Values, model.AttributeValue{Value: value, IsActive: true})
	}

	if err := s.attributeRepo.Create(attribute); err != nil {
		if translated := translateDBError(err); translated != err {
			logger.Warn("Attribute already exists", map[string]interface{}{
				"name": name,
			})
			return nil, translated
		}
		return nil, err
	}
	s.invalidate()

	logger.Info("Attribute created", map[string]interface{}{
		"attribute_id": attribute.ID,
		"name":         attribute.Name,
		"values":       len(attribute.Values),
	})
	return attribute, nil
}

func (s *catalogService) ListAttributes(activeOnly bool) ([]model.Attribute, error) {
	key := catalogKeyAll
	if activeOnly {
		key = catalogKeyActive
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
		var cached []model.Attribute
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		cancel()
		if err == nil && hit {
			logger.Debug("Attribute catalog served from cache", map[string]interface{}{
				"key":   key,
				"count": len(cached),
			})
			return cached, nil
		}
	}

	attributes, err := s.attributeRepo.FindAll(activeOnly)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
		if err := s.cache.SetJSON(ctx, key, attributes); err != nil {
			logger.Warn("Failed to populate attribute cache", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		cancel()
	}
	return attributes, nil
}

func (s *catalogService) GetAttribute(id uint) (*model.Attribute, error) {
	attribute, err := s.attributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	return attribute, nil
}

// SetAttributeActive toggles an attribute. Existing variants keep their
// assignments; new assignments to an inactive attribute are rejected.
func (s *catalogService) SetAttributeActive(id uint, active bool) (*model.Attribute, error) {
	if err := s.attributeRepo.UpdateActive(id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	s.invalidate()

	logger.Info("Attribute activation changed", map[string]interface{}{
		"attribute_id": id,
		"is_active":    active,
	})
	return s.GetAttribute(id)
}

func (s *catalogService) AddValue(attributeID uint, value string) (*model.AttributeValue, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidAttributeInput)
	}

	if _, err := s.GetAttribute(attributeID); err != nil {
		return nil, err
	}

	attributeValue := &model.AttributeValue{
		AttributeID: attributeID,
		Value:       value,
		IsActive:    true,
	}
	if err := s.attributeRepo.CreateValue(attributeValue); err != nil {
		return nil, translateDBError(err)
	}
	s.invalidate()

	logger.Info("Attribute value added", map[string]interface{}{
		"attribute_id": attributeID,
		"value_id":     attributeValue.ID,
		"value":        value,
	})
	return attributeValue, nil
}

// SetValueActive toggles a value without touching variants that use it.
func (s *catalogService) SetValueActive(valueID uint, active bool) (*model.AttributeValue, error) {
	if err := s.attributeRepo.UpdateValueActive(valueID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeValueNotFound
		}
		return nil, err
	}
	s.invalidate()

	logger.Info("Attribute value activation changed", map[string]interface{}{
		"value_id":  valueID,
		"is_active": active,
	})
	return s.attributeRepo.FindValueByID(valueID)
}

func (s *catalogService) invalidate() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, catalogKeyAll, catalogKeyActive); err != nil {
		logger.Warn("Failed to invalidate attribute cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
