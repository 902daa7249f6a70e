package service

import (
	"errors"
	"sort"

	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/ikkim/udonggeum-variants/pkg/variant"
	"gorm.io/gorm"
)

// OptionState tells the shopper whether a value can still be picked.
type OptionState struct {
	ValueID        uint   `json:"value_id"`
	Value          string `json:"value"`
	Selectable     bool   `json:"selectable"`
	AvailableStock int    `json:"available_stock"`
}

type AttributeOptions struct {
	AttributeID uint          `json:"attribute_id"`
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Options     []OptionState `json:"options"`
}

type ResolveResult struct {
	Status     variant.Status     `json:"status"`
	Selection  map[string]uint    `json:"selection"`
	Variant    *model.Variant     `json:"variant,omitempty"`
	Attributes []AttributeOptions `json:"attributes"`
}

type SelectorService interface {
	Resolve(productID uint, selection map[string]uint) (*ResolveResult, error)
}

type selectorService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewSelectorService(productRepo repository.ProductRepository, variantRepo repository.VariantRepository) SelectorService {
	return &selectorService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// Resolve evaluates the selection against the product's active variants as
// they are stored right now. Nothing is kept between calls.
func (s *selectorService) Resolve(productID uint, selection map[string]uint) (*ResolveResult, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variants, err := s.variantRepo.FindByProductID(productID, true)
	if err != nil {
		return nil, err
	}

	options := make([]variant.Option, 0, len(variants))
	byID := make(map[uint]*model.Variant, len(variants))
	attributes := make(map[string]*AttributeOptions)
	seenValues := make(map[uint]bool)

	for i := range variants {
		v := &variants[i]
		byID[v.ID] = v

		opt := variant.Option{
			ID:         v.ID,
			Active:     v.IsActive,
			Stock:      v.StockQuantity,
			Attributes: make(map[string]uint, len(v.Assignments)),
		}
		for _, a := range v.Assignments {
			if a.AttributeValue == nil || a.AttributeValue.Attribute == nil {
				continue
			}
			attr := a.AttributeValue.Attribute
			opt.Attributes[attr.Name] = a.AttributeValueID

			group, ok := attributes[attr.Name]
			if !ok {
				group = &AttributeOptions{AttributeID: attr.ID, Name: attr.Name, Label: attr.Label()}
				attributes[attr.Name] = group
			}
			if !seenValues[a.AttributeValueID] {
				seenValues[a.AttributeValueID] = true
				group.Options = append(group.Options, OptionState{ValueID: a.AttributeValueID, Value: a.AttributeValue.Value})
			}
		}
		options = append(options, opt)
	}

	selector := variant.NewSelector(options)
	for name, valueID := range selection {
		selector.Select(name, valueID)
	}

	result := &ResolveResult{Selection: selector.Selection()}
	for _, name := range selector.AttributeNames() {
		group := attributes[name]
		sort.Slice(group.Options, func(i, j int) bool { return group.Options[i].ValueID < group.Options[j].ValueID })
		for i := range group.Options {
			opt := &group.Options[i]
			opt.Selectable = selector.IsSelectable(name, opt.ValueID)
			opt.AvailableStock = selector.AvailableStock(name, opt.ValueID)
		}
		result.Attributes = append(result.Attributes, *group)
	}

	resolution, err := selector.Resolve()
	if err != nil {
		logger.Error("Selection matched more than one variant", err, map[string]interface{}{
			"product_id": productID,
			"selection":  selection,
		})
		return nil, err
	}

	result.Status = resolution.Status
	switch resolution.Status {
	case variant.StatusResolved:
		result.Variant = byID[resolution.OptionID]
	case variant.StatusNoMatch:
		if len(selection) > 0 {
			logger.Warn("Complete selection matched no variant", map[string]interface{}{
				"product_id": productID,
				"selection":  selection,
			})
		}
	}

	logger.Debug("Selection resolved", map[string]interface{}{
		"product_id": productID,
		"status":     result.Status,
	})
	return result, nil
}
