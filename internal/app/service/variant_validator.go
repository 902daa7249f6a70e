package service

import (
	"fmt"

	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/ikkim/udonggeum-variants/pkg/variant"
)

// variantValidator enforces, in order: one value per attribute, one attribute
// set and unique combinations within the product, and a catalog-wide unique SKU.
// Every check runs before the first write.
type variantValidator struct {
	attributeRepo repository.AttributeRepository
}

func newVariantValidator(attributeRepo repository.AttributeRepository) *variantValidator {
	return &variantValidator{attributeRepo: attributeRepo}
}

// resolveValues loads the referenced values and rejects unknown or inactive
// ones. The returned slice follows the order of ids.
func (v *variantValidator) resolveValues(ids []uint) ([]model.AttributeValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := v.attributeRepo.FindValuesByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.AttributeValue, len(found))
	for _, value := range found {
		byID[value.ID] = value
	}

	values := make([]model.AttributeValue, 0, len(ids))
	for _, id := range ids {
		value, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrAttributeValueNotFound, id)
		}
		if !value.IsActive || (value.Attribute != nil && !value.Attribute.IsActive) {
			return nil, fmt.Errorf("%w: %s", ErrInactiveAttributeValue, value.Value)
		}
		values = append(values, value)
	}
	return values, nil
}

// checkExclusivity rejects two values of one attribute.
func (v *variantValidator) checkExclusivity(values []model.AttributeValue) error {
	attributeIDs := make([]uint, len(values))
	for i, value := range values {
		attributeIDs[i] = value.AttributeID
	}
	if dups := variant.DuplicateAttributes(attributeIDs); len(dups) > 0 {
		return fmt.Errorf("%w: attribute %d", ErrDuplicateAttribute, dups[0])
	}
	return nil
}

// checkCombination compares the new assignment set against every other
// variant of the product. Siblings must carry values for the same attributes,
// and the empty set is a combination like any other: a product holds at most
// one variant without assignments.
func (v *variantValidator) checkCombination(variants repository.VariantRepository, productID uint, values []model.AttributeValue, excludeID uint) error {
	key := variant.Key(valueIDs(values))
	attributes := variant.Key(attributeIDs(values))

	existing, err := variants.FindCombinations(productID, excludeID)
	if err != nil {
		return err
	}
	for variantID, assignments := range existing {
		ids := make([]uint, len(assignments))
		siblingAttributes := make([]uint, len(assignments))
		for i, a := range assignments {
			ids[i] = a.AttributeValueID
			siblingAttributes[i] = a.AttributeID
		}

		if want := variant.Key(siblingAttributes); want != attributes {
			logger.Warn("Variant attribute set mismatch rejected", map[string]interface{}{
				"product_id":       productID,
				"attributes":       attributes,
				"expected":         want,
				"existing_variant": variantID,
			})
			return fmt.Errorf("%w: expected attributes [%s], got [%s]", ErrAttributeSetMismatch, want, attributes)
		}
		if variant.Key(ids) == key {
			logger.Warn("Duplicate variant combination rejected", map[string]interface{}{
				"product_id":       productID,
				"combination":      key,
				"existing_variant": variantID,
			})
			return ErrDuplicateCombination
		}
	}
	return nil
}

func (v *variantValidator) checkSKU(variants repository.VariantRepository, sku string, excludeID uint) error {
	exists, err := variants.ExistsBySKU(sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		logger.Warn("Duplicate SKU rejected", map[string]interface{}{
			"sku": sku,
		})
		return ErrDuplicateSKU
	}
	return nil
}

func toAssignments(values []model.AttributeValue) []model.VariantAttributeAssignment {
	assignments := make([]model.VariantAttributeAssignment, len(values))
	for i, value := range values {
		assignments[i] = model.VariantAttributeAssignment{
			AttributeID:      value.AttributeID,
			AttributeValueID: value.ID,
		}
	}
	return assignments
}

func valueIDs(values []model.AttributeValue) []uint {
	ids := make([]uint, len(values))
	for i, value := range values {
		ids[i] = value.ID
	}
	return ids
}

func attributeIDs(values []model.AttributeValue) []uint {
	ids := make([]uint, len(values))
	for i, value := range values {
		ids[i] = value.AttributeID
	}
	return ids
}

// combinationKey is the column value, "" when there are no assignments.
func combinationKey(values []model.AttributeValue) string {
	return variant.Key(valueIDs(values))
}
