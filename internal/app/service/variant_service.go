package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/ikkim/udonggeum-variants/pkg/variant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateVariantInput struct {
	SKU               string           `json:"sku"`
	Price             *decimal.Decimal `json:"price"`
	StockQuantity     *int             `json:"stock_quantity"`
	IsActive          *bool            `json:"is_active"`
	VariantName       string           `json:"variant_name"`
	Color             string           `json:"color"`
	Size              string           `json:"size"`
	ImageURL          string           `json:"image_url"`
	AttributeValueIDs []uint           `json:"attribute_value_ids"`
}

// UpdateVariantInput is a partial update; nil fields are left unchanged.
// A non-nil AttributeValueIDs replaces the whole assignment set.
type UpdateVariantInput struct {
	SKU               *string          `json:"sku"`
	Price             *decimal.Decimal `json:"price"`
	StockQuantity     *int             `json:"stock_quantity"`
	IsActive          *bool            `json:"is_active"`
	VariantName       *string          `json:"variant_name"`
	Color             *string          `json:"color"`
	Size              *string          `json:"size"`
	ImageURL          *string          `json:"image_url"`
	AttributeValueIDs *[]uint          `json:"attribute_value_ids"`
}

type CreateProductInput struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	ImageURL      string           `json:"image_url"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      *bool            `json:"is_active"`
}

// BulkFailure describes one rejected item of a batch.
type BulkFailure struct {
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type BulkCreateResult struct {
	Product  *model.Product  `json:"product"`
	Variants []model.Variant `json:"variants"`
	Failures []BulkFailure   `json:"failures"`
}

type GenerateVariantsInput struct {
	Selections    map[uint][]uint  `json:"selections"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	Persist       bool             `json:"persist"`
}

type CandidateValue struct {
	AttributeID uint   `json:"attribute_id"`
	Attribute   string `json:"attribute"`
	ValueID     uint   `json:"attribute_value_id"`
	Value       string `json:"value"`
}

type VariantCandidate struct {
	Label  string           `json:"label"`
	Values []CandidateValue `json:"values"`
}

type GenerateVariantsResult struct {
	Candidates []VariantCandidate `json:"candidates"`
	Created    []model.Variant    `json:"created,omitempty"`
	Failures   []BulkFailure      `json:"failures,omitempty"`
}

type VariantService interface {
	ListVariants(productID uint, activeOnly bool) ([]model.Variant, error)
	GetVariant(variantID uint) (*model.Variant, error)
	CreateVariant(productID uint, input CreateVariantInput) (*model.Variant, error)
	UpdateVariant(variantID uint, input UpdateVariantInput) (*model.Variant, error)
	DeleteVariant(variantID uint) error
	CreateProductWithVariants(product CreateProductInput, variants []CreateVariantInput) (*BulkCreateResult, error)
	GenerateVariants(productID uint, input GenerateVariantsInput) (*GenerateVariantsResult, error)
	AuditIntegrity() (*AuditReport, error)
	ExportVariants(productID uint) ([]byte, error)
	ImportProductSheet(product CreateProductInput, sheet io.Reader) (*BulkCreateResult, error)
}

type variantService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	variantRepo   repository.VariantRepository
	attributeRepo repository.AttributeRepository
	orderRepo     repository.OrderRepository
	validator     *variantValidator
	cfg           config.VariantConfig
}

func NewVariantService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	attributeRepo repository.AttributeRepository,
	orderRepo repository.OrderRepository,
	cfg config.VariantConfig,
) VariantService {
	if cfg.MaxCombinations <= 0 {
		cfg.MaxCombinations = variant.DefaultMaxCombinations
	}
	if cfg.SKUMaxAttempts <= 0 {
		cfg.SKUMaxAttempts = 3
	}
	return &variantService{
		db:            db,
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		attributeRepo: attributeRepo,
		orderRepo:     orderRepo,
		validator:     newVariantValidator(attributeRepo),
		cfg:           cfg,
	}
}

// preparedVariant is a create request whose catalog references were
// resolved before the transaction opened.
type preparedVariant struct {
	input  CreateVariantInput
	values []model.AttributeValue
	err    error
}

func (s *variantService) findProduct(productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *variantService) ListVariants(productID uint, activeOnly bool) ([]model.Variant, error) {
	if _, err := s.findProduct(productID); err != nil {
		return nil, err
	}

	variants, err := s.variantRepo.FindByProductID(productID, activeOnly)
	if err != nil {
		logger.Error("Failed to list variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

func (s *variantService) GetVariant(variantID uint) (*model.Variant, error) {
	v, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return v, nil
}

func validateCreateInput(input CreateVariantInput) error {
	if input.Price == nil {
		return fmt.Errorf("%w: price is required", ErrInvalidVariantInput)
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidVariantInput)
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidVariantInput)
	}
	if len(input.SKU) > 64 {
		return fmt.Errorf("%w: sku is too long", ErrInvalidVariantInput)
	}
	return nil
}

// prepare validates the payload and resolves its values outside any
// transaction; the result carries the first error found.
func (s *variantService) prepare(input CreateVariantInput) preparedVariant {
	input.SKU = strings.TrimSpace(input.SKU)
	p := preparedVariant{input: input}

	if p.err = validateCreateInput(input); p.err != nil {
		return p
	}
	if p.values, p.err = s.validator.resolveValues(input.AttributeValueIDs); p.err != nil {
		return p
	}
	p.err = s.validator.checkExclusivity(p.values)
	return p
}

// createInTx runs the combination and SKU checks and writes the variant.
// tx must be the only handle used, including for reads.
func (s *variantService) createInTx(tx *gorm.DB, product *model.Product, p preparedVariant) (*model.Variant, error) {
	variants := s.variantRepo.WithTx(tx)

	if err := s.validator.checkCombination(variants, product.ID, p.values, 0); err != nil {
		return nil, err
	}

	sku := p.input.SKU
	if sku != "" {
		if err := s.validator.checkSKU(variants, sku, 0); err != nil {
			return nil, err
		}
	} else {
		generated, err := s.generateSKU(variants, product, p)
		if err != nil {
			return nil, err
		}
		sku = generated
	}

	v := &model.Variant{
		ProductID:      product.ID,
		SKU:            sku,
		Price:          *p.input.Price,
		IsActive:       true,
		VariantName:    strings.TrimSpace(p.input.VariantName),
		Color:          strings.TrimSpace(p.input.Color),
		Size:           strings.TrimSpace(p.input.Size),
		ImageURL:       p.input.ImageURL,
		CombinationKey: combinationKey(p.values),
		Assignments:    toAssignments(p.values),
	}
	if p.input.StockQuantity != nil {
		v.StockQuantity = *p.input.StockQuantity
	}
	if p.input.IsActive != nil {
		v.IsActive = *p.input.IsActive
	}

	if err := variants.Create(v); err != nil {
		return nil, translateDBError(err)
	}
	if !product.HasVariants {
		if err := s.productRepo.WithTx(tx).MarkHasVariants(product.ID); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// generateSKU retries on collision; the final value is still unique-checked.
func (s *variantService) generateSKU(variants repository.VariantRepository, product *model.Product, p preparedVariant) (string, error) {
	parts := []string{product.Name, p.input.VariantName, p.input.Color, p.input.Size}
	for _, value := range p.values {
		parts = append(parts, value.Value)
	}

	for attempt := 1; attempt <= s.cfg.SKUMaxAttempts; attempt++ {
		sku := variant.GenerateSKU(parts...)
		exists, err := variants.ExistsBySKU(sku, 0)
		if err != nil {
			return "", err
		}
		if !exists {
			return sku, nil
		}
		logger.Warn("Generated SKU collided, retrying", map[string]interface{}{
			"sku":     sku,
			"attempt": attempt,
		})
	}
	return "", ErrDuplicateSKU
}

func (s *variantService) CreateVariant(productID uint, input CreateVariantInput) (*model.Variant, error) {
	logger.Debug("Creating variant", map[string]interface{}{
		"product_id": productID,
		"sku":        input.SKU,
		"values":     input.AttributeValueIDs,
	})

	product, err := s.findProduct(productID)
	if err != nil {
		return nil, err
	}

	p := s.prepare(input)
	if p.err != nil {
		logger.Warn("Variant rejected", map[string]interface{}{
			"product_id": productID,
			"error":      p.err.Error(),
		})
		return nil, p.err
	}

	var created *model.Variant
	err = s.db.Transaction(func(tx *gorm.DB) error {
		v, err := s.createInTx(tx, product, p)
		if err != nil {
			return err
		}
		created = v
		return nil
	})
	if err != nil {
		logger.Warn("Variant creation failed", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Variant created", map[string]interface{}{
		"product_id": productID,
		"variant_id": created.ID,
		"sku":        created.SKU,
	})
	return s.GetVariant(created.ID)
}

func (s *variantService) UpdateVariant(variantID uint, input UpdateVariantInput) (*model.Variant, error) {
	existing, err := s.GetVariant(variantID)
	if err != nil {
		return nil, err
	}

	if input.Price != nil && input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidVariantInput)
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalidVariantInput)
	}
	var newSKU string
	if input.SKU != nil {
		newSKU = strings.TrimSpace(*input.SKU)
		if newSKU == "" || len(newSKU) > 64 {
			return nil, fmt.Errorf("%w: sku must be 1-64 characters", ErrInvalidVariantInput)
		}
	}

	var values []model.AttributeValue
	if input.AttributeValueIDs != nil {
		values, err = s.validator.resolveValues(*input.AttributeValueIDs)
		if err != nil {
			return nil, err
		}
		if err := s.validator.checkExclusivity(values); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		variants := s.variantRepo.WithTx(tx)

		if input.AttributeValueIDs != nil {
			if err := s.validator.checkCombination(variants, existing.ProductID, values, existing.ID); err != nil {
				return err
			}
		}
		if input.SKU != nil && newSKU != existing.SKU {
			if err := s.validator.checkSKU(variants, newSKU, existing.ID); err != nil {
				return err
			}
			existing.SKU = newSKU
		}

		applyVariantUpdate(existing, input)
		if input.AttributeValueIDs != nil {
			existing.CombinationKey = combinationKey(values)
		}

		if err := variants.Update(existing); err != nil {
			return translateDBError(err)
		}
		if input.AttributeValueIDs != nil {
			if err := variants.ReplaceAssignments(existing, toAssignments(values)); err != nil {
				return translateDBError(err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Variant update failed", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Variant updated", map[string]interface{}{
		"variant_id":           variantID,
		"assignments_replaced": input.AttributeValueIDs != nil,
	})
	return s.GetVariant(variantID)
}

func applyVariantUpdate(v *model.Variant, input UpdateVariantInput) {
	if input.Price != nil {
		v.Price = *input.Price
	}
	if input.StockQuantity != nil {
		v.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		v.IsActive = *input.IsActive
	}
	if input.VariantName != nil {
		v.VariantName = strings.TrimSpace(*input.VariantName)
	}
	if input.Color != nil {
		v.Color = strings.TrimSpace(*input.Color)
	}
	if input.Size != nil {
		v.Size = strings.TrimSpace(*input.Size)
	}
	if input.ImageURL != nil {
		v.ImageURL = *input.ImageURL
	}
}

// DeleteVariant removes a variant that no order line references. Variants
// with order history can only be deactivated.
func (s *variantService) DeleteVariant(variantID uint) error {
	if _, err := s.GetVariant(variantID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		count, err := s.orderRepo.WithTx(tx).CountItemsByVariantID(variantID)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("Refusing to delete variant with order history", map[string]interface{}{
				"variant_id":  variantID,
				"order_lines": count,
			})
			return ErrVariantHasOrders
		}

		if err := s.variantRepo.WithTx(tx).Delete(variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Variant deleted", map[string]interface{}{
		"variant_id": variantID,
	})
	return nil
}

// createBatch writes each prepared item inside its own savepoint so one bad
// item does not undo the others.
func (s *variantService) createBatch(tx *gorm.DB, product *model.Product, items []preparedVariant) ([]model.Variant, []BulkFailure) {
	var (
		created  []model.Variant
		failures []BulkFailure
	)

	for i, item := range items {
		if item.err != nil {
			failures = append(failures, BulkFailure{Index: i, Reason: reasonFor(item.err), Message: item.err.Error()})
			continue
		}

		var v *model.Variant
		err := tx.Transaction(func(sp *gorm.DB) error {
			var err error
			v, err = s.createInTx(sp, product, item)
			return err
		})
		if err != nil {
			failures = append(failures, BulkFailure{Index: i, Reason: reasonFor(err), Message: err.Error()})
			continue
		}
		product.HasVariants = true
		created = append(created, *v)
	}

	return created, failures
}

func (s *variantService) CreateProductWithVariants(input CreateProductInput, specs []CreateVariantInput) (*BulkCreateResult, error) {
	items := make([]preparedVariant, len(specs))
	for i, spec := range specs {
		items[i] = s.prepare(spec)
	}
	return s.createProductBatch(input, items)
}

func (s *variantService) createProductBatch(input CreateProductInput, items []preparedVariant) (*BulkCreateResult, error) {
	product, err := newProduct(input)
	if err != nil {
		return nil, err
	}

	result := &BulkCreateResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(product); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		result.Variants, result.Failures = s.createBatch(tx, product, items)
		if len(result.Variants) == 0 {
			// nothing usable: drop the parent product as well
			return ErrNoVariantsCreated
		}
		return nil
	})
	if err != nil {
		logger.Warn("Bulk product creation rolled back", map[string]interface{}{
			"name":     input.Name,
			"failures": len(result.Failures),
			"error":    err.Error(),
		})
		result.Variants = nil
		return result, err
	}

	result.Product = product
	if len(result.Variants) > 0 {
		if reloaded, err := s.variantRepo.FindByProductID(product.ID, false); err == nil {
			result.Variants = reloaded
		}
	}
	logger.Info("Product created with variants", map[string]interface{}{
		"product_id": product.ID,
		"created":    len(result.Variants),
		"failed":     len(result.Failures),
	})
	return result, nil
}

func newProduct(input CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidVariantInput)
	}
	if input.StockQuantity < 0 || (input.Price != nil && input.Price.IsNegative()) {
		return nil, fmt.Errorf("%w: product price and stock must not be negative", ErrInvalidVariantInput)
	}

	product := &model.Product{
		Name:          name,
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return product, nil
}

func (s *variantService) GenerateVariants(productID uint, input GenerateVariantsInput) (*GenerateVariantsResult, error) {
	product, err := s.findProduct(productID)
	if err != nil {
		return nil, err
	}

	combos, err := variant.Generate(input.Selections, s.cfg.MaxCombinations)
	if err != nil {
		logger.Warn("Variant generation rejected", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	values, err := s.selectionValues(input.Selections)
	if err != nil {
		return nil, err
	}

	result := &GenerateVariantsResult{Candidates: make([]VariantCandidate, 0, len(combos))}
	items := make([]preparedVariant, 0, len(combos))
	for _, combo := range combos {
		candidate := VariantCandidate{}
		labels := make([]string, 0, len(combo))
		comboValues := make([]model.AttributeValue, 0, len(combo))
		for _, a := range combo {
			value := values[a.ValueID]
			comboValues = append(comboValues, value)
			labels = append(labels, value.Value)
			candidate.Values = append(candidate.Values, CandidateValue{
				AttributeID: a.AttributeID,
				Attribute:   value.Attribute.Label(),
				ValueID:     value.ID,
				Value:       value.Value,
			})
		}
		candidate.Label = strings.Join(labels, " / ")
		result.Candidates = append(result.Candidates, candidate)

		stock := input.StockQuantity
		items = append(items, preparedVariant{
			input: CreateVariantInput{
				Price:             input.Price,
				StockQuantity:     &stock,
				VariantName:       candidate.Label,
				AttributeValueIDs: combo.ValueIDs(),
			},
			values: comboValues,
		})
	}

	logger.Info("Variant combinations generated", map[string]interface{}{
		"product_id": productID,
		"count":      len(result.Candidates),
		"persist":    input.Persist,
	})

	if !input.Persist {
		return result, nil
	}
	if input.Price == nil || input.Price.IsNegative() || input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: persisting requires a non-negative price and stock", ErrInvalidVariantInput)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result.Created, result.Failures = s.createBatch(tx, product, items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Generated variants persisted", map[string]interface{}{
		"product_id": productID,
		"created":    len(result.Created),
		"failed":     len(result.Failures),
	})
	return result, nil
}

// selectionValues loads every value of a generation request and checks it
// is active and listed under its own attribute.
func (s *variantService) selectionValues(selections map[uint][]uint) (map[uint]model.AttributeValue, error) {
	var ids []uint
	for _, valueIDs := range selections {
		ids = append(ids, valueIDs...)
	}

	found, err := s.attributeRepo.FindValuesByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.AttributeValue, len(found))
	for _, value := range found {
		byID[value.ID] = value
	}

	for attributeID, valueIDs := range selections {
		for _, id := range valueIDs {
			value, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: id %d", ErrAttributeValueNotFound, id)
			}
			if value.AttributeID != attributeID {
				return nil, fmt.Errorf("%w: value %d is not part of attribute %d", ErrAttributeValueMismatch, id, attributeID)
			}
			if !value.IsActive || value.Attribute == nil || !value.Attribute.IsActive {
				return nil, fmt.Errorf("%w: %s", ErrInactiveAttributeValue, value.Value)
			}
		}
	}
	return byID, nil
}
