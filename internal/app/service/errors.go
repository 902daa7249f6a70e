package service

import (
	"errors"
	"net/http"

	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/ikkim/udonggeum-variants/pkg/variant"
)

var (
	// validation
	ErrInvalidVariantInput    = errors.New("invalid variant input")
	ErrInvalidAttributeInput  = errors.New("invalid attribute input")
	ErrTooManyCombinations    = variant.ErrTooManyCombinations
	ErrEmptySelection         = variant.ErrEmptySelection
	ErrEmptyValueSet          = variant.ErrEmptyValueSet
	ErrDuplicateAttribute     = errors.New("multiple values from the same attribute")
	ErrDuplicateCombination   = errors.New("duplicate combination")
	ErrAttributeSetMismatch   = errors.New("variant attributes differ from the product's other variants")
	ErrDuplicateSKU           = errors.New("SKU already exists")
	ErrInactiveAttributeValue = errors.New("attribute value is inactive")
	ErrAttributeValueMismatch = errors.New("attribute value does not belong to the attribute")
	ErrNoVariantsCreated      = errors.New("no variant could be created")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrVariantRequired        = errors.New("a variant must be selected for this product")
	ErrVariantInactive        = errors.New("variant is not available")
	ErrProductInactive        = errors.New("product is not available")
	ErrOutOfStock             = errors.New("out of stock")
	ErrInsufficientStock      = errors.New("insufficient stock")

	// not found
	ErrProductNotFound        = errors.New("product not found")
	ErrVariantNotFound        = errors.New("variant not found")
	ErrAttributeNotFound      = errors.New("attribute not found")
	ErrAttributeValueNotFound = errors.New("attribute value not found")

	// conflict
	ErrVariantHasOrders = errors.New("variant is referenced by orders")
	ErrAttributeExists  = errors.New("attribute already exists")

	// integrity
	ErrAmbiguousSelection = variant.ErrAmbiguousSelection
)

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{ErrInvalidVariantInput, http.StatusBadRequest, apperrors.VariantInvalidInput},
	{ErrInvalidAttributeInput, http.StatusBadRequest, apperrors.ValidationInvalidInput},
	{ErrTooManyCombinations, http.StatusBadRequest, apperrors.VariantTooManyCombinations},
	{ErrEmptySelection, http.StatusBadRequest, apperrors.VariantEmptySelection},
	{ErrEmptyValueSet, http.StatusBadRequest, apperrors.VariantEmptySelection},
	{ErrDuplicateAttribute, http.StatusBadRequest, apperrors.VariantDuplicateAttribute},
	{ErrDuplicateCombination, http.StatusBadRequest, apperrors.VariantDuplicateCombination},
	{ErrAttributeSetMismatch, http.StatusBadRequest, apperrors.VariantAttributeMismatch},
	{ErrDuplicateSKU, http.StatusBadRequest, apperrors.VariantSKUExists},
	{ErrInactiveAttributeValue, http.StatusBadRequest, apperrors.AttributeValueInactive},
	{ErrAttributeValueMismatch, http.StatusBadRequest, apperrors.AttributeValueMismatch},
	{ErrNoVariantsCreated, http.StatusBadRequest, apperrors.VariantInvalidInput},
	{ErrInvalidQuantity, http.StatusBadRequest, apperrors.ValidationInvalidRange},
	{ErrVariantRequired, http.StatusBadRequest, apperrors.VariantRequired},
	{ErrVariantInactive, http.StatusBadRequest, apperrors.VariantInactive},
	{ErrProductInactive, http.StatusBadRequest, apperrors.VariantInactive},
	{ErrOutOfStock, http.StatusBadRequest, apperrors.StockOut},
	{ErrInsufficientStock, http.StatusBadRequest, apperrors.StockInsufficient},
	{ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound},
	{ErrVariantNotFound, http.StatusNotFound, apperrors.VariantNotFound},
	{ErrAttributeNotFound, http.StatusNotFound, apperrors.AttributeNotFound},
	{ErrAttributeValueNotFound, http.StatusNotFound, apperrors.AttributeValueNotFound},
	{ErrVariantHasOrders, http.StatusConflict, apperrors.VariantHasOrders},
	{ErrAttributeExists, http.StatusConflict, apperrors.AttributeExists},
	{ErrAmbiguousSelection, http.StatusInternalServerError, apperrors.IntegrityAmbiguousSelection},
}

// Classify maps a service error to its HTTP status and error code.
// ok is false for errors this package does not know about.
func Classify(err error) (status int, code string, ok bool) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code, true
		}
	}
	return http.StatusInternalServerError, apperrors.InternalServerError, false
}

// reasonFor is the machine-readable reason reported for a failed bulk item.
func reasonFor(err error) string {
	_, code, ok := Classify(err)
	if !ok {
		return apperrors.ParseError(err, "create variant").Code
	}
	return code
}

// translateDBError turns unique-index violations into the same sentinels the
// pre-write checks return, so racing writers see identical reasons.
func translateDBError(err error) error {
	if err == nil || !apperrors.IsDuplicateKey(err) {
		return err
	}
	switch apperrors.ParseError(err, "").Code {
	case apperrors.VariantDuplicateAttribute:
		return ErrDuplicateAttribute
	case apperrors.VariantDuplicateCombination:
		return ErrDuplicateCombination
	case apperrors.VariantSKUExists:
		return ErrDuplicateSKU
	case apperrors.AttributeExists:
		return ErrAttributeExists
	}
	return err
}
