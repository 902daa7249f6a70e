package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// DB 유니크 제약 위반은 서비스 계층의 사전 검증과 같은 코드로 매핑된다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL / SQLite 제약 조건 에러

	// 2-1. Unique constraint violation (23505)
	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errStrLower)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		if strings.Contains(errStrLower, "still referenced") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Record is still referenced and cannot be deleted",
			}
		}
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced record does not exist",
		}
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "not null constraint") || strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Input value is not valid",
		}
	}

	// 3. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// IsDuplicateKey reports whether err is a unique constraint violation from
// postgres ("duplicate key value violates unique constraint") or sqlite
// ("UNIQUE constraint failed").
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint")
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string) ErrorInfo {
	// 한 변형에 같은 속성 값 두 개 (idx_assignments_variant_attribute)
	if strings.Contains(errLower, "assignments") {
		return ErrorInfo{
			Code:    VariantDuplicateAttribute,
			Message: "multiple values from the same attribute",
		}
	}

	// 같은 상품 내 동일 조합 (idx_variants_product_combination)
	if strings.Contains(errLower, "combination") {
		return ErrorInfo{
			Code:    VariantDuplicateCombination,
			Message: "duplicate combination",
		}
	}

	// SKU 중복 (idx_variants_sku)
	if strings.Contains(errLower, "sku") {
		return ErrorInfo{
			Code:    VariantSKUExists,
			Message: "SKU already exists",
		}
	}

	// 속성값 중복 (idx_attribute_values_attribute_value)
	if strings.Contains(errLower, "attribute_values") {
		return ErrorInfo{
			Code:    AttributeExists,
			Message: "Attribute value already exists",
		}
	}

	// 속성명 중복 (idx_attributes_name)
	if strings.Contains(errLower, "attributes") {
		return ErrorInfo{
			Code:    AttributeExists,
			Message: "Attribute already exists",
		}
	}

	// 기본 중복 메시지
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Record already exists",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "variant") {
		return "Variant not found"
	}
	if strings.Contains(contextLower, "attribute") {
		return "Attribute not found"
	}
	if strings.Contains(contextLower, "product") {
		return "Product not found"
	}
	if strings.Contains(contextLower, "order") {
		return "Order not found"
	}

	return "Requested record not found"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Failed to create record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Failed to update record. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete record. Please try again later"
	}

	return "Internal server error. Please try again later"
}
