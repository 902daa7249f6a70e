package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드와 대량 등록 실패 목록에서 이 코드를 사유(reason)로 사용함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과 (음수 가격/재고 등)
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 상품/속성 (PRODUCT_, ATTRIBUTE_) ====================
	ProductNotFound        = "PRODUCT_NOT_FOUND"         // 상품 없음
	AttributeNotFound      = "ATTRIBUTE_NOT_FOUND"       // 속성 없음
	AttributeExists        = "ATTRIBUTE_EXISTS"          // 속성/속성값 중복
	AttributeValueNotFound = "ATTRIBUTE_VALUE_NOT_FOUND" // 속성값 없음
	AttributeValueInactive = "ATTRIBUTE_VALUE_INACTIVE"  // 비활성 속성값 참조
	AttributeValueMismatch = "ATTRIBUTE_VALUE_MISMATCH"  // 다른 속성의 값

	// ==================== 변형 (VARIANT_) ====================
	VariantNotFound             = "VARIANT_NOT_FOUND"             // 변형 없음
	VariantInvalidInput         = "VARIANT_INVALID_INPUT"         // 가격/재고 등 잘못된 입력
	VariantEmptySelection       = "VARIANT_EMPTY_SELECTION"       // 조합 생성 대상 없음
	VariantTooManyCombinations  = "VARIANT_TOO_MANY_COMBINATIONS" // 조합 수 초과
	VariantDuplicateAttribute   = "VARIANT_DUPLICATE_ATTRIBUTE"   // 한 속성에 값 여러 개
	VariantDuplicateCombination = "VARIANT_DUPLICATE_COMBINATION" // 동일 조합 존재
	VariantAttributeMismatch    = "VARIANT_ATTRIBUTE_MISMATCH"    // 형제 변형과 속성 구성이 다름
	VariantSKUExists            = "VARIANT_SKU_EXISTS"            // SKU 중복
	VariantHasOrders            = "VARIANT_HAS_ORDERS"            // 주문 이력이 있어 삭제 불가
	VariantRequired             = "VARIANT_REQUIRED"              // 변형 선택 필요
	VariantInactive             = "VARIANT_INACTIVE"              // 판매 중지된 변형

	// ==================== 재고 (STOCK_) ====================
	StockOut          = "STOCK_OUT"          // 품절
	StockInsufficient = "STOCK_INSUFFICIENT" // 재고 부족

	// ==================== 정합성 (INTEGRITY_) ====================
	IntegrityAmbiguousSelection = "INTEGRITY_AMBIGUOUS_SELECTION" // 동일 조합 변형이 여러 개

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
)
