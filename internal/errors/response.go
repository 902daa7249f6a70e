package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error   string `json:"error"`   // 에러 코드 (프론트엔드에서 매핑용)
	Message string `json:"message"` // 사용자 친화적 메시지 (한글)
}

// RespondWithError 에러 응답 헬퍼
// statusCode: HTTP 상태 코드
// errorCode: 에러 코드 상수 (codes.go 참조)
// message: 사용자에게 보여질 한글 메시지
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "접근 권한이 없습니다"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}
