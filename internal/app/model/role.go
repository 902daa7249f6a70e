package model

// UserRole 토큰에 담긴 사용자 권한. 사용자 계정은 인증 서비스가 관리한다.
type UserRole string

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한 (속성/변형 관리)
)
