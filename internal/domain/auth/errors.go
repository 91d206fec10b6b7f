package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrCompanyClaimMissing    = errors.New("token carries no company")
	ErrEmployeeClaimMissing   = errors.New("token carries no employee")
	ErrAdminPrivilegeRequired = errors.New("payroll admin privilege required")
	ErrPermissionDenied       = errors.New("permission denied")
)
