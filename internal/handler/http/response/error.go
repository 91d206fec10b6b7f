package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Token errors
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, jwtauth.ErrExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwtauth.ErrNoTokenFound), errors.Is(err, jwtauth.ErrUnauthorized):
		Unauthorized(w, auth.ErrInvalidToken.Error())

	// Access errors
	case errors.Is(err, auth.ErrCompanyClaimMissing):
		Forbidden(w, "No company associated with this user")
	case errors.Is(err, auth.ErrEmployeeClaimMissing):
		Forbidden(w, "No employee profile associated with this user")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Payroll admin privilege required")
	case errors.Is(err, auth.ErrPermissionDenied):
		Forbidden(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayoutNotFound):
		NotFound(w, "Payout not found")
	case errors.Is(err, payroll.ErrPayoutAlreadyExists):
		Conflict(w, "Payout already exists for this period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrInvalidPayoutStatus):
		BadRequest(w, "Invalid payout status", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
