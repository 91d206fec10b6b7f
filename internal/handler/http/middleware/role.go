package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, fmt.Errorf("%w: required '%s'", auth.ErrPermissionDenied, permission))
				return
			}

			role, ok := jwt.ClaimRole(claims)
			if !ok || !user.HasPermission(role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'", auth.ErrPermissionDenied, permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
