package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// RequireCompany rejects tokens that are not bound to a company, such as
// users still in onboarding.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if role, ok := jwt.ClaimRole(claims); ok && role.IsPending() {
			response.HandleError(w, auth.ErrCompanyClaimMissing)
			return
		}

		if _, ok := jwt.ClaimInt64(claims, "company_id"); !ok {
			response.HandleError(w, auth.ErrCompanyClaimMissing)
			return
		}

		next.ServeHTTP(w, r)
	})
}
