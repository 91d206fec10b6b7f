package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Generation over a large roster can take a while; everything else is quick.
const (
	defaultRequestTimeout  = 30 * time.Second
	generateRequestTimeout = 5 * time.Minute
)

func NewRouter(cfg *config.Config, JWTService jwt.Service, payrollHandler PayrollHandler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)

			r.Route("/payroll", func(r chi.Router) {
				r.With(
					chiMiddleware.Timeout(defaultRequestTimeout),
					middleware.RequirePermission(user.PermissionPayrollViewOwn),
				).Get("/my-payouts", payrollHandler.ListMyPayouts)

				// Payroll admins only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePayrollAdmin)

					r.With(
						chiMiddleware.Timeout(generateRequestTimeout),
						middleware.RequirePermission(user.PermissionPayrollGenerate),
					).Post("/generate", payrollHandler.GeneratePayroll)

					r.Group(func(r chi.Router) {
						r.Use(chiMiddleware.Timeout(defaultRequestTimeout))

						r.With(middleware.RequirePermission(user.PermissionPayrollReports)).
							Get("/summary", payrollHandler.GetPayrollSummary)

						r.Route("/payouts", func(r chi.Router) {
							r.With(middleware.RequirePermission(user.PermissionPayrollDisburse)).
								Put("/status", payrollHandler.UpdatePayoutStatus)

							r.Group(func(r chi.Router) {
								r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
								r.Get("/", payrollHandler.ListPayouts)
								r.Get("/{id}", payrollHandler.GetPayout)
								r.Get("/{id}/payslip", payrollHandler.DownloadPayslip)
							})
						})
					})
				})
			})
		})
	})

	return r
}
