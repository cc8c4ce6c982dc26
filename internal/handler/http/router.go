package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppEnv         string
	AllowedOrigins []string
	// LoginRateLimit is optional; nil disables limiting.
	LoginRateLimit func(http.Handler) http.Handler
}

type Handlers struct {
	Auth               AuthHandler
	User               UserHandler
	Commission         CommissionHandler
	Training           TrainingHandler
	Discount           DiscountHandler
	CommissionTemplate CommissionTemplateHandler
	Salary             SalaryHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.AppEnv != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "commission-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Group(func(r chi.Router) {
				if cfg.LoginRateLimit != nil {
					r.Use(cfg.LoginRateLimit)
				}
				r.Post("/login", h.Auth.Login)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.Get("/{id}", h.User.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Post("/", h.User.Create)
					r.Put("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Delete)
				})
			})

			r.Route("/commissions", func(r chi.Router) {
				r.With(middleware.AdminOnly).Get("/summary", h.Commission.AllUsersSummary)
				r.Get("/", h.Commission.List)
				r.Post("/", h.Commission.Create)
				r.Get("/{id}", h.Commission.GetByID)
				r.Put("/{id}", h.Commission.Update)
				r.Delete("/{id}", h.Commission.Delete)
			})

			r.Route("/trainings", func(r chi.Router) {
				r.Get("/check-commissions/{document}", h.Training.CheckCommissions)
				r.Get("/", h.Training.List)
				r.Post("/", h.Training.Create)
				r.Get("/{id}", h.Training.GetByID)
				r.Put("/{id}", h.Training.Update)
				r.Delete("/{id}", h.Training.Delete)
			})

			r.Route("/discounts", func(r chi.Router) {
				r.Get("/user/{userId}", h.Discount.ListByUser)
				r.Get("/user/{userId}/total", h.Discount.TotalByUser)
				r.Get("/", h.Discount.List)
				r.Post("/", h.Discount.Create)
				r.Get("/{id}", h.Discount.GetByID)
				r.Put("/{id}", h.Discount.Update)
				r.Delete("/{id}", h.Discount.Delete)
			})

			r.Route("/commission-templates", func(r chi.Router) {
				r.Get("/", h.CommissionTemplate.List)
				r.Post("/", h.CommissionTemplate.Create)
				r.Get("/{id}", h.CommissionTemplate.GetByID)
				r.Put("/{id}", h.CommissionTemplate.Update)
				r.Delete("/{id}", h.CommissionTemplate.Delete)
			})

			r.Route("/salary", func(r chi.Router) {
				r.Post("/inss", h.Salary.QuoteINSS)
				r.Get("/irpf", h.Salary.QuoteIRPF)
				r.Get("/taxes", h.Salary.QuoteTaxes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryManage))
					r.Post("/cleanup-duplicates", h.Salary.CleanupDuplicates)
					r.Post("/{userId}/irpf", h.Salary.ManualIRPF)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryCalculate))
					r.Get("/{userId}", h.Salary.Preview)
					r.Post("/{userId}/recalculate", h.Salary.Recalculate)
				})
			})
		})
	})
	return r
}
