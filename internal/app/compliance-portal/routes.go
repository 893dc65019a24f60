// Package complianceportal предоставляет маршруты для основного приложения.
package complianceportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/compliance-portal/internal/complianceapi"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/account/deactivate"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/account/me"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/health"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/vendors/answerlist"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/vendors/profile"
	"github.com/magabrotheeeer/compliance-portal/internal/http/handlers/vendors/reconcilerun"
	"github.com/magabrotheeeer/compliance-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/compliance-portal/internal/lib/rbac"
	access "github.com/magabrotheeeer/compliance-portal/internal/services/access"
	answersservice "github.com/magabrotheeeer/compliance-portal/internal/services/answers"
	authservice "github.com/magabrotheeeer/compliance-portal/internal/services/auth"
	reconcileservice "github.com/magabrotheeeer/compliance-portal/internal/services/reconcile"
	"github.com/magabrotheeeer/compliance-portal/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, db *repository.Storage,
	authSvc *authservice.AuthService, reconcileSvc *reconcileservice.Service,
	answersSvc *answersservice.Service, apiClient *complianceapi.Client) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(10, 30)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authSvc).ServeHTTP)
		r.Post("/login", login.New(logger, authSvc).ServeHTTP)

		// Аутентификация без требований к роли
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GuardMiddleware(logger, jwtMaker, db, access.Requirement{}))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/me", me.New(logger, db).ServeHTTP)
		})

		// Портал доверия: возможность access-trust-portal и активная подписка
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GuardMiddleware(logger, jwtMaker, db, access.Requirement{
				Capability:                rbac.CapAccessTrustPortal,
				RequireActiveSubscription: true,
			}))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/vendors/{externalID}/answers", answerlist.New(logger, answersSvc, db).ServeHTTP)
			r.Get("/vendors/{externalID}/profile", profile.New(logger, apiClient).ServeHTTP)
		})

		// Управление учётными записями: возможность manage-accounts
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GuardMiddleware(logger, jwtMaker, db, access.Requirement{
				Capability: rbac.CapManageAccounts,
			}))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Delete("/accounts/{id}", deactivate.New(logger, db).ServeHTTP)
		})

		// Реконсиляция: возможность run-reconciliation
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.GuardMiddleware(logger, jwtMaker, db, access.Requirement{
				Capability: rbac.CapRunReconciliation,
			}))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Post("/vendors/{externalID}/reconcile", reconcilerun.New(logger, reconcileSvc).ServeHTTP)
		})
	})

	r.Get("/healthz", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
