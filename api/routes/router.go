package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fichajeapp/fichaje-backend/api/controllers"
	"github.com/fichajeapp/fichaje-backend/api/middleware"
	"github.com/fichajeapp/fichaje-backend/internal/auth"
	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	"github.com/fichajeapp/fichaje-backend/internal/users"
	"github.com/fichajeapp/fichaje-backend/pkg/auth/session"
	"github.com/fichajeapp/fichaje-backend/pkg/config"
	"github.com/fichajeapp/fichaje-backend/pkg/db"
	"github.com/fichajeapp/fichaje-backend/pkg/logger"
	"github.com/fichajeapp/fichaje-backend/pkg/metrics"
	"github.com/fichajeapp/fichaje-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	roleChecker middleware.RoleChecker,
	authService auth.Service,
	signupService auth.SignupService,
	userService users.Service,
	timeclockService timeclock.Service,
	adminRecordService timeclock.AdminService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if httpMetrics != nil {
		r.Handle("/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(signupService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Get("/me", controllers.Me(userService, logg))

		r.Route("/timeclock", func(r chi.Router) {
			r.Get("/status", controllers.TimeclockStatus(timeclockService, logg))
			r.Post("/toggle", controllers.TimeclockToggle(timeclockService, logg))
			r.Post("/manual", controllers.TimeclockManual(timeclockService, logg))
		})

		r.Route("/records", func(r chi.Router) {
			r.Get("/", controllers.RecordsList(timeclockService, logg))
			r.Get("/summary", controllers.RecordsSummary(timeclockService, logg))
			r.Get("/export", controllers.RecordsExport(timeclockService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireAdmin(roleChecker, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(userService, logg))
			r.Post("/", controllers.AdminUsersCreate(userService, logg))
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", controllers.AdminUserDetail(userService, logg))
				r.Route("/records", func(r chi.Router) {
					r.Get("/", controllers.AdminUserRecordsList(timeclockService, logg))
					r.Get("/summary", controllers.AdminUserRecordsSummary(timeclockService, logg))
					r.Get("/export", controllers.AdminUserRecordsExport(timeclockService, userService, logg))
					r.Post("/", controllers.AdminRecordCreate(adminRecordService, logg))
				})
			})
		})

		r.Route("/records/{recordId}", func(r chi.Router) {
			r.Patch("/", controllers.AdminRecordUpdate(adminRecordService, logg))
			r.Delete("/", controllers.AdminRecordDelete(adminRecordService, logg))
		})
	})

	return r
}
