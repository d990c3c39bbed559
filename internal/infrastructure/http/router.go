// Package http wires the chi router: public authentication endpoints and
// the bearer-protected /api surface.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/handlers"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	HealthHandler       *handlers.HealthHandler
	OrganizationHandler *handlers.OrganizationHandler
	ProjectHandler      *handlers.ProjectHandler
	TaskHandler         *handlers.TaskHandler
	ProfileHandler      *handlers.ProfileHandler
	RequireAuth         func(http.Handler) http.Handler
	Log                 zerolog.Logger
	Secure              func(http.Handler) http.Handler
	CORS                func(http.Handler) http.Handler
	IPRateLimit         func(http.Handler) http.Handler
	Metrics             bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Public: no bearer token required.
	r.Post("/login", cfg.AuthHandler.Login)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimid.AllowContentType("application/json"))

		// Public endpoints under /api. The refresh endpoint carries a
		// refresh token, not an access token, so it stays outside the
		// guard.
		r.Get("/refreshToken", cfg.AuthHandler.RefreshToken)
		r.Post("/registration", cfg.AuthHandler.Register)
		r.Post("/registration/confirm", cfg.AuthHandler.ConfirmRegistration)
		r.Post("/password/reset", cfg.AuthHandler.ForgotPassword)
		r.Post("/password/reset/{token}", cfg.AuthHandler.ResetPassword)

		// Everything else requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAuth)
			registerProtected(r, cfg)
		})
	})

	return r
}

func registerProtected(r chi.Router, cfg RouterConfig) {
	r.Route("/organizations", func(r chi.Router) {
		r.Get("/users", cfg.OrganizationHandler.ListUsers)
		r.Post("/users", cfg.OrganizationHandler.InviteUser)
		r.Delete("/users/{email}", cfg.OrganizationHandler.RemoveUser)
		r.Put("/{orgId}", cfg.OrganizationHandler.Update)
		r.Delete("/{orgId}", cfg.OrganizationHandler.Delete)
	})

	r.Route("/roles", func(r chi.Router) {
		r.Get("/", cfg.OrganizationHandler.ListRoles)
		r.Post("/", cfg.OrganizationHandler.AddRole)
		r.Delete("/{roleId}", cfg.OrganizationHandler.DeleteRole)
	})
	r.Get("/permissions", cfg.OrganizationHandler.ListPermissions)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", cfg.ProjectHandler.List)
		r.Post("/", cfg.ProjectHandler.Create)
		r.Get("/{projectId}", cfg.ProjectHandler.Get)
		r.Put("/{projectId}", cfg.ProjectHandler.Update)
		r.Delete("/{projectId}", cfg.ProjectHandler.Delete)
		r.Post("/{projectId}/users", cfg.ProjectHandler.AddUser)
		r.Delete("/{projectId}/users/{email}", cfg.ProjectHandler.RemoveUser)
		r.Post("/{projectId}/taskGroups", cfg.TaskHandler.CreateGroup)
		r.Get("/{projectId}/timeEntries", cfg.TaskHandler.ListProjectTimeEntries)
	})

	r.Route("/taskGroups", func(r chi.Router) {
		r.Put("/{groupId}", cfg.TaskHandler.UpdateGroup)
		r.Delete("/{groupId}", cfg.TaskHandler.DeleteGroup)
		r.Post("/{groupId}/tasks", cfg.TaskHandler.CreateTask)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Put("/{taskId}", cfg.TaskHandler.UpdateTask)
		r.Delete("/{taskId}", cfg.TaskHandler.DeleteTask)
		r.Get("/{taskId}/history", cfg.TaskHandler.History)
		r.Get("/{taskId}/comments", cfg.TaskHandler.ListComments)
		r.Post("/{taskId}/comments", cfg.TaskHandler.AddComment)
		r.Get("/{taskId}/timeEntries", cfg.TaskHandler.ListTimeEntries)
		r.Post("/{taskId}/timeEntries", cfg.TaskHandler.AddTimeEntry)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Put("/{commentId}", cfg.TaskHandler.EditComment)
		r.Delete("/{commentId}", cfg.TaskHandler.DeleteComment)
	})

	r.Delete("/timeEntries/{entryId}", cfg.TaskHandler.RemoveTimeEntry)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", cfg.TaskHandler.Notifications)
		r.Put("/{notificationId}/read", cfg.TaskHandler.MarkNotificationRead)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", cfg.ProfileHandler.Get)
		r.Put("/", cfg.ProfileHandler.Update)
	})
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
