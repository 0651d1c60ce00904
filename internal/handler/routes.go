package handler

import (
	"net/http"

	"github.com/msomdec/taskflow/internal/service"
	"github.com/msomdec/taskflow/internal/validation"
)

// Auth endpoints are throttled per client IP, 100 requests per 15 minutes.
const (
	authRateLimit    = 100.0 / (15 * 60)
	authRateCapacity = 100
)

// Services bundles the application services the routes depend on.
type Services struct {
	Auth  *service.AuthService
	Users *service.UserService
	Tasks *service.TaskService
}

// RegisterRoutes sets up all HTTP routes on the given mux. db may be nil
// when no persistence backend is configured (health then reports
// disconnected).
func RegisterRoutes(mux *http.ServeMux, svc Services, validate *validation.Validator, db Pinger, dev bool) {
	authHandler := NewAuthHandler(svc.Auth, validate, dev)
	userHandler := NewUserHandler(svc.Users, validate, dev)
	taskHandler := NewTaskHandler(svc.Tasks, validate, dev)
	healthHandler := NewHealthHandler(db)

	limiter := newRateLimiter(authRateLimit, authRateCapacity)
	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(svc.Auth, h)
	}

	mux.Handle("POST /api/auth/register", limiter.limit(http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/auth/login", limiter.limit(http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("GET /api/auth/me", protected(authHandler.HandleMe))

	mux.Handle("PUT /api/users/profile", protected(userHandler.HandleUpdateProfile))

	mux.Handle("GET /api/tasks", protected(taskHandler.HandleList))
	mux.Handle("POST /api/tasks", protected(taskHandler.HandleCreate))
	mux.Handle("GET /api/tasks/{id}", protected(taskHandler.HandleGet))
	mux.Handle("PUT /api/tasks/{id}", protected(taskHandler.HandleUpdate))
	mux.Handle("DELETE /api/tasks/{id}", protected(taskHandler.HandleDelete))

	mux.HandleFunc("GET /api/health", healthHandler.HandleHealth)

	// Everything else is an unknown route.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
}
