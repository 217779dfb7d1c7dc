package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"techweave_backend/internal/config"
	"techweave_backend/internal/domain"
	"techweave_backend/internal/security"
	"techweave_backend/internal/service"
	"techweave_backend/internal/store/mysql"
	"techweave_backend/internal/store/sqlite"
	"techweave_backend/internal/ws"
)

// Repos bundles the repository set backing the HTTP and WebSocket surfaces.
type Repos struct {
	Users    domain.UserRepository
	Messages domain.MessageRepository
	Groups   domain.GroupRepository
}

// NewRepos builds the repository set for the configured driver.
func NewRepos(driver string, db *sql.DB) Repos {
	if driver == "sqlite" {
		return Repos{
			Users:    sqlite.NewUserRepo(db),
			Messages: sqlite.NewMessageRepo(db),
			Groups:   sqlite.NewGroupRepo(db),
		}
	}
	return Repos{
		Users:    mysql.NewUserRepo(db),
		Messages: mysql.NewMessageRepo(db),
		Groups:   mysql.NewGroupRepo(db),
	}
}

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware.
func NewRouter(cfg *config.Config, repos Repos, hub *ws.Hub, tokenSvc *security.TokenService, passwordHasher *security.PasswordHasher) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Services
	authSvc := service.NewAuthService(repos.Users, repos.Groups, tokenSvc, passwordHasher)
	userSvc := service.NewUserService(repos.Users)
	groupSvc := service.NewGroupService(repos.Groups)
	msgSvc := service.NewMessageService(repos.Messages, repos.Groups)
	adminSvc := service.NewAdminService(repos.Users, repos.Messages, repos.Groups)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Auth routes (no auth required)
	r.Post("/signup", handleSignup(authSvc))
	r.Post("/mentor-signup", handleMentorSignup(authSvc))
	r.Post("/login", handleLogin(authSvc))
	r.Post("/request-reset", handleRequestReset(authSvc))
	r.Post("/reset-password", handleResetPassword(authSvc))

	// Authenticated API
	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(tokenSvc, repos.Users))

		r.Get("/user/{userID}", handleGetUser(userSvc))
		r.Get("/all-users", handleListUsers(userSvc))
		r.Get("/mentors", handleListMentors(userSvc))

		r.Get("/chats/{userID}", handlePrivateHistory(msgSvc))

		r.Get("/group-chats", handleListGroups(groupSvc))
		r.Get("/group-chat/{groupID}/messages", handleGroupHistory(msgSvc))
		r.Get("/group-chat/{groupID}/members", handleListGroupMembers(groupSvc))

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleAdmin))
			r.Post("/promote-to-mentor/{userID}", handlePromoteToMentor(adminSvc))
			r.Get("/stats", handleStats(adminSvc))
		})
	})

	// WebSocket endpoint; identity is established in-band via user_connected
	r.Get("/ws", ws.MakeHandler(hub, msgSvc, cfg.CORSOrigins))

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain sentinel errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
