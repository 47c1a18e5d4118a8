package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sumire/civic/internal/service"
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Chat        *service.ChatService
	Issues      *service.IssueService
	Tokens      *service.TokenService
	FrontendURL string
}

// NewRouter builds the HTTP API. /api/v1 requires a staff bearer token when
// access tokens are configured.
func NewRouter(cfg RouterConfig) http.Handler {
	chatHandler := NewChatHandler(cfg.Chat)
	actionHandler := NewActionHandler(cfg.Issues)
	issueHandler := NewIssueHandler(cfg.Issues)

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recover)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderRequestID},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Tokens != nil && cfg.Tokens.AccessEnabled() {
			r.Use(JWTAuth(cfg.Tokens))
		}

		r.Post("/chat", chatHandler.Turn)
		r.Post("/actions", actionHandler.Execute)

		r.Get("/issues", issueHandler.List)
		r.Post("/issues", issueHandler.Create)
	})

	return r
}
