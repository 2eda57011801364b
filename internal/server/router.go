package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/relief-labs/reliefai/internal/api"
	"github.com/relief-labs/reliefai/internal/api/handlers"
	"github.com/relief-labs/reliefai/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler         *handlers.ChatHandler
	SessionHandler      *handlers.SessionHandler
	KnowledgeHandler    *handlers.KnowledgeHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	DownloadHandler     *handlers.DownloadHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", cfg.ChatHandler.Chat)

		r.Post("/sessions/new", cfg.SessionHandler.New)
		r.Get("/sessions/{sessionId}", cfg.SessionHandler.Get)

		r.Post("/knowledge/add", cfg.KnowledgeHandler.Add)
		r.Get("/knowledge", cfg.KnowledgeHandler.List)

		r.Post("/subscribe", cfg.SubscriptionHandler.Subscribe)
		r.Post("/unsubscribe", cfg.SubscriptionHandler.Unsubscribe)
		r.Get("/subscriptions", cfg.SubscriptionHandler.List)

		r.Get("/downloads", cfg.DownloadHandler.List)
		r.Get("/download/{category}/{filename}", cfg.DownloadHandler.Download)
	})

	return r
}
