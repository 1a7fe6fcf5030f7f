package http

import (
	"net/http"
	"time"

	"dmserver/internal/observability/middleware"
	"dmserver/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter wires the REST surface plus the realtime endpoint. The ws
// handler is mounted outside the timeout group: a request timeout would
// tear down long-lived connections.
func NewRouter(h *Handler, tokens *service.TokenService, ws http.Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.WithRequestAndTrace)
	r.Use(middleware.WithMetrics)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "dmserver running"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(chimw.Timeout(30 * time.Second))

		api.Route("/auth", func(api chi.Router) {
			api.Post("/register", h.handleRegister)
			api.Post("/login", h.handleLogin)
		})

		api.Group(func(api chi.Router) {
			api.Use(RequireAuth(tokens))
			api.Get("/chats", h.handleListChats)
			api.Post("/chats", h.handleCreateChat)
			api.Post("/messages/send", h.handleSendMessage)
			api.Get("/messages/{chatID}", h.handleListMessages)
		})
	})

	if ws != nil {
		r.Get("/ws", ws.ServeHTTP)
	}

	return r
}
