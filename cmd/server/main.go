package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"dmserver/internal/config"
	"dmserver/internal/observability/logging"
	"dmserver/internal/observability/metrics"
	"dmserver/internal/presence"
	"dmserver/internal/service"
	"dmserver/internal/store"
	httpx "dmserver/internal/transport/http"
	"dmserver/internal/transport/ws"
	"dmserver/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "dmserver",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("dmserver")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if cfg.AutoMigrate {
		if err := st.AutoMigrate(); err != nil {
			logger.Error("automigrate", "error", err)
			os.Exit(1)
		}
	}

	tokens := service.NewTokenService(service.TokenConfig{
		Issuer:     cfg.Issuer,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	auth := service.NewAuthService(st, tokens)
	chats := service.NewChatService(st)
	messages := service.NewMessageService(st)

	router := presence.NewRouter()
	delivery := service.NewDelivery(chats, messages, router)

	wsHandler := ws.NewHandler(tokens, chats, delivery, router)
	handler := httpx.NewRouter(
		httpx.NewHandler(auth, chats, messages, delivery),
		tokens,
		wsHandler,
		httpx.RouterConfig{CORSOrigins: cfg.CORSOrigins},
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
