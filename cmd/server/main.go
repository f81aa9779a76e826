package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mhofer/pizzapool/internal/api"
	"github.com/mhofer/pizzapool/internal/auth"
	"github.com/mhofer/pizzapool/internal/config"
	"github.com/mhofer/pizzapool/internal/service"
	"github.com/mhofer/pizzapool/internal/storage/sqlite"
	"github.com/mhofer/pizzapool/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenLifetime)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)
	orderService := service.NewOrderService(store)

	router := api.NewRouter(authService, orderService, jwtManager)

	// h2c lets clients speak HTTP/2 without TLS, for deployments behind a
	// TLS-terminating proxy.
	handler := h2c.NewHandler(router, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
