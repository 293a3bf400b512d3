package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/nvasko/gatherly/internal/api"
	"github.com/nvasko/gatherly/internal/auth"
	"github.com/nvasko/gatherly/internal/config"
	"github.com/nvasko/gatherly/internal/service"
	"github.com/nvasko/gatherly/internal/storage/sqlite"
	"github.com/nvasko/gatherly/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	handler := api.NewHandler(
		service.NewMembershipService(store),
		service.NewExpenseService(store),
		service.NewQueryService(store),
		authenticator,
		jwtManager,
	)

	addr := cfg.Addr()
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler.Routes()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
