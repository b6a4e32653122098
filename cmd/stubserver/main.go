package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/accessguard/console/config"
	"github.com/accessguard/console/stubserver"
)

func main() {
	// Load environment variables from .env file, when present
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	router := stubserver.New(cfg.StubSecret).Router()
	addr := fmt.Sprintf(":%d", cfg.StubPort)

	fmt.Printf("🚀 AccessGuard stub backend starting on %s\n", addr)
	fmt.Printf("🔑 Seeded admin account: admin / admin123\n")

	if err := http.ListenAndServe(addr, middleware.Logger(router)); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
