package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chepyr/go-todo-list/internal/config"
	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/handlers"
	"github.com/chepyr/go-todo-list/internal/logging"
	"github.com/chepyr/go-todo-list/internal/web"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("Invalid configuration", err)
	}
	initLogger(cfg)

	repo, closer := initStore(cfg)
	defer func() {
		if err := closer.Close(); err != nil {
			slog.Error("Error closing store", "err", err)
		}
	}()

	server := initServer(cfg, repo)
	startServer(server)
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func initLogger(cfg *config.Config) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fatal("Invalid logging configuration", err)
	}
	slog.SetDefault(logger)
}

func initStore(cfg *config.Config) (db.TodoRepositoryInterface, io.Closer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("Opening todo store", "store", cfg.Store)
	repo, closer, err := db.Open(ctx, cfg)
	if err != nil {
		fatal("Failed to open todo store", err)
	}
	slog.Info("Ensured todos table exists", "store", cfg.Store)
	return repo, closer
}

func initServer(cfg *config.Config, repo db.TodoRepositoryInterface) *http.Server {
	handler := &handlers.Handler{TodoRepo: repo}
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handlers.NewRouter(handler, web.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func startServer(server *http.Server) {
	slog.Info("Starting todo server", "addr", server.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Shutting down server", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "err", err)
		return
	}
	slog.Info("Server stopped")
}
