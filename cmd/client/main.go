package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/crmsync/internal/client/api"
	"github.com/iudanet/crmsync/internal/client/auth"
	"github.com/iudanet/crmsync/internal/client/cli"
	"github.com/iudanet/crmsync/internal/client/data"
	"github.com/iudanet/crmsync/internal/client/iocli"
	"github.com/iudanet/crmsync/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOrDefault("CRMSYNC_SERVER", "http://localhost:8080"), "Server URL")
	dbPath := flag.String("db", envOrDefault("CRMSYNC_CLIENT_DB", "crmsync-client.db"), "Path to local database")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) == 0 {
		cli.New(nil, nil, nil).PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	// Контекст отменяется по Ctrl+C, watch живет до прерывания
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)
	authService := auth.NewAuthService(apiClient, boltStorage, logger)
	dataService := data.NewService(apiClient, boltStorage, boltStorage, logger)
	defer dataService.Close()

	// Восстанавливаем сессию до выполнения команды. Без сессии команды
	// чтения все равно могут отдать офлайн-снапшот.
	if command != "login" {
		if _, err := authService.AccessToken(ctx); err != nil {
			logger.Debug("no active session", "error", err)
		}
	}

	app := cli.New(iocli.NewStdio(), authService, dataService)
	if err := app.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printVersion() {
	fmt.Printf("CRMSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
