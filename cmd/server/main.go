package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	_ "teamdesk/docs" // swagger docs

	"teamdesk/internal/auth"
	"teamdesk/internal/cache"
	"teamdesk/internal/config"
	"teamdesk/internal/db"
	"teamdesk/internal/handler"
	"teamdesk/internal/logging"
	"teamdesk/internal/metrics"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
	"teamdesk/internal/router"
	"teamdesk/internal/service"
)

// @title TeamDesk API
// @version 1.0
// @description Team productivity API: tasks, invoices, quick links, clients and session authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionToken
// @in header
// @name x-auth-token
// @description Session token returned by register and login.
func main() {
	var configFile string
	cmd := &cobra.Command{
		Use:           "teamdesk-server",
		Short:         "Run the TeamDesk HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file path (YAML, JSON or TOML)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	store := db.NewStore(cfg.DBDriver, cfg.DBDSN,
		db.WithModels(model.All()...),
		db.WithLogger(logger),
	)
	defer store.Close()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(store)
	taskRepo := repository.NewTaskRepository(store)
	invoiceRepo := repository.NewInvoiceRepository(store)
	quickLinkRepo := repository.NewQuickLinkRepository(store)
	clientRepo := repository.NewClientRepository(store)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, auth.WithTTL(cfg.SessionTTL))

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, cacheClient, service.AdminSeed{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, logger)
	userService := service.NewUserService(userRepo, cacheClient)
	taskService := service.NewTaskService(taskRepo, userService, logger)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, clientRepo, logger)
	quickLinkService := service.NewQuickLinkService(quickLinkRepo, cacheClient)
	clientService := service.NewClientService(clientRepo)

	store.OnConnect(authService.SeedAdmin)

	// The API serves degraded responses until the store comes up.
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if _, err := store.DB(connectCtx); err != nil {
		logger.Warn("database unreachable at startup, will retry on demand", slog.String("error", err.Error()))
	}
	cancel()

	var cachePinger handler.Pinger
	if cacheClient != nil {
		cachePinger = cacheClient
	}

	m := metrics.New()
	e := echo.New()
	router.Register(e, cfg, logger, m, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, m),
		Users:     handler.NewUserHandler(userService),
		Tasks:     handler.NewTaskHandler(taskService),
		Invoices:  handler.NewInvoiceHandler(invoiceService),
		QuickLink: handler.NewQuickLinkHandler(quickLinkService),
		Clients:   handler.NewClientHandler(clientService),
		Health:    handler.NewHealthHandler(store, cachePinger),
	})

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	logger.Info("swagger documentation available", slog.String("url", "http://"+swaggerHost+"/swagger/index.html"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return e.Shutdown(shutdownCtx)
}
