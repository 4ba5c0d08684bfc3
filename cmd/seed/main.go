package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"teamdesk/internal/auth"
	"teamdesk/internal/cache"
	"teamdesk/internal/config"
	"teamdesk/internal/db"
	"teamdesk/internal/logging"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
	"teamdesk/internal/service"
)

type seedOptions struct {
	configFile string
	email      string
	name       string
	password   string
	timeout    time.Duration
}

func main() {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:           "teamdesk-seed",
		Short:         "Create the administrator account if it does not exist",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Config file path (YAML, JSON or TOML)")
	cmd.Flags().StringVar(&opts.email, "email", "", "Admin email (overrides admin_email)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Admin display name (overrides admin_name)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Admin password (overrides admin_password)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Give up after this long")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts seedOptions) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	admin := service.AdminSeed{Name: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	if opts.email != "" {
		admin.Email = opts.email
	}
	if opts.name != "" {
		admin.Name = opts.name
	}
	if opts.password != "" {
		admin.Password = opts.password
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	store := db.NewStore(cfg.DBDriver, cfg.DBDSN, db.WithModels(model.All()...), db.WithLogger(logger))
	defer store.Close()
	if _, err := store.DB(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	logger.Info("connected to database", slog.String("driver", cfg.DBDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	authService := service.NewAuthService(
		repository.NewUserRepository(store),
		auth.NewJWTService(cfg.JWTSecret),
		cacheClient,
		admin,
		logger,
	)
	if err := authService.SeedAdmin(ctx); err != nil {
		return err
	}
	logger.Info("seed completed", slog.String("email", admin.Email))
	return nil
}
