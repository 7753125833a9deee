package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/redmonkez12/notebook-api/docs" // Swagger docs
	"github.com/redmonkez12/notebook-api/internal/auth"
	"github.com/redmonkez12/notebook-api/internal/config"
	"github.com/redmonkez12/notebook-api/internal/data"
	"github.com/redmonkez12/notebook-api/internal/database"
	httpServer "github.com/redmonkez12/notebook-api/internal/http"
	"github.com/redmonkez12/notebook-api/internal/logging"
	"github.com/redmonkez12/notebook-api/internal/ratelimit"
)

// @title           Notebook API
// @version         1.0
// @description     Account registration and login for the notebook application.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	rootCmd := &cobra.Command{
		Use:           "notebook-api",
		Short:         "Notebook account API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE:  runMigrate,
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	// Allow running without subcommand (default to serve)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logging.SetDefault(logger)

	sqlDB, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(cmd.Context(), sqlDB); err != nil {
		return err
	}

	logger.Info("migrations applied")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// A missing or short JWT secret fails here, before anything listens.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logging.SetDefault(logger)
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	sqlDB, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer sqlDB.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.Migrate(cmd.Context(), sqlDB); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	db := database.NewBunDB(sqlDB)
	store := data.NewBunStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Jwt)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	var rateLimiter auth.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := initRedis(cmd.Context(), cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		rateLimiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	authService := auth.NewService(store, jwtService, logger)
	authHandler := auth.NewHandler(authService, rateLimiter)
	authMiddleware := auth.NewMiddleware(jwtService)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis connects to Redis and verifies the connection.
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
