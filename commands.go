package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservations/config"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/hub"
	"github.com/yeremiapane/restaurant-reservations/router"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/gorm"
)

var (
	envFile string
	port    string
)

var rootCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Restaurant table reservation API",
	Long: `Restaurant table reservation API.

Without a subcommand the HTTP server is started (same as "serve").`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := bootstrap()
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path of the .env file to load")
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads .env and configures the ambient stack shared by all commands.
func bootstrap() config.Config {
	envErr := godotenv.Load(envFile)

	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		utils.InfoLogger.Warnf("Warning: %s not loaded: %v", envFile, envErr)
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg
}

func runServe() error {
	cfg := bootstrap()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to connect to database: %v", err)
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	h := hub.New()

	monitor := services.NewOccupancyMonitor(db, h, cfg.OccupancyInterval, cfg.OccupancyWindow)
	monitor.Start()
	defer monitor.Stop()

	return serve(cfg, db, h)
}

func serve(cfg config.Config, db *gorm.DB, h *hub.Hub) error {
	r := router.SetupRouter(db, cfg, h)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		utils.InfoLogger.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Server shutdown: %v", err)
		return err
	}
	utils.InfoLogger.Info("Server stopped")
	return nil
}
