package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rangers/internal/database"
	"rangers/internal/handlers"
	"rangers/internal/logger"
	"rangers/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Initialize(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := prepareDatabase(db, cfg.CatalogPath); err != nil {
			return err
		}

		if !cfg.IsDevelopment() {
			gin.SetMode(gin.ReleaseMode)
		}
		if cfg.APITokenHash == "" {
			logger.Warn("API_TOKEN_HASH is not set, write routes are unauthenticated")
		}

		r := gin.New()
		r.Use(gin.Recovery())
		r.Use(middleware.CORS(cfg.AllowedOrigins))
		r.Use(middleware.RateLimit(cfg))
		r.Use(middleware.WriteRateLimit(cfg))

		handlers.SetupRoutes(r, db, cfg)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
