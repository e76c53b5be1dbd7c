package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vaughan-dsouza/alramy/internal/config"
	"github.com/vaughan-dsouza/alramy/internal/db"
	"github.com/vaughan-dsouza/alramy/internal/logging"
	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/server"
	"github.com/vaughan-dsouza/alramy/internal/store"
)

var (
	cfg    config.Config
	logger *zap.Logger

	promoteEmail string
	promoteRole  string
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Al-Ramy Blog server",
	Long: `Serves the blog JSON API under /api, the admin dashboard under /admin
and the public webapp at /.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvErr := config.LoadDotEnv()

		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.LogLevel, cfg.Production()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if dotenvErr != nil {
			logger.Warn("could not read .env", zap.Error(dotenvErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()
		logger.Info("schema up to date", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Change a user's role",
	Example: `  api promote --email ann@example.com --role ADMIN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := models.ParseRole(promoteRole)
		if err != nil {
			return err
		}

		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		u, err := store.New(database).SetRole(cmd.Context(), promoteEmail, role)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no user with email %q", promoteEmail)
		}
		if err != nil {
			return err
		}
		logger.Info("role changed", zap.String("user_id", u.ID), zap.String("role", u.Role.String()))
		return nil
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "email of the user to change")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(models.RoleAdmin), "new role (ADMIN, MODERATOR or USER)")
	_ = promoteCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(serveCmd, migrateCmd, promoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB connects and brings the schema up to date.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return database, nil
}

func serve(ctx context.Context) error {
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	srv, err := server.New(cfg, database, logger)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
