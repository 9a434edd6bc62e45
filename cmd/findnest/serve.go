package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/findnest/findnest/internal/api"
	"github.com/findnest/findnest/internal/config"
	"github.com/findnest/findnest/internal/db"
	"github.com/findnest/findnest/internal/metrics"
	"github.com/findnest/findnest/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		// First run: create the database and an admin account.
		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			database, password, err := initDatabase(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}
			database.Close()

			fmt.Printf("Database created: %s\n", cfg.DBPath)
			fmt.Println()
			fmt.Println("Admin account created:")
			fmt.Printf("  Username: admin\n")
			fmt.Printf("  Password: %s\n", password)
			fmt.Println()
			fmt.Println("Save this password, it cannot be recovered.")
			fmt.Println()
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Migrations are idempotent.
		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		// Use the configured JWT secret if set, otherwise a generated
		// one persisted in the settings table so tokens survive restarts.
		jwtSecret := cfg.JWTSecret
		if jwtSecret == "" {
			jwtSecret, err = store.GetJWTSecret(context.Background(), database)
			if err != nil {
				return fmt.Errorf("loading jwt secret: %w", err)
			}
		}

		m := metrics.New("api")

		mux := http.NewServeMux()
		mux.Handle("/api/", api.NewRouter(database, jwtSecret))
		mux.Handle("GET /metrics", metrics.Handler())

		handler := api.LoggingMiddleware(m.Middleware(mux))

		slog.Info("server listening", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}
