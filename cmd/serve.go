// cmd/serve.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwarner/routinepanel/internal/db"
	"github.com/cwarner/routinepanel/internal/log"
	"github.com/cwarner/routinepanel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the routinepanel server",
	Long:  `Starts the HTTP server with the routines panel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		port, _ := cmd.Flags().GetInt("port")
		host, _ := cmd.Flags().GetString("host")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		// Check if catalog exists
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("catalog not found at %s. Run 'routinepanel init' first", dbPath)
		}

		if err := log.Init(buildLogConfig(cmd)); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer database.Close()

		// Run migrations in case the schema is outdated
		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		dbName := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))

		srv := server.New(database, server.Config{
			DatabaseName: dbName,
			PageSize:     pageSize,
		})

		addr := fmt.Sprintf("%s:%d", host, port)
		fmt.Printf("Starting routinepanel on %s\n", addr)
		fmt.Printf("  Panel: http://%s/panel/routines\n", addr)

		return srv.ListenAndServe(addr)
	},
}

// buildLogConfig creates a log.Config from environment variables and CLI flags.
// Priority: CLI flags > environment variables > defaults
func buildLogConfig(cmd *cobra.Command) *log.Config {
	cfg := log.DefaultConfig()

	if mode := os.Getenv("ROUTINEPANEL_LOG_MODE"); mode != "" {
		cfg.Mode = mode
	}
	if level := os.Getenv("ROUTINEPANEL_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("ROUTINEPANEL_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	if path := os.Getenv("ROUTINEPANEL_LOG_FILE"); path != "" {
		cfg.FilePath = path
	}
	if size := os.Getenv("ROUTINEPANEL_LOG_MAX_SIZE_MB"); size != "" {
		if mb, err := strconv.Atoi(size); err == nil {
			cfg.MaxSizeMB = mb
		}
	}

	if mode, _ := cmd.Flags().GetString("log-mode"); mode != "" {
		cfg.Mode = mode
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Format = format
	}

	return cfg
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("db", "routines.db", "Path to catalog file")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("page-size", 25, "Routines per listing page")
	serveCmd.Flags().String("log-mode", "", "Log mode: console or file (default: console)")
	serveCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	serveCmd.Flags().String("log-format", "", "Log format: text or json (default: text)")
}
