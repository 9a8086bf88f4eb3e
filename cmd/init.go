// cmd/init.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwarner/routinepanel/internal/db"
	"github.com/cwarner/routinepanel/internal/panel"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new routine catalog",
	Long:  `Creates a new SQLite catalog with the routine and panel tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		password, _ := cmd.Flags().GetString("password")

		// Check if file already exists
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("catalog already exists at %s", dbPath)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to create catalog: %w", err)
		}
		defer database.Close()

		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		// Set panel password if provided
		if password != "" {
			store := panel.NewStore(database.DB)
			auth := panel.NewAuth(store)
			if err := auth.SetupPassword(password); err != nil {
				return fmt.Errorf("failed to set panel password: %w", err)
			}
			fmt.Printf("Initialized catalog at %s with panel password\n", dbPath)
		} else {
			fmt.Printf("Initialized catalog at %s\n", dbPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("db", "routines.db", "Path to catalog file")
	initCmd.Flags().String("password", "", "Set panel password during initialization")
}
