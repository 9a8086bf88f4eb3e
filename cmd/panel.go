// cmd/panel.go
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cwarner/routinepanel/internal/db"
	"github.com/cwarner/routinepanel/internal/panel"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Manage the panel",
	Long:  `Commands for managing the routinepanel admin surface.`,
}

var panelSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the panel password",
	Long:  `Set the initial panel password. Only works if no password has been set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer database.Close()

		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		store := panel.NewStore(database.DB)
		auth := panel.NewAuth(store)

		if !auth.NeedsSetup() {
			return fmt.Errorf("panel password already set, use 'panel reset-password' to change it")
		}

		password, err := promptPassword("Enter panel password: ")
		if err != nil {
			return err
		}

		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}

		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := auth.SetupPassword(password); err != nil {
			return fmt.Errorf("failed to set password: %w", err)
		}

		fmt.Println("Panel password set successfully")
		return nil
	},
}

var panelResetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset the panel password",
	Long:  `Change the panel password. This will invalidate any existing session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")

		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer database.Close()

		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		store := panel.NewStore(database.DB)
		auth := panel.NewAuth(store)

		password, err := promptPassword("Enter new panel password: ")
		if err != nil {
			return err
		}

		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}

		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := auth.ResetPassword(password); err != nil {
			return fmt.Errorf("failed to reset password: %w", err)
		}

		// Destroy any existing session
		sessions := panel.NewSessionManager(store)
		sessions.Destroy()

		fmt.Println("Panel password reset successfully")
		return nil
	},
}

// stdinReader is reused for non-terminal input to avoid losing buffered data
var stdinReader *bufio.Reader

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	// Try to read password securely (hides input)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println() // Add newline after hidden input
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	// Fallback for non-terminal (e.g., piped input)
	if stdinReader == nil {
		stdinReader = bufio.NewReader(os.Stdin)
	}
	password, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.AddCommand(panelSetupCmd)
	panelCmd.AddCommand(panelResetPasswordCmd)

	panelSetupCmd.Flags().String("db", "routines.db", "Path to the catalog file")
	panelResetPasswordCmd.Flags().String("db", "routines.db", "Path to the catalog file")
}
