package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/solthron/autopilot/internal"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the enhancement service",
	Long: `Exchange your account credentials for an access token. The token is
persisted in the local store and attached to every API request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		password := loginPassword
		if password == "" {
			fmt.Print("Password: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		auth := internal.NewAuth(store, newGateway(store))
		if err := auth.Login(context.Background(), email, password); err != nil {
			return err
		}
		internal.PrintSuccess("logged in")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := internal.NewAuth(store, newGateway(store)).Logout(); err != nil {
			return err
		}
		internal.PrintSuccess("logged out")
		return nil
	},
}

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Show the account's remaining credit balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		auth := internal.NewAuth(store, newGateway(store))
		if !auth.LoggedIn(context.Background()) {
			return fmt.Errorf("not logged in, run 'autopilot login' first")
		}
		balance, err := auth.Credits(context.Background())
		if err != nil {
			return fmt.Errorf("%s", internal.UserMessage(err))
		}
		internal.PrintInfo(fmt.Sprintf("%d credits remaining", balance))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(creditsCmd)
}
