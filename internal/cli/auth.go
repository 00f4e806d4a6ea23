package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringP("email", "e", "", "Account email")
	registerCmd.Flags().StringP("password", "p", "", "Account password")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if err := a.session.Login(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		user, _ := a.session.Identity()
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Email)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if err := a.session.Register(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		user, _ := a.session.Identity()
		fmt.Fprintf(cmd.OutOrStdout(), "Account created, logged in as %s\n", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		a.session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireAuth(); err != nil {
			return err
		}
		user, _ := a.session.Identity()
		fmt.Fprintln(cmd.OutOrStdout(), user.Email)
		return nil
	},
}
