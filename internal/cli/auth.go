package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and manage passwords",
	}

	cmd.AddCommand(newCredentialsCmd("signin", "Sign in with email and password", "/api/v1/auth/signin"))
	cmd.AddCommand(newCredentialsCmd("signup", "Create a new account", "/api/v1/auth/signup"))
	cmd.AddCommand(newAuthGoogleCmd())
	cmd.AddCommand(newAuthResetCmd())
	cmd.AddCommand(newAuthResetConfirmCmd())
	cmd.AddCommand(newAuthSignOutCmd())

	return cmd
}

// newCredentialsCmd builds signin and signup, which differ only by endpoint
func newCredentialsCmd(use, short, path string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"email": email, "password": password}
			var result AuthResult
			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}
			return saveSession(cmd, result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthGoogleCmd() *cobra.Command {
	var credential string

	cmd := &cobra.Command{
		Use:   "google",
		Short: "Sign in with a Google ID token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"credential": credential}
			var result AuthResult
			if err := client.Post(cmd.Context(), "/api/v1/auth/federated", req, &result); err != nil {
				return err
			}
			return saveSession(cmd, result)
		},
	}

	cmd.Flags().StringVar(&credential, "credential", "", "Google ID token (required)")
	_ = cmd.MarkFlagRequired("credential")

	return cmd
}

func newAuthResetCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Message
			if err := client.Post(cmd.Context(), "/api/v1/auth/reset", map[string]string{"email": email}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthResetConfirmCmd() *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-confirm",
		Short: "Set a new password using a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"token": token, "password": password}
			if err := client.Post(cmd.Context(), "/api/v1/auth/reset/confirm", req, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Password updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "reset-token", "", "Token from the reset email (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password (required)")
	_ = cmd.MarkFlagRequired("reset-token")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not signed in")
			}

			// A token the server no longer knows is as good as signed out
			var result State
			err := client.Post(cmd.Context(), "/api/v1/auth/signout", nil, &result)
			var apiErr *APIError
			if err != nil && !(errors.As(err, &apiErr) && apiErr.Code == "UNAUTHORIZED") {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func saveSession(cmd *cobra.Command, result AuthResult) error {
	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
	return nil
}
