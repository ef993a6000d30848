package cli

import (
	"github.com/spf13/cobra"
)

func newMeCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in manager and stadium",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result State
			var err error
			if refresh {
				err = client.Post(cmd.Context(), "/api/v1/me/refresh", nil, &result)
			} else {
				err = client.Get(cmd.Context(), "/api/v1/me", &result)
			}
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Reload the profile before showing it")

	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Dashboard
			if err := client.Get(cmd.Context(), "/api/v1/dashboard", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
