package cli

import (
	"fmt"

	"github.com/overlaphq/overlap-cli/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command, which shows or updates the
// persisted plugin configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the Overlap configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server-url")
			teamToken, _ := cmd.Flags().GetString("team-token")
			userToken, _ := cmd.Flags().GetString("user-token")

			cfg := config.Load()

			if serverURL == "" && teamToken == "" && userToken == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "config file: %s\n", config.File())
				fmt.Fprintf(cmd.OutOrStdout(), "server_url:  %s\n", orUnset(cfg.ServerURL))
				fmt.Fprintf(cmd.OutOrStdout(), "team_token:  %s\n", maskToken(cfg.TeamToken))
				fmt.Fprintf(cmd.OutOrStdout(), "user_token:  %s\n", maskToken(cfg.UserToken))
				if !cfg.IsConfigured() {
					fmt.Fprintln(cmd.OutOrStdout(), "\nnot fully configured: all three settings are required")
				}
				return nil
			}

			if serverURL != "" {
				cfg.ServerURL = serverURL
			}
			if teamToken != "" {
				cfg.TeamToken = teamToken
			}
			if userToken != "" {
				cfg.UserToken = userToken
			}

			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved config to %s\n", config.File())
			return nil
		},
	}

	cmd.Flags().String("server-url", "", "Overlap server base URL")
	cmd.Flags().String("team-token", "", "Team-scoped credential")
	cmd.Flags().String("user-token", "", "User bearer credential")

	return cmd
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
