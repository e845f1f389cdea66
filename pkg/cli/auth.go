package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/tasktrack/pkg/auth"
)

func (a *app) authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		Long: `Run the OAuth flow against the credentials.json in ~/.config/tasktrack and
cache a fresh token. Any existing token is discarded first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenFile, err := auth.TokenPath()
			if err != nil {
				return fmt.Errorf("could not find path to token file: %w", err)
			}
			log.Printf("Removing existing token file at '%s'", tokenFile)
			if err := auth.RemoveToken(); err != nil {
				return fmt.Errorf("%w. Please delete it manually", err)
			}

			if _, err := auth.GetCalendarService(cmd.Context()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved to %s\n", tokenFile)
			return nil
		},
	}
}
