package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	api "github.com/andrescamacho/portbattle-go/internal/adapters/http"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
)

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue bearer tokens for the REST API",
	}

	var (
		userID    string
		discordID string
		name      string
		roles     []string
		ttl       time.Duration
	)

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token with the configured secret",
		Long: `Sign an HS256 bearer token for the REST API using auth.jwt_secret.
Intended for operators and local testing; production tokens come from the
identity provider.

Example:
  portbattle token issue --user admin-1 --roles officer --ttl 12h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret is not configured")
			}
			if userID == "" && discordID == "" {
				return fmt.Errorf("either --user or --discord is required")
			}

			token, err := api.SignToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, auth.Identity{
				UserID:      userID,
				DiscordID:   discordID,
				DisplayName: name,
				Roles:       roles,
			}, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Println(token)
			return nil
		},
	}

	issue.Flags().StringVar(&userID, "user", "", "Platform user id (token subject)")
	issue.Flags().StringVar(&discordID, "discord", "", "Discord id")
	issue.Flags().StringVar(&name, "name", "", "Display name")
	issue.Flags().StringSliceVar(&roles, "roles", nil, "Roles carried by the token")
	issue.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")

	cmd.AddCommand(issue)
	return cmd
}
