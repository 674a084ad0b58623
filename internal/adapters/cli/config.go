package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	battleQueries "github.com/andrescamacho/portbattle-go/internal/application/battle/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage port battle configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (PB_* prefix, plus DATABASE_URL)
2. Config file (config.yaml)
3. Default values

User preferences (default actor and battle) are stored in ~/.portbattle/config.json

Examples:
  portbattle config show
  portbattle config set-actor admin-1
  portbattle config set-battle <battle-id>
  portbattle config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetActorCommand())
	cmd.AddCommand(newConfigSetBattleCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println("Port Battle Configuration")
			fmt.Println("=========================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Printf("  Default Actor:    %s\n", orNotSet(userCfg.DefaultActor))
			fmt.Printf("  Default Battle:   %s\n", orNotSet(userCfg.DefaultBattleID))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nHTTP:")
			fmt.Printf("  Address:          %s\n", cfg.HTTP.Address)
			fmt.Printf("  Signup Limit:     %d/min per client\n", cfg.HTTP.SignupRateLimit)
			fmt.Printf("  Auth:             %s\n", authMode(cfg.Auth))
			fmt.Printf("  Admins:           %d configured\n", len(cfg.Auth.AdminIDs))

			fmt.Println("\nHealth (gRPC):")
			fmt.Printf("  Address:          %s\n", orNotSet(cfg.GRPC.HealthAddress))
			fmt.Printf("  Ping Interval:    %s\n", cfg.GRPC.PingInterval)

			fmt.Println("\nNotifications:")
			fmt.Printf("  Discord Webhook:  %t\n", cfg.Notify.Enabled())

			fmt.Println("\nMembership:")
			fmt.Printf("  Cooldown:         %d days\n", cfg.Membership.DefaultCooldownDays)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)

			return nil
		},
	}
}

// newConfigSetActorCommand creates the config set-actor subcommand
func newConfigSetActorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-actor <user-id>",
		Short: "Set the default identity commands act as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultActor(args[0]); err != nil {
				return fmt.Errorf("failed to set default actor: %w", err)
			}

			fmt.Println("✓ Default actor set")
			fmt.Printf("  Actor: %s\n", args[0])
			fmt.Println("\nOverride with --actor.")
			return nil
		},
	}
}

// newConfigSetBattleCommand creates the config set-battle subcommand
func newConfigSetBattleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-battle <battle-id>",
		Short: "Set the default battle",
		Long: `Set the battle used by commands when --battle is omitted.
The battle must exist in the configured database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			// Verify battle exists
			agg, err := mediator.Send[*dtos.BattleAggregateDTO](rt.ctx, rt.mediator,
				&battleQueries.GetBattleQuery{BattleID: args[0]})
			if err != nil {
				return fmt.Errorf("battle %s not found: %w", args[0], err)
			}

			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultBattle(agg.Battle.ID); err != nil {
				return fmt.Errorf("failed to set default battle: %w", err)
			}

			fmt.Println("✓ Default battle set")
			fmt.Printf("  Battle: %s (%s, %s)\n", agg.Battle.PortName, agg.Battle.ID, agg.Battle.Status)
			return nil
		},
	}
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			fmt.Println("✓ User preferences cleared")
			return nil
		},
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func authMode(a config.AuthConfig) string {
	if a.JWTSecret == "" {
		return "disabled (every caller is anonymous)"
	}
	return "HS256 bearer tokens"
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
