package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	actor      string
	battleID   string
	jsonOutput bool
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portbattle",
		Short: "Port battle CLI - administer battles, codes and applications",
		Long: `Port battle CLI runs commands directly against the configured database,
using the same handlers as the REST server. Commands act as the identity given
by --actor or the default actor from ~/.portbattle/config.json.

Examples:
  portbattle migrate
  portbattle catalog ships --water shallow
  portbattle battle list
  portbattle battle show <battle-id>
  portbattle code issue --battle <battle-id> --max-usage 5 --ttl 24h
  portbattle cooldown check <identity>
  portbattle cooldown override <identity>
  portbattle token issue --user admin-1 --ttl 12h`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (defaults to ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "",
		"User id the command acts as (defaults to the configured actor)")
	rootCmd.PersistentFlags().StringVar(&battleID, "battle", "",
		"Battle id (defaults to the configured battle)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log every handler failure")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewBattleCommand())
	rootCmd.AddCommand(NewCodeCommand())
	rootCmd.AddCommand(NewCooldownCommand())
	rootCmd.AddCommand(NewTokenCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
