package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/queries"
)

// NewCooldownCommand creates the membership cooldown command with subcommands
func NewCooldownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cooldown",
		Short: "Inspect and manage membership application cooldowns",
		Long: `Check when an identity may reapply, apply a cooldown, or lift one.
Applying and overriding require an admin actor.

Examples:
  portbattle cooldown check 123456789
  portbattle cooldown apply 123456789 --days 14 --reason "left mid-battle"
  portbattle cooldown override 123456789`,
	}

	cmd.AddCommand(newCooldownCheckCommand())
	cmd.AddCommand(newCooldownApplyCommand())
	cmd.AddCommand(newCooldownOverrideCommand())

	return cmd
}

func newCooldownCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <identity>",
		Short: "Check whether an identity may apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*queries.CheckEligibilityResponse](context.Background(), rt.mediator,
				&queries.CheckEligibilityQuery{IdentityKey: args[0]})
			if err != nil {
				return fmt.Errorf("failed to check eligibility: %w", err)
			}
			return printCooldown(resp.Cooldown)
		},
	}
}

func newCooldownApplyCommand() *cobra.Command {
	var (
		days   int
		reason string
	)

	cmd := &cobra.Command{
		Use:   "apply <identity>",
		Short: "Block an identity from applying for a number of days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*commands.CooldownResponse](rt.ctx, rt.mediator,
				&commands.ApplyCooldownCommand{IdentityKey: args[0], Days: days, Reason: reason})
			if err != nil {
				return fmt.Errorf("failed to apply cooldown: %w", err)
			}
			return printCooldown(resp.Cooldown)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Cooldown length in days")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the cooldown")
	return cmd
}

func newCooldownOverrideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "override <identity>",
		Short: "Lift an identity's cooldown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*commands.CooldownResponse](rt.ctx, rt.mediator,
				&commands.OverrideCooldownCommand{IdentityKey: args[0]})
			if err != nil {
				return fmt.Errorf("failed to override cooldown: %w", err)
			}
			return printCooldown(resp.Cooldown)
		},
	}
}

func printCooldown(c dtos.CooldownDTO) error {
	if jsonOutput {
		return printJSON(c)
	}
	if c.Eligible {
		fmt.Printf("✓ %s may apply\n", c.IdentityKey)
		if c.OverriddenBy != "" {
			fmt.Printf("  Cooldown lifted by %s\n", c.OverriddenBy)
		}
		return nil
	}
	fmt.Printf("✗ %s is on cooldown\n", c.IdentityKey)
	if c.CanReapplyAt != nil {
		fmt.Printf("  Can reapply: %s (in %s)\n", c.CanReapplyAt.Format(time.RFC3339), time.Until(*c.CanReapplyAt).Round(time.Hour))
	}
	if c.Reason != "" {
		fmt.Printf("  Reason:      %s\n", c.Reason)
	}
	return nil
}
