package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	codeCommands "github.com/andrescamacho/portbattle-go/internal/application/captainscode/commands"
	codeQueries "github.com/andrescamacho/portbattle-go/internal/application/captainscode/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
)

// NewCodeCommand creates the captains code command with subcommands
func NewCodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Manage captains codes for external signups",
		Long: `Issue, list, validate and deactivate captains codes.
Issuing and deactivating require an admin actor.

Examples:
  portbattle code issue --battle <battle-id> --max-usage 3 --ttl 48h
  portbattle code list --battle <battle-id>
  portbattle code validate AB12CD34 --battle <battle-id>
  portbattle code deactivate AB12CD34`,
	}

	cmd.AddCommand(newCodeIssueCommand())
	cmd.AddCommand(newCodeListCommand())
	cmd.AddCommand(newCodeValidateCommand())
	cmd.AddCommand(newCodeDeactivateCommand())

	return cmd
}

func newCodeIssueCommand() *cobra.Command {
	var (
		maxUsage    int
		ttl         time.Duration
		description string
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new captains code",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBattle(nil)
			if err != nil {
				return err
			}
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*codeCommands.CodeResponse](rt.ctx, rt.mediator, &codeCommands.IssueCodeCommand{
				BattleID:    id,
				MaxUsage:    maxUsage,
				TTL:         ttl,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to issue code: %w", err)
			}

			if jsonOutput {
				return printJSON(resp.Code)
			}
			fmt.Println("✓ Captains code issued")
			fmt.Printf("  Code:      %s\n", resp.Code.Code)
			fmt.Printf("  Max usage: %d\n", resp.Code.MaxUsage)
			fmt.Printf("  Expires:   %s\n", resp.Code.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxUsage, "max-usage", 1, "Number of signups the code admits")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Code lifetime")
	cmd.Flags().StringVar(&description, "description", "", "Who the code is for")
	return cmd
}

func newCodeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List codes issued for a battle",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBattle(nil)
			if err != nil {
				return err
			}
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*codeQueries.ListCodesResponse](rt.ctx, rt.mediator, &codeQueries.ListCodesQuery{BattleID: id})
			if err != nil {
				return fmt.Errorf("failed to list codes: %w", err)
			}
			if jsonOutput {
				return printJSON(resp.Codes)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tACTIVE\tUSED\tEXPIRES\tDESCRIPTION")
			for _, c := range resp.Codes {
				fmt.Fprintf(w, "%s\t%t\t%d/%d\t%s\t%s\n",
					c.Code, c.IsActive, c.UsageCount, c.MaxUsage, c.ExpiresAt.Format("2006-01-02 15:04"), c.Description)
			}
			return w.Flush()
		},
	}
}

func newCodeValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <code>",
		Short: "Check whether a code can be redeemed for a battle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBattle(nil)
			if err != nil {
				return err
			}
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*codeQueries.ValidateCodeResponse](rt.ctx, rt.mediator,
				&codeQueries.ValidateCodeQuery{Code: args[0], BattleID: id})
			if err != nil {
				return fmt.Errorf("failed to validate code: %w", err)
			}
			if jsonOutput {
				return printJSON(resp)
			}

			if !resp.Valid {
				fmt.Printf("✗ Code rejected: %s\n", resp.Result)
				return nil
			}
			fmt.Println("✓ Code is valid")
			fmt.Printf("  Remaining uses: %d\n", resp.RemainingUses)
			if resp.ExpiresAt != nil {
				fmt.Printf("  Expires:        %s\n", resp.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newCodeDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <code>",
		Short: "Deactivate a code so it can no longer be redeemed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := mediator.Send[*codeCommands.CodeResponse](rt.ctx, rt.mediator, &codeCommands.DeactivateCodeCommand{Code: args[0]})
			if err != nil {
				return fmt.Errorf("failed to deactivate code: %w", err)
			}
			if jsonOutput {
				return printJSON(resp.Code)
			}
			fmt.Printf("✓ Code %s deactivated (%d/%d used)\n", resp.Code.Code, resp.Code.UsageCount, resp.Code.MaxUsage)
			return nil
		},
	}
}
