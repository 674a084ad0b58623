package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	battleQueries "github.com/andrescamacho/portbattle-go/internal/application/battle/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
)

// NewBattleCommand creates the battle command with subcommands
func NewBattleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Inspect port battles",
		Long: `Inspect port battles and their fleet compositions.

Examples:
  portbattle battle list --start 2026-03-01 --end 2026-03-15
  portbattle battle show <battle-id>`,
	}

	cmd.AddCommand(newBattleListCommand())
	cmd.AddCommand(newBattleShowCommand())

	return cmd
}

func newBattleListCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List battles, optionally within a meetup window",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			query := &battleQueries.ListBattlesQuery{}
			if query.Start, err = parseTimeFlag("start", start); err != nil {
				return err
			}
			if query.End, err = parseTimeFlag("end", end); err != nil {
				return err
			}
			resp, err := mediator.Send[*battleQueries.ListBattlesResponse](rt.ctx, rt.mediator, query)
			if err != nil {
				return fmt.Errorf("failed to list battles: %w", err)
			}

			if jsonOutput {
				return printJSON(resp)
			}
			if resp.IsMockData {
				fmt.Println("Warning: database unavailable, showing mock data")
			}
			if len(resp.Battles) == 0 {
				fmt.Println("No battles found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPORT\tMEETUP\tWATER\tBR\tSTATUS")
			for _, b := range resp.Battles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					b.ID, b.PortName, b.MeetupTime.Format("2006-01-02 15:04"), b.WaterType, b.BRLimit, b.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Window start (RFC 3339 or 2006-01-02)")
	cmd.Flags().StringVar(&end, "end", "", "Window end (RFC 3339 or 2006-01-02)")
	return cmd
}

func newBattleShowCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show [battle-id]",
		Short: "Show a battle with its setups, roles and signups",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBattle(args)
			if err != nil {
				return err
			}

			rt, cleanup, err := openRuntime()
			if err != nil {
				return err
			}
			defer cleanup()

			agg, err := mediator.Send[*dtos.BattleAggregateDTO](rt.ctx, rt.mediator, &battleQueries.GetBattleQuery{BattleID: id})
			if err != nil {
				return fmt.Errorf("failed to load battle: %w", err)
			}

			if jsonOutput {
				return printJSON(agg)
			}
			fmt.Print(NewTreeFormatter(!noColor).FormatBattle(agg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	return cmd
}

// parseTimeFlag accepts an RFC 3339 timestamp or a bare date in UTC
func parseTimeFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --%s %q: use RFC 3339 or YYYY-MM-DD", name, value)
}
