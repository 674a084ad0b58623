package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
)

// NewCatalogCommand creates the catalog command
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse ships, nations and water types",
	}

	cmd.AddCommand(newCatalogShipsCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "nations",
		Short: "List nations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range catalog.NewStaticCatalog().Nations() {
				fmt.Println(n)
			}
			return nil
		},
	})

	return cmd
}

func newCatalogShipsCommand() *cobra.Command {
	var rate, water string

	cmd := &cobra.Command{
		Use:   "ships",
		Short: "List ships with their battle rating",
		Long: `List ships ordered by BR, optionally filtered by rate or water type.

Examples:
  portbattle catalog ships
  portbattle catalog ships --rate 5th
  portbattle catalog ships --water shallow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.NewStaticCatalog()
			ships := cat.Ships()

			if rate != "" {
				r, ok := catalog.ParseRate(rate)
				if !ok {
					return fmt.Errorf("unknown rate %q", rate)
				}
				ships = cat.ShipsByRate(r)
			}
			if water != "" {
				wt, err := catalog.ParseWaterType(water)
				if err != nil {
					return err
				}
				allowed := ships[:0:0]
				for _, s := range ships {
					if cat.AllowedInWater(s, wt) {
						allowed = append(allowed, s)
					}
				}
				ships = allowed
			}

			if jsonOutput {
				return printJSON(ships)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHIP\tRATE\tBR")
			for _, s := range ships {
				fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, s.Rate, s.BR)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&rate, "rate", "", "Rate filter, e.g. 4th")
	cmd.Flags().StringVar(&water, "water", "", "Water type filter: deep or shallow")
	return cmd
}
