package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	intconfig "pearlcard/internal/config"
	"pearlcard/internal/fareclient"
	"pearlcard/internal/journeys"
	"pearlcard/internal/services"
	"pearlcard/internal/utils"
)

type historyFlags struct {
	priceOp string
	price   string
	from    string
	to      string
	sort    string
	dir     string
	page    int
	csv     bool
}

func historyCmd() *cobra.Command {
	var f historyFlags
	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "Show a user's journey history",
		Long: `Fetch a user's journeys from the fare service and show one page of them,
filtered and sorted like the portal's history view. --csv prints every
matching journey as CSV instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := intconfig.LoadEnv()
			loc, err := utils.LoadLocation(env.DisplayTimezone)
			if err != nil {
				return fmt.Errorf("display timezone: %w", err)
			}

			svc := services.HistoryService{Gateway: fareclient.New(env.FareServiceURL, env.FareServiceTimeout)}
			q := journeys.Query{
				Filter: journeys.Filter{
					Price:    journeys.PriceFilter{Operator: journeys.ParseOperator(f.priceOp), Value: f.price},
					FromZone: f.from,
					ToZone:   f.to,
				},
				Sort: journeys.SortSpec{Key: journeys.ParseSortKey(f.sort), Direction: journeys.ParseDirection(f.dir)},
				Page: journeys.PageSpec{Size: journeys.DefaultPageSize, Current: f.page},
			}

			if f.csv {
				body, _, err := svc.Export(cmd.Context(), args[0], q, loc)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			view, err := svc.View(cmd.Context(), args[0], q, true)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), args[0], view, loc)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.priceOp, "price-op", "", "price comparison: >, <, = (or gt, lt, eq)")
	cmd.Flags().StringVar(&f.price, "price", "", "price to compare against")
	cmd.Flags().StringVar(&f.from, "from", "", "only journeys starting in this zone")
	cmd.Flags().StringVar(&f.to, "to", "", "only journeys ending in this zone")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort column: timestamp, from_zone, to_zone, fare")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "sort direction: asc or desc")
	cmd.Flags().IntVar(&f.page, "page", 1, "page to show")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "print all matching journeys as CSV")
	return cmd
}
