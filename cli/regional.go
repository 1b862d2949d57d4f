package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"covid-dashboard/models"
	"covid-dashboard/services"
)

type RegionalCmd struct{}

func NewRegionalCmd() *RegionalCmd {
	return &RegionalCmd{}
}

func (c *RegionalCmd) Command() *cobra.Command {
	var region string
	var countries []string
	cmd := &cobra.Command{
		Use:   "regional",
		Short: "Show case counts for the countries of a region",
		RunE: func(cmd *cobra.Command, args []string) error {
			if region == "" && len(countries) == 0 {
				return fmt.Errorf("either --region or --countries is required")
			}
			return withApp(cmd, func(_ context.Context, a *app, snap *models.Snapshot) error {
				selected := countries
				if !cmd.Flags().Changed("countries") {
					selected = services.Countries(snap, region)
				}
				if region != "" {
					fmt.Fprintf(a.out, "These are the reported cases for countries in %s: %s.\n\n",
						region, strings.Join(services.Countries(snap, region), ", "))
				}
				view, err := a.views.Regional(snap, services.Selection{
					Region:    region,
					Countries: selected,
					Log:       a.logScale,
				})
				if err != nil {
					return err
				}
				return a.emit(view)
			})
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region to show")
	cmd.Flags().StringSliceVar(&countries, "countries", nil, "countries to show (default: every country of the region)")
	return cmd
}
