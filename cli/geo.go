package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"covid-dashboard/models"
	"covid-dashboard/services"
)

type GeoCmd struct{}

func NewGeoCmd() *GeoCmd {
	return &GeoCmd{}
}

func (c *GeoCmd) Command() *cobra.Command {
	var continent, region string
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "List continents, the regions of a continent or the countries of a region",
		RunE: func(cmd *cobra.Command, args []string) error {
			if region == "" && continent == "" {
				renderList(cmd.OutOrStdout(), "Continent", services.Continents())
				return nil
			}
			return withApp(cmd, func(_ context.Context, a *app, snap *models.Snapshot) error {
				if region != "" {
					countries := services.Countries(snap, region)
					if len(countries) == 0 {
						return fmt.Errorf("no countries in region %q", region)
					}
					renderList(a.out, "Country", countries)
					return nil
				}
				regions := services.Regions(snap, continent)
				if len(regions) == 0 {
					return fmt.Errorf("no regions in continent %q", continent)
				}
				renderList(a.out, "Region", regions)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&continent, "continent", "", "list the regions of this continent")
	cmd.Flags().StringVar(&region, "region", "", "list the countries of this region")
	return cmd
}
