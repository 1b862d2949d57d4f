package cli

import (
	"context"

	"github.com/spf13/cobra"

	"covid-dashboard/models"
)

type CountryCmd struct{}

func NewCountryCmd() *CountryCmd {
	return &CountryCmd{}
}

func (c *CountryCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "country <name>",
		Short: "Show cumulative cases, active cases and fatality rate for one country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, a *app, snap *models.Snapshot) error {
				view, err := a.views.Country(snap, args[0], a.logScale)
				if err != nil {
					return err
				}
				if err := a.emit(&view.View); err != nil {
					return err
				}
				renderSummary(a.out, view.Summary)
				return nil
			})
		},
	}
	return cmd
}
