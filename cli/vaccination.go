package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"covid-dashboard/models"
	"covid-dashboard/services"
)

type VaccinationCmd struct{}

func NewVaccinationCmd() *VaccinationCmd {
	return &VaccinationCmd{}
}

func (c *VaccinationCmd) Command() *cobra.Command {
	var metric string
	var countries []string
	cmd := &cobra.Command{
		Use:   "vaccination",
		Short: "Show a vaccination metric by income class, continent and country",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := models.Metric(metric)
			if !m.IsVaccination() {
				names := make([]string, 0, len(models.VaccinationMetrics))
				for _, vm := range models.VaccinationMetrics {
					names = append(names, string(vm))
				}
				return fmt.Errorf("unknown metric %q, want one of: %s", metric, strings.Join(names, ", "))
			}
			return withApp(cmd, func(_ context.Context, a *app, snap *models.Snapshot) error {
				view, err := a.views.Vaccination(snap, services.Selection{
					Countries: countries,
					Metric:    m,
					Log:       a.logScale,
				})
				if err != nil {
					return err
				}
				return a.emit(view)
			})
		},
	}
	cmd.Flags().StringVar(&metric, "metric", string(models.MetricTotalVaccinations), "vaccination metric to show")
	cmd.Flags().StringSliceVar(&countries, "countries", nil, "countries to compare")
	return cmd
}
