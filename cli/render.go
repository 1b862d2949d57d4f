package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"covid-dashboard/models"
	"covid-dashboard/services"
	"covid-dashboard/storage"
)

const dateLayout = "2006-01-02"

var printer = message.NewPrinter(language.English)

type column struct {
	group  string
	metric models.Metric
}

// pivot lays the points of a series out as one row per date and one column
// per group and metric, keeping only the last days dates. Columns keep the
// order in which they first appear.
func pivot(points []models.AggregatePoint, days int) ([]column, []time.Time, map[time.Time]map[column]float64) {
	var cols []column
	var dates []time.Time
	seenCol := make(map[column]struct{})
	cells := make(map[time.Time]map[column]float64)

	for _, p := range points {
		c := column{group: p.Group, metric: p.Metric}
		if _, ok := seenCol[c]; !ok {
			seenCol[c] = struct{}{}
			cols = append(cols, c)
		}
		row, ok := cells[p.Date]
		if !ok {
			row = make(map[column]float64)
			cells[p.Date] = row
			dates = append(dates, p.Date)
		}
		row[c] = p.Value
	}
	if days > 0 && len(dates) > days {
		dates = dates[len(dates)-days:]
	}
	return cols, dates, cells
}

func formatValue(v float64, m models.Metric, log bool) string {
	if log || m.Reduction() == models.ReduceMean {
		return printer.Sprintf("%.2f", v)
	}
	return printer.Sprintf("%.0f", v)
}

func columnHeader(c column, multiMetric bool) string {
	if multiMetric {
		return c.group + " " + string(c.metric)
	}
	return c.group
}

func renderSeries(w io.Writer, s services.Series, days int, log bool) {
	if len(s.Points) == 0 {
		fmt.Fprintf(w, "\n%s: no data\n", s.Name)
		return
	}
	cols, dates, cells := pivot(s.Points, days)

	metrics := make(map[models.Metric]struct{})
	for _, c := range cols {
		metrics[c.metric] = struct{}{}
	}
	multiMetric := len(metrics) > 1

	fmt.Fprintf(w, "\n%s\n", s.Name)
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetBorder(true)

	header := []string{"Date"}
	for _, c := range cols {
		header = append(header, columnHeader(c, multiMetric))
	}
	table.SetHeader(header)

	for _, d := range dates {
		row := []string{d.Format(dateLayout)}
		for _, c := range cols {
			v, ok := cells[d][c]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, formatValue(v, c.metric, log))
		}
		table.Append(row)
	}
	table.Render()
}

func renderView(w io.Writer, view *services.View, days int) {
	fmt.Fprintln(w, view.Title)
	if view.Log {
		fmt.Fprintf(w, "log scale, domain [%s, %s]\n",
			printer.Sprintf("%.0f", view.Domain.Min), printer.Sprintf("%.0f", view.Domain.Max))
	}
	for _, s := range view.Series {
		renderSeries(w, s, days, view.Log)
	}
}

func renderSummary(w io.Writer, s services.Summary) {
	if s.AsOf.IsZero() {
		fmt.Fprintf(w, "\n%s: no reports\n", s.Country)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader([]string{"Status", "Total", "Change"})
	table.Append([]string{"Confirmed", printer.Sprintf("%.0f", s.Confirmed), printer.Sprintf("%+.0f", s.NewConfirmed)})
	table.Append([]string{"Active", printer.Sprintf("%.0f", s.Active), printer.Sprintf("%+.0f", s.ActiveChange)})
	table.Append([]string{"Deaths", printer.Sprintf("%.0f", s.Deaths), printer.Sprintf("%+.0f", s.NewDeaths)})
	table.Append([]string{"Recovered", printer.Sprintf("%.0f", s.Recovered), printer.Sprintf("%+.0f", s.NewRecovered)})
	fatality := "n/a"
	if s.FatalityRate != nil {
		fatality = printer.Sprintf("%.2f %%", *s.FatalityRate)
	}
	table.Append([]string{"Fatality rate", fatality, ""})
	fmt.Fprintln(w)
	table.Render()

	share := "n/a"
	if s.NewCasesShare != nil {
		share = printer.Sprintf("%.2f%%", *s.NewCasesShare)
	}
	printer.Fprintf(w, "\n%s reported %.0f new cases on %s. This constitutes %s of the total number of confirmed cases in the country. "+
		"There are an additional %.0f confirmed deaths, for a total of %.0f. "+
		"There are %.0f recoveries recorded as of date for a total of %.0f. Active cases stand at %.0f.\n",
		s.Country, s.NewConfirmed, s.AsOf.Format(dateLayout), share,
		s.NewDeaths, s.Deaths, s.NewRecovered, s.Recovered, s.Active)
}

// exportView hands every series of view to the writer, unabridged.
func exportView(sw storage.SeriesWriter, view *services.View) error {
	for _, s := range view.Series {
		if err := sw.WriteSeries(view.Title, s.Name, s.Points); err != nil {
			return fmt.Errorf("export %s/%s: %w", view.Title, s.Name, err)
		}
	}
	return nil
}

func renderList(w io.Writer, title string, items []string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{title})
	for _, it := range items {
		table.Append([]string{it})
	}
	table.Render()
}
