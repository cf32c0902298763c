package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// Render writes the current lookup and the stored entries to w.
func Render(w io.Writer, s State) {
	switch {
	case s.Phase == PhaseLoading:
		fmt.Fprintln(w, "Loading...")
	case s.Error != "":
		fmt.Fprintln(w, s.Error)
	case s.Current != nil:
		renderCurrent(w, s)
		renderHourly(w, s.Hourly)
		renderForecast(w, s.Forecast)
	}
	fmt.Fprintln(w)
	RenderEntries(w, s.Entries)
}

func renderCurrent(w io.Writer, s State) {
	name := s.Query
	if s.Place != nil && s.Place.Name != "" {
		name = s.Place.Name
		if s.Place.Country != "" {
			name += ", " + s.Place.Country
		}
	}
	c := s.Current

	fmt.Fprintf(w, "Current weather in %s\n", name)
	fmt.Fprintf(w, "  Temperature: %s (feels like %s)\n", weather.FormatCelsius(c.TempC), weather.FormatCelsius(c.FeelsLikeC))
	fmt.Fprintf(w, "  Condition:   %s\n", c.Condition.Text)
	fmt.Fprintf(w, "  Humidity:    %s\n", weather.FormatPercent(c.Humidity))
	fmt.Fprintf(w, "  Wind:        %s km/h\n", formatNumber(c.WindKph))
}

func renderHourly(w io.Writer, hours []weather.Hour) {
	if len(hours) == 0 {
		return
	}
	fmt.Fprintln(w, "\nHourly")
	for _, h := range hours {
		fmt.Fprintf(w, "  %-5s  %7s  %s\n", h.Clock(), weather.FormatCelsius(h.TempC), h.Condition.Text)
	}
}

func renderForecast(w io.Writer, days []weather.ForecastDay) {
	if len(days) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d-day forecast\n", len(days))
	for _, d := range days {
		fmt.Fprintf(w, "  %-10s  %7s  %s\n", d.Date, weather.FormatCelsius(d.AvgTempC), d.Condition.Text)
	}
}

// RenderEntries writes the stored records as a table.
func RenderEntries(w io.Writer, recs []weather.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No entries yet.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-20s  %-23s  %-7s  %-8s  %s\n", "ID", "Location", "Dates", "Temp", "Humidity", "Description")
	fmt.Fprintf(w, "%-24s  %-20s  %-23s  %-7s  %-8s  %s\n",
		strings.Repeat("-", 24), strings.Repeat("-", 20), strings.Repeat("-", 23), "-------", "--------", "-----------")
	for _, r := range recs {
		fmt.Fprintf(w, "%-24s  %-20s  %-23s  %-7s  %-8s  %s\n",
			r.ID.Hex(),
			deref(r.Location),
			formatDateRange(r.DateRange),
			deref(r.Temperature),
			deref(r.Humidity),
			deref(r.Description),
		)
	}
}

func formatDateRange(dr *weather.DateRange) string {
	if dr == nil {
		return "-"
	}
	return formatDate(dr.Start) + " - " + formatDate(dr.End)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.UTC().Format(time.DateOnly)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
