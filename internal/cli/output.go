package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pearlcard/internal/domain/models"
	"pearlcard/internal/journeys"
	"pearlcard/internal/services"
	"pearlcard/internal/utils"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	fareStyle   = cellStyle.Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newTable(headers ...string) *table.Table {
	last := len(headers) - 1
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == last:
				return fareStyle
			default:
				return cellStyle
			}
		})
}

func renderHistory(w io.Writer, userID string, view services.HistoryView, loc *time.Location) {
	fmt.Fprintln(w, titleStyle.Render("Journey History: "+userID))
	fmt.Fprintf(w, "Total Journeys: %d   Total Spent: %s   Average Fare: %s   Most Common Route: %s\n\n",
		view.Stats.JourneyCount,
		utils.FormatFare(view.Stats.TotalFare),
		utils.FormatFare(view.Stats.AverageFare),
		view.Stats.MostCommonRoute,
	)

	if len(view.Visible) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No journeys found matching your filters"))
	} else {
		t := newTable("Date", "From Zone", "To Zone", "Route", "Fare")
		for _, r := range view.Visible {
			t.Row(
				journeys.FormatDate(r.Timestamp, loc),
				"Zone "+r.FromZone,
				"Zone "+r.ToZone,
				fmt.Sprintf("Z%s -> Z%s", r.FromZone, r.ToZone),
				utils.FormatFare(r.Fare),
			)
		}
		fmt.Fprintln(w, t.Render())
	}

	if view.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d  %s\n", view.Page, view.TotalPages, pagerLine(view.Pages))
	}
}

func pagerLine(links []journeys.PageLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Ellipsis:
			parts = append(parts, "...")
		case l.Current:
			parts = append(parts, fmt.Sprintf("[%d]", l.Number))
		default:
			parts = append(parts, fmt.Sprintf("%d", l.Number))
		}
	}
	return mutedStyle.Render(strings.Join(parts, " "))
}

func renderZones(w io.Writer, cat services.ZoneCatalog) {
	fmt.Fprintln(w, titleStyle.Render("Zones"))
	if cat.Fallback {
		fmt.Fprintln(w, warnStyle.Render(cat.Message))
	}
	t := newTable("Zone", "Name", "Description")
	for _, z := range cat.Zones {
		t.Row(z.ZoneNumber, z.Label(), z.Description)
	}
	fmt.Fprintln(w, t.Render())
}

func renderRules(w io.Writer, rules []models.FareRule) {
	fmt.Fprintln(w, titleStyle.Render("Fare Rules"))
	t := newTable("From Zone", "To Zone", "Route", "Fare")
	for _, r := range rules {
		t.Row("Zone "+r.FromZone, "Zone "+r.ToZone, r.Route, utils.FormatFare(r.Fare))
	}
	fmt.Fprintln(w, t.Render())
}
