package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"pearlcard/internal/domain/models"
	"pearlcard/internal/journeys"
	"pearlcard/internal/utils"
)

// DocsService renders the printable results and history pages as PDF.
type DocsService struct {
	Fares     FareService
	History   HistoryService
	Location  *time.Location
	RequestID string

	// Loaders replace the stores in tests.
	ResultLoader  func(ctx context.Context, id string) (models.CalculationResult, error)
	HistoryLoader func(ctx context.Context, userID string, q journeys.Query) (journeys.Result, error)
}

func (s DocsService) GenerateResultsPDF(ctx context.Context, resultID string) ([]byte, string, error) {
	res, err := s.loadResult(ctx, resultID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_results", "result_id="+res.ID)
	return buildResultsPDF(res, s.Location)
}

// GenerateHistoryPDF prints every journey matching q, not only q's page.
func (s DocsService) GenerateHistoryPDF(ctx context.Context, userID string, q journeys.Query) ([]byte, string, error) {
	res, err := s.loadHistory(ctx, userID, q)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_history", fmt.Sprintf("user_id=%s journeys=%d", userID, len(res.Matching)))
	return buildHistoryPDF(userID, res, s.Location, time.Now())
}

func (s DocsService) loadResult(ctx context.Context, id string) (models.CalculationResult, error) {
	if s.ResultLoader != nil {
		return s.ResultLoader(ctx, id)
	}
	return s.Fares.Result(ctx, id)
}

func (s DocsService) loadHistory(ctx context.Context, userID string, q journeys.Query) (journeys.Result, error) {
	if s.HistoryLoader != nil {
		return s.HistoryLoader(ctx, userID, q)
	}
	view, err := s.History.View(ctx, userID, q, false)
	if err != nil {
		return journeys.Result{}, err
	}
	return view.Result, nil
}

func buildResultsPDF(res models.CalculationResult, loc *time.Location) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fare Calculation Results", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Fare Calculation Results")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Total Daily Fare : %s", utils.FormatFare(res.TotalFare)),
		fmt.Sprintf("Total Journeys   : %d", res.JourneyCount),
		fmt.Sprintf("Average Fare     : %s", utils.FormatFare(res.AverageFare())),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Journey Breakdown")
	pdf.Ln(9)

	widths := []float64{25, 35, 35, 45, 40}
	header := []string{"Journey #", "From Zone", "To Zone", "Route", "Fare"}
	tableHeader(pdf, widths, header)

	pdf.SetFont("Helvetica", "", 11)
	for i, j := range res.Journeys {
		fare := utils.FormatFare(j.Fare)
		if j.Status == models.JourneyStatusError {
			fare = safe(j.ErrorMessage, "error")
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			"Zone " + j.FromZone,
			"Zone " + j.ToZone,
			fmt.Sprintf("Z%s -> Z%s", j.FromZone, j.ToZone),
			fare,
		}
		tableRow(pdf, widths, cells)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "Total Daily Fare", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, utils.FormatFare(res.TotalFare), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	if res.TotalFare > 0 && len(res.Journeys) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Fare Distribution")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
		for i, j := range res.Journeys {
			pct := j.Fare / res.TotalFare * 100
			pdf.CellFormat(15, 6, fmt.Sprintf("J%d", i+1), "", 0, "L", false, 0, "")
			if w := pct * 1.2; w > 0 {
				pdf.SetFillColor(70, 110, 200)
				pdf.CellFormat(w, 6, "", "", 0, "L", true, 0, "")
			}
			pdf.CellFormat(0, 6, fmt.Sprintf(" %s (%.1f%%)", utils.FormatFare(j.Fare), pct), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "User ID: "+safe(res.UserID, "-"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Calculation Date: "+utils.FormatDateTime(res.CalculatedAt, loc))
	pdf.Ln(6)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("fare-results-%s.pdf", utils.SafeFilenamePart(res.ID))
	return buf.Bytes(), filename, nil
}

func buildHistoryPDF(userID string, res journeys.Result, loc *time.Location, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Journey History", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Journey History")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("User ID           : %s", safe(userID, "-")),
		fmt.Sprintf("Total Journeys    : %d", res.Stats.JourneyCount),
		fmt.Sprintf("Total Spent       : %s", utils.FormatFare(res.Stats.TotalFare)),
		fmt.Sprintf("Average Fare      : %s", utils.FormatFare(res.Stats.AverageFare)),
		fmt.Sprintf("Most Common Route : %s", res.Stats.MostCommonRoute),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	widths := []float64{45, 30, 30, 40, 35}
	tableHeader(pdf, widths, []string{"Date", "From Zone", "To Zone", "Route", "Fare"})

	pdf.SetFont("Helvetica", "", 10)
	if len(res.Matching) == 0 {
		pdf.CellFormat(sum(widths), 7, "No journeys found matching your filters", "1", 1, "C", false, 0, "")
	}
	for _, r := range res.Matching {
		tableRow(pdf, widths, []string{
			journeys.FormatDate(r.Timestamp, loc),
			"Zone " + r.FromZone,
			"Zone " + r.ToZone,
			fmt.Sprintf("Z%s -> Z%s", r.FromZone, r.ToZone),
			utils.FormatFare(r.Fare),
		})
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Printed "+utils.FormatDisplay(now, loc))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("journey-history-%s-%s.pdf", utils.SafeFilenamePart(userID), utils.FormatDate(now.UTC()))
	return buf.Bytes(), filename, nil
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, cols []string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		align := "L"
		if i == len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, c, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

func tableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string) {
	for i, c := range cells {
		align := "L"
		if i == len(cells)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func sum(v []float64) float64 {
	var t float64
	for _, x := range v {
		t += x
	}
	return t
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
