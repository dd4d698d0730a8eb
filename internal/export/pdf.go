package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
)

// RenderReportPDF renders a completed sample report to PDF bytes.
func RenderReportPDF(details *repositories.ReportWithDetails) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "MOBILE BIO LAB REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label string, value interface{}) {
		pdf.CellFormat(0, 8, fmt.Sprintf("%s: %v", label, value), "", 1, "L", false, 0, "")
	}

	report := details.Report
	sample := details.Sample

	line("Report ID", report.ID)
	line("Sample ID", sample.ID)
	line("Sample Type", sample.SampleType)
	line("Status", report.Status)
	line("Collected", sample.CollectionDateTime.Format("2006-01-02 15:04"))
	if sample.GeoLocation != nil {
		line("Location", *sample.GeoLocation)
	}
	if sample.Temperature != nil {
		line("Temperature", fmt.Sprintf("%.2f", *sample.Temperature))
	}
	if sample.PH != nil {
		line("pH", fmt.Sprintf("%.2f", *sample.PH))
	}
	if sample.Salinity != nil {
		line("Salinity", fmt.Sprintf("%.2f", *sample.Salinity))
	}
	line("Generated", report.GeneratedDate.Format("2006-01-02"))
	if report.CompletedDate != nil {
		line("Completed", report.CompletedDate.Format("2006-01-02"))
	}

	pdf.Ln(4)
	line("Submitted by", details.Owner.FullName())

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderUsersPDF renders the admin user export as a paginated table. The
// header row repeats on every page.
func RenderUsersPDF(users []*models.User, city, role string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 15)

	headers := []string{"Name", "Email", "Role", "City", "Mobile", "Student ID"}
	widths := []float64{40, 50, 22, 24, 26, 28}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "MOBILE BIO LAB - USERS EXPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Generated: "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")

	filterText := "All Users"
	if city != "" || role != "" {
		filterText = "Filtered:"
		if city != "" {
			filterText += " City: " + city
		}
		if role != "" {
			filterText += " Role: " + role
		}
	}
	pdf.CellFormat(0, 7, filterText, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	writeHeader()

	for _, user := range users {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}

		row := []string{
			truncate(user.FullName(), 24),
			truncate(user.Email, 30),
			string(user.Role),
			derefOr(user.City, "N/A"),
			derefOr(user.MobileNo, "N/A"),
			user.StudentID,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "", 9)
	total := pdf.PageCount()
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		pdf.SetXY(-40, 285)
		pdf.CellFormat(30, 6, fmt.Sprintf("Page %d of %d", i, total), "", 0, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render users pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate cuts on rune boundaries so multi-byte names never yield a torn
// UTF-8 sequence in a cell.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
