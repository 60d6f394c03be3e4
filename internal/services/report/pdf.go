package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/yogibear102/wealthfolio/internal/models"
)

// ExportPDF renders the user's active holdings as a one-page tabular PDF
// statement with a total net-worth line.
func (s *Service) ExportPDF(ctx context.Context, user *models.User) ([]byte, error) {
	assets, err := s.storage.Assets().ListActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	base := baseCurrency(user)
	table := s.rates.Rates()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Wealthfolio Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Wealthfolio Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("%s  |  %s", user.DisplayName(), s.now().Format("2 January 2006")))
	pdf.Ln(12)

	colWidths := []float64{55, 28, 22, 25, 30, 30}
	headers := []string{"Asset", "Type", "Qty", "Currency", "Value", "Value (" + base + ")"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(78, 115, 223)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	total := 0.0
	for _, a := range assets {
		converted := table.Convert(a.CurrentValue, a.Currency, base)
		total += converted

		pdf.SetFillColor(245, 245, 245)
		cells := []string{
			a.Name,
			a.Type,
			formatFloat(a.Quantity),
			a.Currency,
			formatFloat(a.CurrentValue),
			formatFloat(converted),
		}
		for i, cell := range cells {
			align := "L"
			if i >= 2 {
				align = "R"
			}
			pdf.CellFormat(colWidths[i], 7, cell, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3]+colWidths[4], 8,
		"Total Net Worth", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[5], 8, fmt.Sprintf("%s %s", formatFloat(total), base), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Int("assets", len(assets)).Msg("PDF export generated")
	return buf.Bytes(), nil
}
