package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
)

// GeneratePDF renders the quote analysis report as PDF bytes: quote header,
// item table, and a price-analysis section per item with historical data.
func (s *Service) GeneratePDF(ctx context.Context, data llm.QuoteData) ([]byte, error) {
	start := time.Now()
	analyses := s.analyzeItems(ctx, data)

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; extracted strings are UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Quote Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Quote Information", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Supplier: "+strOrDash(data.SupplierName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Quote Number: "+strOrDash(data.QuoteNumber)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Date: "+strOrDash(data.QuoteDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Items", "", 1, "L", false, 0, "")
	s.writeItemTable(pdf, tr, data.Items)

	for _, it := range data.Items {
		if it.ItemNumber == nil {
			continue
		}
		analysis, ok := analyses[*it.ItemNumber]
		if !ok || !analysis.HasData {
			continue
		}
		pdf.Ln(6)
		s.writeAnalysisSection(pdf, *it.ItemNumber, analysis)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}

	s.logger.Info("report.pdf.ok",
		"items", len(data.Items),
		"analyzed", len(analyses),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeItemTable(pdf *fpdf.Fpdf, tr func(string) string, items []llm.QuoteItem) {
	widths := []float64{30, 70, 20, 20, 25, 25}
	headers := []string{"Item Number", "Description", "Qty", "UoM", "Unit Price", "Total"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		total := "N/A"
		if it.Quantity != nil && it.UnitPrice != nil {
			total = fmt.Sprintf("$%.2f", *it.Quantity**it.UnitPrice)
		}
		qty := "—"
		if it.Quantity != nil {
			qty = fmt.Sprintf("%g", *it.Quantity)
		}
		cells := []string{
			strOrDash(it.ItemNumber),
			truncate(strOrDash(it.Description), 48),
			qty,
			it.UnitOfMeasure,
			formatCurrency(it.UnitPrice),
			total,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (s *Service) writeAnalysisSection(pdf *fpdf.Fpdf, itemNumber string, analysis pricing.Analysis) {
	stats := analysis.Statistics

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Price Analysis - "+itemNumber, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Minimum Price: "+formatCurrency(stats.MinPrice), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Maximum Price: "+formatCurrency(stats.MaxPrice), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Average Price: "+formatCurrency(stats.AvgPrice), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Price Volatility: "+formatCurrency(stats.PriceVolatility), "", 1, "L", false, 0, "")
	if stats.RecentTrend != nil {
		pdf.CellFormat(0, 6, "90-Day Trend: "+formatPercent(stats.RecentTrend), "", 1, "L", false, 0, "")
	}

	if analysis.Comparison == nil {
		return
	}
	pdf.SetFont("Helvetica", "I", 10)
	units := make([]string, 0, len(analysis.Comparison.Units))
	for unit := range analysis.Comparison.Units {
		units = append(units, unit)
	}
	sort.Strings(units)
	for _, unit := range units {
		if change, ok := seriesChange(analysis.Comparison.Units[unit]); ok {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s price change over period: %+.1f%%", unit, change), "", 1, "L", false, 0, "")
		}
	}
	if change, ok := seriesChange(analysis.Comparison.Index); ok {
		pdf.CellFormat(0, 5, fmt.Sprintf("Economic index change over period: %+.1f%%", change), "", 1, "L", false, 0, "")
	}
}
