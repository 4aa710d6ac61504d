package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/procuretrack/quote-analyzer/internal/llm"
)

// GenerateXLSX returns an XLSX workbook (as bytes) with one row per line
// item, the quote header, and the price statistics columns for items that
// have purchase history.
func (s *Service) GenerateXLSX(ctx context.Context, data llm.QuoteData) ([]byte, error) {
	start := time.Now()
	analyses := s.analyzeItems(ctx, data)

	f := excelize.NewFile()
	const sheet = "Quote Analysis"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on ours.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, "Supplier")
	write(2, 1, strOrDash(data.SupplierName))
	write(1, 2, "Quote Number")
	write(2, 2, strOrDash(data.QuoteNumber))
	write(1, 3, "Quote Date")
	write(2, 3, strOrDash(data.QuoteDate))

	headers := []string{
		"Item Number",
		"Description",
		"Quantity",
		"Unit of Measure",
		"Unit Price",
		"Line Total",
		"Historical Min",
		"Historical Max",
		"Historical Avg",
		"Volatility",
		"90-Day Trend",
	}
	const headerRow = 5
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, it := range data.Items {
		write(1, row, strOrDash(it.ItemNumber))
		write(2, row, truncate(strOrDash(it.Description), 140))
		if it.Quantity != nil {
			write(3, row, *it.Quantity)
		}
		write(4, row, it.UnitOfMeasure)
		if it.UnitPrice != nil {
			write(5, row, *it.UnitPrice)
		}
		if it.Quantity != nil && it.UnitPrice != nil {
			write(6, row, *it.Quantity**it.UnitPrice)
		}

		if it.ItemNumber != nil {
			if analysis, ok := analyses[*it.ItemNumber]; ok && analysis.HasData {
				stats := analysis.Statistics
				write(7, row, floatOrZero(stats.MinPrice))
				write(8, row, floatOrZero(stats.MaxPrice))
				write(9, row, floatOrZero(stats.AvgPrice))
				if stats.PriceVolatility != nil {
					write(10, row, *stats.PriceVolatility)
				}
				if stats.RecentTrend != nil {
					write(11, row, fmt.Sprintf("%+.1f%%", *stats.RecentTrend))
				}
			}
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 48)
	_ = f.SetColWidth(sheet, "C", "F", 14)
	_ = f.SetColWidth(sheet, "G", "K", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"items", len(data.Items),
		"analyzed", len(analyses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
