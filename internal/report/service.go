// Package report renders quote analysis reports as PDF and XLSX.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
)

// Service renders reports from an extracted quote. Price statistics are
// recomputed for every report; nothing is cached between calls.
type Service struct {
	analyzer     *pricing.Analyzer
	lookbackDays int
	logger       *slog.Logger
}

func NewService(analyzer *pricing.Analyzer, lookbackDays int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{analyzer: analyzer, lookbackDays: lookbackDays, logger: logger}
}

// analyzeItems runs the price analysis for every line item that carries an
// item number. A failed analysis for one item degrades that item's section,
// not the whole report.
func (s *Service) analyzeItems(ctx context.Context, data llm.QuoteData) map[string]pricing.Analysis {
	out := make(map[string]pricing.Analysis)
	for _, it := range data.Items {
		if it.ItemNumber == nil || *it.ItemNumber == "" {
			continue
		}
		item := *it.ItemNumber
		if _, done := out[item]; done {
			continue
		}
		analysis, err := s.analyzer.Analyze(ctx, item, s.lookbackDays)
		if err != nil {
			s.logger.Error("report.analyze_item.error", "item_number", item, "error", err)
			continue
		}
		out[item] = analysis
	}
	return out
}

func formatCurrency(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

func strOrDash(p *string) string {
	if p == nil || *p == "" {
		return "—"
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// truncate caps s at n runes, not bytes, so a multi-byte character at the
// cut point cannot produce invalid UTF-8 in report cells.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// seriesChange is the total normalized change of a series, i.e. the last
// point's "% since period start" value. Used in place of the plotted trend
// lines the statistics summarize.
func seriesChange(points []pricing.Point) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}
	return points[len(points)-1].Value - points[0].Value, true
}
