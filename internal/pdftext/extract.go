// Package pdftext extracts plain text from uploaded quote PDFs.
package pdftext

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads every page of the PDF at path and returns its plain
// text. Quote PDFs are born-digital, so native text extraction is enough;
// scanned documents come back empty and fall through to the extractor's
// fallback record downstream.
func ExtractText(path string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("pdftext.close_error", "path", path, "error", cerr)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	logger.Info("pdftext.extract.ok",
		"path", path,
		"pages", reader.NumPage(),
		"chars", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.String(), nil
}
