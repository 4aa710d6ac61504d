package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procuretrack/quote-analyzer/internal/entity"
	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/pdftext"
	"github.com/procuretrack/quote-analyzer/internal/repository"
)

// uploadQuote accepts a multipart PDF, runs text extraction and the LLM
// pipeline, and persists the result. Extraction never fails the request: a
// quote the model could not read is stored as a fallback record and reported
// as such.
func (s *Server) uploadQuote(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF uploads are supported"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.writeError(c, fmt.Errorf("create upload dir: %w", err))
		return
	}
	dst := filepath.Join(s.cfg.UploadDir, uuid.New().String()+".pdf")
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		s.writeError(c, fmt.Errorf("save upload: %w", err))
		return
	}

	text, err := pdftext.ExtractText(dst, s.logger)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not read PDF: " + err.Error()})
		return
	}

	data := s.extractor.Extract(c.Request.Context(), text)

	quote, err := s.quotes.SaveExtraction(c.Request.Context(), &repository.SaveExtractionRequest{
		Fields:     data,
		SourcePath: dst,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"quote":     quote,
		"extracted": data,
	})
}

func (s *Server) listQuotes(c *gin.Context) {
	fromDate, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	toDate, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	quotes, err := s.quotes.ListQuotes(c.Request.Context(), fromDate, toDate)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes, "count": len(quotes)})
}

func (s *Server) getQuote(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	quote, items, err := s.quotes.GetQuote(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote, "items": items})
}

func (s *Server) quoteReportPDF(c *gin.Context) {
	data, ok := s.loadQuoteData(c)
	if !ok {
		return
	}
	out, err := s.reports.GeneratePDF(c.Request.Context(), data)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="quote-analysis.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

func (s *Server) quoteReportXLSX(c *gin.Context) {
	data, ok := s.loadQuoteData(c)
	if !ok {
		return
	}
	out, err := s.reports.GenerateXLSX(c.Request.Context(), data)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="quote-analysis.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

// loadQuoteData fetches a stored quote and reshapes it into the extraction
// record the report renderers consume.
func (s *Server) loadQuoteData(c *gin.Context) (llm.QuoteData, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return llm.QuoteData{}, false
	}
	quote, items, err := s.quotes.GetQuote(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return llm.QuoteData{}, false
	}
	return quoteDataFromStored(quote, items), true
}

func quoteDataFromStored(q *entity.Quote, items []*entity.QuoteItem) llm.QuoteData {
	date := q.QuoteDate.Format("2006-01-02")
	data := llm.QuoteData{
		SupplierName: &q.SupplierName,
		QuoteNumber:  &q.QuoteNumber,
		QuoteDate:    &date,
		Items:        make([]llm.QuoteItem, 0, len(items)),
	}
	for _, it := range items {
		data.Items = append(data.Items, llm.QuoteItem{
			ItemNumber:    it.ItemNumber,
			Description:   it.Description,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			UnitOfMeasure: it.UnitOfMeasure,
		})
	}
	return data
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter. The second
// return is false when the value is present but malformed, in which case a
// 400 has already been written.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return nil, false
	}
	return &d, true
}
