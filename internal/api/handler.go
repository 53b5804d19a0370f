package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/insightdelivered/statement-converter/internal/extractor"
	"github.com/insightdelivered/statement-converter/internal/models"
	"github.com/insightdelivered/statement-converter/internal/observability"
	"github.com/insightdelivered/statement-converter/internal/parser"
	"github.com/insightdelivered/statement-converter/internal/writer"
)

const apiVersion = "1.0.0"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success                bool                 `json:"success"`
	Error                  string               `json:"error,omitempty"`
	Transactions           []models.Transaction `json:"transactions"`
	CSV                    string               `json:"csv,omitempty"`
	Count                  int                  `json:"count"`
	ReconciliationFailures int                  `json:"reconciliationFailures"`
	OpeningBalance         string               `json:"openingBalance,omitempty"`
	Version                string               `json:"version,omitempty"`
}

// Server holds the HTTP handlers for the API.
type Server struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// MaxUploadBytes caps the multipart body size. Zero means the fiber
	// default.
	MaxUploadBytes int
}

// Router builds the fiber application with all routes registered.
func (s *Server) Router() *fiber.App {
	cfg := fiber.Config{}
	if s.MaxUploadBytes > 0 {
		cfg.BodyLimit = s.MaxUploadBytes
	}
	app := fiber.New(cfg)

	app.Get("/api/health", s.HandleHealth)
	app.Post("/api/convert", s.HandleConvert)
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})))

	return app
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": apiVersion,
	})
}

// HandleConvert accepts a multipart statement upload and returns the
// parsed transactions plus the CSV rendition.
//
// Form fields: "file" (the PDF), optional "password" for encrypted
// files, optional "extractedText" with pre-extracted page text separated
// by "\n---PAGE_BREAK---\n" (skips server-side extraction).
func (s *Server) HandleConvert(c *fiber.Ctx) error {
	start := time.Now()

	pages, status, err := s.loadPages(c)
	if err != nil {
		s.Metrics.IncrParse("error")
		s.Logger.Warn("convert rejected", zap.Int("status", status), zap.Error(err))
		return c.Status(status).JSON(ConvertResponse{
			Success:      false,
			Error:        err.Error(),
			Transactions: []models.Transaction{},
		})
	}

	st := parser.Parse(strings.Join(pages, "\n"))

	var csvBuf bytes.Buffer
	w := &writer.CSVWriter{}
	if err := w.Write(&csvBuf, st); err != nil {
		s.Metrics.IncrParse("error")
		return c.Status(fiber.StatusInternalServerError).JSON(ConvertResponse{
			Success:      false,
			Error:        fmt.Sprintf("CSV generation failed: %v", err),
			Transactions: []models.Transaction{},
		})
	}

	s.Metrics.IncrParse("success")
	s.Metrics.AddTransactions(len(st.Transactions))
	s.Metrics.AddReconciliationFailures(st.ReconciliationFailures())
	s.Metrics.ObserveParseDuration(time.Since(start))

	if n := st.ReconciliationFailures(); n > 0 {
		s.Logger.Warn("reconciliation fallback applied",
			zap.Int("count", n),
			zap.Ints("rows", st.Unreconciled))
	}
	s.Logger.Info("statement converted",
		zap.Int("pages", len(pages)),
		zap.Int("transactions", len(st.Transactions)),
		zap.Duration("elapsed", time.Since(start)))

	// nil marshals to JSON null, not []
	txns := st.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	resp := ConvertResponse{
		Success:                true,
		Transactions:           txns,
		CSV:                    csvBuf.String(),
		Count:                  len(txns),
		ReconciliationFailures: st.ReconciliationFailures(),
		Version:                apiVersion,
	}
	if st.OpeningBalance.Valid {
		resp.OpeningBalance = st.OpeningBalance.Decimal.StringFixed(2)
	}
	return c.JSON(resp)
}

// loadPages resolves the page texts for a convert request, either from
// the pre-extracted form field or by extracting the uploaded PDF.
// Returns the pages, or an HTTP status and error describing the refusal.
func (s *Server) loadPages(c *fiber.Ctx) ([]string, int, error) {
	if extracted := c.FormValue("extractedText"); extracted != "" {
		var pages []string
		for _, page := range strings.Split(extracted, "\n---PAGE_BREAK---\n") {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		if len(pages) > 0 {
			return pages, 0, nil
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.StatusBadRequest, errors.New("no file uploaded; use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return nil, fiber.StatusBadRequest, errors.New("only PDF files are supported")
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fiber.StatusInternalServerError, errors.New("failed to create temp file")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fh, tmpPath); err != nil {
		return nil, fiber.StatusInternalServerError, errors.New("failed to save uploaded file")
	}

	pages, err := extractor.ExtractTextWithPassword(tmpPath, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, extractor.ErrWrongPassword) {
			return nil, fiber.StatusUnauthorized, errors.New("incorrect password; please try again")
		}
		return nil, fiber.StatusUnprocessableEntity, fmt.Errorf("PDF extraction failed: %w", err)
	}
	return pages, 0, nil
}
