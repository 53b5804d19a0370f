package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/insightdelivered/statement-converter/internal/api"
	"github.com/insightdelivered/statement-converter/internal/config"
	"github.com/insightdelivered/statement-converter/internal/extractor"
	"github.com/insightdelivered/statement-converter/internal/observability"
	"github.com/insightdelivered/statement-converter/internal/parser"
	"github.com/insightdelivered/statement-converter/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	passwordFlag := flag.String("password", "", "Password for encrypted PDFs")
	serveFlag := flag.Bool("serve", false, "Run the HTTP conversion API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement PDF to CSV Converter
by Insight Delivered (QEA AutoLens)

Recovers dated transactions, withdrawal/deposit amounts and running
balances from statement PDFs and writes them as CSV.

Usage:
  statement-converter [flags] <input.pdf> [input2.pdf ...]
  statement-converter --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement
  statement-converter statement.pdf

  # Encrypted statement
  statement-converter --password=secret statement.pdf

  # Custom output path
  statement-converter --output=transactions.csv statement.pdf

  # Run the upload API (PORT, LOG_LEVEL, MAX_UPLOAD_MB from env)
  statement-converter --serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-converter v%s\n", version)
		os.Exit(0)
	}

	if *serveFlag {
		serve()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, *passwordFlag, *outputFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func serve() {
	cfg := config.Load()

	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Int("max_upload_mb", cfg.MaxUploadMB),
	)

	srv := &api.Server{
		Logger:         logger,
		Metrics:        observability.NewMetrics(),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	}

	app := srv.Router()
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func processFile(inputPath, password, outputPath string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	pages, err := extractor.ExtractTextWithPassword(inputPath, password)
	if err != nil {
		if errors.Is(err, extractor.ErrWrongPassword) {
			return fmt.Errorf("the PDF is password-protected and the supplied password is wrong; retry with --password")
		}
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	fmt.Printf("  Extracted text from %d page(s)\n", len(pages))

	st := parser.Parse(strings.Join(pages, "\n"))

	fmt.Printf("  Found %d transaction(s)\n", len(st.Transactions))

	if len(st.Transactions) == 0 {
		fmt.Println("  Warning: No transactions found. The PDF format may not match expected patterns.")
	}
	if n := st.ReconciliationFailures(); n > 0 {
		fmt.Printf("  Warning: %d transaction(s) could not be reconciled against the running balance\n", n)
		fmt.Println("  and were recorded as withdrawals by default. Review these rows manually.")
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{}
	if err := w.WriteToFile(outPath, st); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)

	if st.OpeningBalance.Valid {
		fmt.Printf("  Opening balance: %s\n", st.OpeningBalance.Decimal.StringFixed(2))
	}

	fmt.Println("  Done.")
	return nil
}
