package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/insightdelivered/statement-converter/internal/observability"
)

func setupTestApp() *fiber.App {
	srv := &Server{
		Logger:  zap.NewNop(),
		Metrics: observability.NewMetrics(),
	}
	return srv.Router()
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}

	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestConvertEndpointRequiresFile(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("POST", "/api/convert", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Should fail because no file in the body
	if resp.StatusCode == fiber.StatusOK {
		t.Error("expected non-200 for missing file")
	}
}

func TestConvertEndpointWithExtractedText(t *testing.T) {
	app := setupTestApp()

	statement := "Opening Balance 1,000.00 Cr " +
		"02-JAN-2023 02-JAN-2023 Salary Credit SBINT REF001 500.00 1,500.00 Cr " +
		"GRAND TOTAL"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("extractedText", statement); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Count != 1 {
		t.Errorf("count: got %d, want 1", result.Count)
	}
	if result.OpeningBalance != "1000.00" {
		t.Errorf("opening balance: got %q, want %q", result.OpeningBalance, "1000.00")
	}
	if result.ReconciliationFailures != 0 {
		t.Errorf("reconciliation failures: got %d, want 0", result.ReconciliationFailures)
	}
	if !strings.Contains(result.CSV, "02-JAN-2023,02-JAN-2023,Salary Credit,SBINT,REF001,,,500.00,1500.00,Cr") {
		t.Errorf("csv missing expected row:\n%s", result.CSV)
	}
}

func TestConvertEndpointEmptyTextYieldsHeaderOnlyCSV(t *testing.T) {
	app := setupTestApp()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("extractedText", "no transactions in this text")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.Count != 0 {
		t.Errorf("count: got %d, want 0", result.Count)
	}
	if result.Transactions == nil {
		t.Error("transactions must serialize as an empty list, not null")
	}
	if strings.TrimSpace(result.CSV) != "Date,Value Date,Particulars,Tran Type,Tran ID,Cheque Details,Withdrawals,Deposits,Balance,DR/CR" {
		t.Errorf("expected header-only CSV, got %q", result.CSV)
	}
}

func TestConvertEndpointRejectsNonPDFUpload(t *testing.T) {
	app := setupTestApp()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "statement.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("not a pdf"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for non-PDF upload, got %d", resp.StatusCode)
	}
}
