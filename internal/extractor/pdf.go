// Package extractor turns a statement PDF into per-page plain text.
// It is the document-access layer in front of the parser: the parser
// never sees a PDF, only the ordered page texts.
package extractor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

// ErrWrongPassword reports that the PDF is encrypted and the supplied
// password did not open it. Callers can re-prompt and retry.
var ErrWrongPassword = errors.New("incorrect PDF password")

// extractConcurrency bounds the per-page fan-out.
const extractConcurrency = 4

// ExtractText reads an unencrypted PDF and returns the text of each page
// in page order.
func ExtractText(filePath string) ([]string, error) {
	return ExtractTextWithPassword(filePath, "")
}

// ExtractTextWithPassword reads a PDF, decrypting it with the given
// password if needed, and returns the text of each page in page order.
// Page extraction fans out across goroutines but results are joined by
// page index, never completion order: transaction continuity depends on
// document order, so a faster later page must not come first.
//
// If the structured library yields unreadable text, the external
// pdftotext command (poppler-utils) is tried before giving up.
func ExtractTextWithPassword(filePath, password string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath, password)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}
	if errors.Is(libErr, ErrWrongPassword) {
		return nil, libErr
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath, password)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %v. The PDF may use custom fonts or be image-based/scanned", libErr)
	}
	return nil, errors.New("no readable text could be extracted from PDF. The file may be image-based/scanned, or uses font encodings that cannot be decoded")
}

// extractWithLibrary opens the PDF with ledongthuc/pdf and extracts each
// page concurrently into an index-ordered slice.
func extractWithLibrary(filePath, password string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// The password callback is retried by the reader until it returns "",
	// so hand the password over exactly once.
	asked := false
	r, err := pdf.NewReaderEncrypted(f, fi.Size(), func() string {
		if asked {
			return ""
		}
		asked = true
		return password
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, ErrWrongPassword
		}
		return nil, err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, errors.New("PDF has no pages")
	}

	texts := make([]string, numPages)
	var g errgroup.Group
	g.SetLimit(extractConcurrency)
	for i := 1; i <= numPages; i++ {
		i := i
		g.Go(func() (pageErr error) {
			defer func() {
				if rec := recover(); rec != nil {
					pageErr = fmt.Errorf("page %d extraction crashed: %v", i, rec)
				}
			}()
			texts[i-1] = pageText(r.Page(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			pages = append(pages, t)
		}
	}
	return pages, nil
}

// pageText extracts one page's text, preferring row-grouped extraction
// and falling back to plain text with the page's font maps.
func pageText(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}

	if rows, err := page.GetTextByRow(); err == nil && len(rows) > 0 {
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// extractWithPdftotext shells out to pdftotext as a last resort for PDFs
// the Go library cannot decode.
func extractWithPdftotext(filePath, password string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", filePath).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		args := []string{"-layout", "-f", pageStr, "-l", pageStr}
		if password != "" {
			args = append(args, "-upw", password)
		}
		args = append(args, filePath, "-")
		out, err := exec.Command("pdftotext", args...).Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, errors.New("pdftotext produced no output")
	}
	return pages, nil
}
