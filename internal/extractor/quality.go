package extractor

import (
	"strings"
	"unicode"
)

// statementWords appear in virtually every statement this converter
// handles. Extracted text containing none of them is likely garbage from
// an identity-encoded font.
var statementWords = []string{
	"balance", "particulars", "tran", "date", "opening",
	"account", "statement", "total", "withdrawal", "deposit",
}

// isReadableText checks that pages contain enough text, that it is
// mostly readable ASCII rather than binary garbage, and that at least
// one expected statement word appears.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

// textQuality returns the ratio of basic readable characters to total
// characters, 0.0-1.0. A strict ASCII check is used on purpose:
// unicode.IsLetter matches the accented garbage that identity-encoded
// fonts produce.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"%&@#!?+=*`, r) ||
				r == '₹' || r == '£' || r == '$' || r == '€' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
