package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// The statement body is bracketed by a header block that ends in an
// "Opening Balance <amount> Cr/Dr" line (usually preceded by the column
// titles), and a trailing "GRAND TOTAL" summary block. Everything
// outside that window is preamble/footer noise.
var (
	headerPattern = regexp.MustCompile(
		`(?is)^.*?(?:Date\s+Value\s+Date\s+Particulars\s+Tran\s+Type.*?)?` +
			`Opening\s+Balance\s+(\d+(?:,\d{3})*\.\d{2})\s+(?:Cr|Dr)\s+`)
	footerPattern = regexp.MustCompile(`(?is)\s+GRAND\s+TOTAL.*$`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

// Normalize strips the statement header and the grand-total footer from
// the concatenated page text and collapses every whitespace run to a
// single space. The opening balance printed on the header line is
// returned so the running balance can be seeded from it.
//
// Absent markers are not an error: the text passes through with only
// whitespace collapsing, and extraction finds zero matches.
func Normalize(raw string) (string, decimal.NullDecimal) {
	var opening decimal.NullDecimal
	if m := headerPattern.FindStringSubmatch(raw); m != nil {
		if bal, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
			opening = decimal.NullDecimal{Decimal: bal, Valid: true}
		}
		raw = raw[len(m[0]):]
	}
	raw = footerPattern.ReplaceAllString(raw, "")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(raw, " ")), opening
}
