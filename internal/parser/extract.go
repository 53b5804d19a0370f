package parser

import (
	"regexp"
	"strings"
)

// RawMatch holds the captured substrings of one structural match, before
// the amounts are attributed to the withdrawal/deposit columns.
type RawMatch struct {
	Date        string
	ValueDate   string
	Particulars string
	TranType    string
	TranID      string
	Amounts     []string // one or two amount tokens, document order
	Balance     string
	DrCr        string
}

// txnPattern matches one transaction record in normalized text:
//
//	DATE VALUE_DATE PARTICULARS TYPE ID AMOUNT [AMOUNT] BALANCE Cr/Dr
//
// Particulars is non-greedy so it stops at the first transaction-type
// token instead of swallowing the rest of the record. The amounts group
// is greedy on purpose: a record legitimately prints either one amount
// (withdrawal or deposit, the layout does not say which) or two
// (withdrawal then deposit), and the grammar alone cannot decide the
// single-amount case. ClassifyAmounts settles it against the running
// balance. RE2 has no lookaround, so the record is anchored with \b at
// both ends rather than lookbehind/lookahead.
var txnPattern = regexp.MustCompile(
	`(?i)\b` +
		`(?P<Date>\d{2}-[A-Z]{3}-\d{4})\s+` +
		`(?P<ValueDate>\d{2}-[A-Z]{3}-\d{4})\s+` +
		`(?P<Particulars>.+?)\s+` +
		`(?P<TranType>TFR|FT|CLG|SBINT|MB|POS|CHRG|IFN)\s+` +
		`(?P<TranID>\S+)\s+` +
		`(?P<Amounts>(?:\d+(?:,\d{3})*\.\d{2}\s+)+)` +
		`(?P<Balance>\d+(?:,\d{3})*\.\d{2})\s+` +
		`(?P<DRCR>Cr|Dr)\b`)

var (
	txnDateIdx        = txnPattern.SubexpIndex("Date")
	txnValueDateIdx   = txnPattern.SubexpIndex("ValueDate")
	txnParticularsIdx = txnPattern.SubexpIndex("Particulars")
	txnTypeIdx        = txnPattern.SubexpIndex("TranType")
	txnIDIdx          = txnPattern.SubexpIndex("TranID")
	txnAmountsIdx     = txnPattern.SubexpIndex("Amounts")
	txnBalanceIdx     = txnPattern.SubexpIndex("Balance")
	txnDRCRIdx        = txnPattern.SubexpIndex("DRCR")
)

// ExtractMatches scans normalized text left to right and returns every
// non-overlapping structural match in document order. Text with no
// matches yields an empty slice, never an error.
func ExtractMatches(text string) []RawMatch {
	var matches []RawMatch
	for _, m := range txnPattern.FindAllStringSubmatch(text, -1) {
		matches = append(matches, RawMatch{
			Date:        m[txnDateIdx],
			ValueDate:   m[txnValueDateIdx],
			Particulars: strings.TrimSpace(m[txnParticularsIdx]),
			TranType:    m[txnTypeIdx],
			TranID:      m[txnIDIdx],
			Amounts:     strings.Fields(m[txnAmountsIdx]),
			Balance:     m[txnBalanceIdx],
			DrCr:        m[txnDRCRIdx],
		})
	}
	return matches
}
