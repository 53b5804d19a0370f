package models

import "github.com/shopspring/decimal"

// Transaction represents a single statement transaction. Date, type and
// ID fields are copied verbatim from the statement text; monetary fields
// are parsed with thousands separators stripped. At most one of
// Withdrawal and Deposit is set when the statement prints a single
// amount column; both are set when it prints two.
type Transaction struct {
	Date          string              `json:"date"`      // DD-MMM-YYYY
	ValueDate     string              `json:"valueDate"` // DD-MMM-YYYY
	Particulars   string              `json:"particulars"`
	TranType      string              `json:"tranType"`
	TranID        string              `json:"tranId"`
	ChequeDetails string              `json:"chequeDetails"` // always empty in this format
	Withdrawal    decimal.NullDecimal `json:"withdrawal"`
	Deposit       decimal.NullDecimal `json:"deposit"`
	Balance       decimal.Decimal     `json:"balance"` // running balance after this transaction
	DrCr          string              `json:"drCr"`    // "Cr" or "Dr" as printed
}

// TranTypes is the closed set of transaction type codes this statement
// format prints. Matching is case-insensitive; the captured casing is
// preserved on output.
var TranTypes = []string{"TFR", "FT", "CLG", "SBINT", "MB", "POS", "CHRG", "IFN"}

// Statement holds the result of parsing one statement document.
type Statement struct {
	// OpeningBalance is the balance from the stripped statement header,
	// when one was found. It seeds the running balance so the first
	// single-amount transaction can be reconciled.
	OpeningBalance decimal.NullDecimal `json:"openingBalance"`

	// Transactions in document order.
	Transactions []Transaction `json:"transactions"`

	// Unreconciled lists the indices of transactions whose single amount
	// could not be reconciled against the running balance and fell back
	// to the withdrawal column. The parse still succeeds; callers should
	// surface these so silent mis-signing can be audited.
	Unreconciled []int `json:"unreconciled,omitempty"`
}

// ReconciliationFailures reports how many transactions fell back to the
// withdrawal default because the balance delta matched neither sign.
func (s *Statement) ReconciliationFailures() int {
	return len(s.Unreconciled)
}
