// Package parser recovers structured transactions from the loosely
// whitespace-delimited text of a bank statement. The pipeline is
// normalize → extract → disambiguate → build, strictly sequential per
// document: each single-amount record is classified against the previous
// record's balance, so matches cannot be processed out of order.
// Independent documents may be parsed concurrently.
package parser

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-converter/internal/models"
)

// Parse runs the full pipeline over the concatenated page text of one
// statement document and returns the ordered transaction list.
//
// Ambiguous data never fails the parse: text with no structural matches
// yields an empty statement, and a record whose balance delta reconciles
// under neither sign falls back to the withdrawal column and is recorded
// in Unreconciled. Best-effort extraction beats all-or-nothing failure
// here; the caller decides how loudly to surface the fallbacks.
func Parse(raw string) *models.Statement {
	text, opening := Normalize(raw)

	st := &models.Statement{OpeningBalance: opening}
	prev := opening
	for _, m := range ExtractMatches(text) {
		amounts := make([]decimal.Decimal, len(m.Amounts))
		for i, a := range m.Amounts {
			amounts[i] = parseAmount(a)
		}
		balance := parseAmount(m.Balance)

		split := ClassifyAmounts(amounts, balance, prev)
		if !split.Reconciled {
			st.Unreconciled = append(st.Unreconciled, len(st.Transactions))
		}

		st.Transactions = append(st.Transactions, buildTransaction(m, split, balance))
		prev = decimal.NullDecimal{Decimal: balance, Valid: true}
	}
	return st
}

// buildTransaction assembles the immutable output record for one match.
// It cannot fail: the structural pattern guarantees the numeric fields
// parse, and everything else is copied verbatim.
func buildTransaction(m RawMatch, split AmountSplit, balance decimal.Decimal) models.Transaction {
	return models.Transaction{
		Date:        m.Date,
		ValueDate:   m.ValueDate,
		Particulars: m.Particulars,
		TranType:    m.TranType,
		TranID:      m.TranID,
		Withdrawal:  split.Withdrawal,
		Deposit:     split.Deposit,
		Balance:     balance,
		DrCr:        m.DrCr,
	}
}
