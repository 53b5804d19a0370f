package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-converter/internal/models"
)

// Header is the fixed column set, in table order. It is written even for
// an empty transaction list.
var Header = []string{
	"Date", "Value Date", "Particulars", "Tran Type", "Tran ID",
	"Cheque Details", "Withdrawals", "Deposits", "Balance", "DR/CR",
}

// CSVWriter renders a parsed statement as delimited text, one row per
// transaction in extraction order. encoding/csv quotes fields containing
// the delimiter or newlines, so free-text particulars cannot corrupt the
// row structure.
type CSVWriter struct{}

// WriteToFile writes the statement as CSV to the given path.
func (w *CSVWriter) WriteToFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, st)
}

// Write writes the header line followed by one row per transaction.
func (w *CSVWriter) Write(out io.Writer, st *models.Statement) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range st.Transactions {
		row := []string{
			txn.Date,
			txn.ValueDate,
			txn.Particulars,
			txn.TranType,
			txn.TranID,
			txn.ChequeDetails,
			formatAmount(txn.Withdrawal),
			formatAmount(txn.Deposit),
			txn.Balance.StringFixed(2),
			txn.DrCr,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatAmount renders an optional amount with two fraction digits, or
// the empty string when unset.
func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
