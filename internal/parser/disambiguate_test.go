package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func prevBal(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestClassifyAmounts_SingleAmount(t *testing.T) {
	tests := []struct {
		name           string
		amount         string
		balance        string
		prev           decimal.NullDecimal
		wantWithdrawal string
		wantDeposit    string
		wantReconciled bool
	}{
		{"balance fell by amount", "200.00", "800.00", prevBal("1000.00"), "200.00", "", true},
		{"balance rose by amount", "500.00", "1500.00", prevBal("1000.00"), "", "500.00", true},
		{"within tolerance below", "200.00", "800.005", prevBal("1000.00"), "200.00", "", true},
		{"neither reconciles", "300.00", "1234.56", prevBal("1000.00"), "300.00", "", false},
		{"no previous balance", "42.00", "958.00", decimal.NullDecimal{}, "42.00", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := ClassifyAmounts([]decimal.Decimal{dec(tt.amount)}, dec(tt.balance), tt.prev)

			if got := optString(split.Withdrawal); got != tt.wantWithdrawal {
				t.Errorf("withdrawal: got %q, want %q", got, tt.wantWithdrawal)
			}
			if got := optString(split.Deposit); got != tt.wantDeposit {
				t.Errorf("deposit: got %q, want %q", got, tt.wantDeposit)
			}
			if split.Reconciled != tt.wantReconciled {
				t.Errorf("reconciled: got %v, want %v", split.Reconciled, tt.wantReconciled)
			}
		})
	}
}

func TestClassifyAmounts_TwoAmountsFixedColumnOrder(t *testing.T) {
	// Withdrawal-then-deposit column order holds regardless of what the
	// balance delta says.
	split := ClassifyAmounts(
		[]decimal.Decimal{dec("200.00"), dec("0.00")},
		dec("1300.00"),
		prevBal("999999.00"),
	)

	if got := optString(split.Withdrawal); got != "200.00" {
		t.Errorf("withdrawal: got %q, want %q", got, "200.00")
	}
	if got := optString(split.Deposit); got != "0.00" {
		t.Errorf("deposit: got %q, want %q", got, "0.00")
	}
	if !split.Reconciled {
		t.Error("two-amount split must not count as a reconciliation failure")
	}
}

func TestClassifyAmounts_ExactToleranceBoundary(t *testing.T) {
	// |delta - amount| == 0.01 exactly is NOT within tolerance.
	split := ClassifyAmounts([]decimal.Decimal{dec("100.00")}, dec("1100.01"), prevBal("1000.00"))

	if split.Reconciled {
		t.Error("a delta off by exactly 0.01 must not reconcile")
	}
	if got := optString(split.Withdrawal); got != "100.00" {
		t.Errorf("fallback column: got withdrawal %q, want %q", got, "100.00")
	}
}

func TestClassifyAmounts_MoreThanTwoAmounts(t *testing.T) {
	split := ClassifyAmounts(
		[]decimal.Decimal{dec("1.00"), dec("2.00"), dec("3.00")},
		dec("100.00"),
		prevBal("94.00"),
	)

	if split.Withdrawal.Valid || split.Deposit.Valid {
		t.Errorf("expected no column attribution for %d amounts", 3)
	}
	if split.Reconciled {
		t.Error("unattributable amounts must be flagged unreconciled")
	}
}

func optString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
