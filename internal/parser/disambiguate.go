package parser

import "github.com/shopspring/decimal"

// reconTolerance is the minor-unit rounding slack: a balance delta within
// 0.01 of the amount counts as reconciled.
var reconTolerance = decimal.New(1, -2)

// AmountSplit is the outcome of attributing a record's captured amounts
// to the withdrawal and deposit columns.
type AmountSplit struct {
	Withdrawal decimal.NullDecimal
	Deposit    decimal.NullDecimal

	// Reconciled is false when the single-amount heuristic fell back to
	// the withdrawal default without the balance delta confirming it.
	Reconciled bool
}

// ClassifyAmounts decides which captured amounts represent a withdrawal
// and which a deposit.
//
// Two amounts occupy fixed withdrawal-then-deposit column order,
// unconditionally. A single amount is checked against the running
// balance: if the balance fell by the amount it is a withdrawal, if it
// rose by the amount it is a deposit. When neither direction reconciles
// within tolerance, or no previous balance exists, the amount defaults
// to the withdrawal column and the split is marked unreconciled.
// Changing that default would silently flip the sign of real money
// movements, so it stays as is.
//
// Pure function: the caller owns updating the running balance afterwards.
func ClassifyAmounts(amounts []decimal.Decimal, balance decimal.Decimal, prev decimal.NullDecimal) AmountSplit {
	switch len(amounts) {
	case 1:
		split := AmountSplit{}
		if prev.Valid {
			delta := balance.Sub(prev.Decimal)
			switch {
			case delta.Add(amounts[0]).Abs().LessThan(reconTolerance):
				split.Withdrawal = nullDecimal(amounts[0])
				split.Reconciled = true
			case delta.Sub(amounts[0]).Abs().LessThan(reconTolerance):
				split.Deposit = nullDecimal(amounts[0])
				split.Reconciled = true
			default:
				split.Withdrawal = nullDecimal(amounts[0])
			}
			return split
		}
		split.Withdrawal = nullDecimal(amounts[0])
		return split
	case 2:
		return AmountSplit{
			Withdrawal: nullDecimal(amounts[0]),
			Deposit:    nullDecimal(amounts[1]),
			Reconciled: true,
		}
	default:
		// The format prints one or two amounts. Anything else leaves
		// both columns unset rather than guessing an attribution.
		return AmountSplit{}
	}
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
