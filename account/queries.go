/*
queries.go - Derived views over an account snapshot

PURPOSE:
  Pure functions that compute read-only views from a State snapshot: the
  canonical week boundary, the current/prior week partition, per-beneficiary
  totals, and top-N ranking. Nothing here mutates; every function is safe on
  empty input and returns empty results rather than failing.

WEEK BOUNDARY:
  A week runs Monday through Sunday. The week of a reference date starts at
  the most recent Monday at or before it (a Sunday belongs to the week that
  started six days earlier).
*/
package account

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// WeekRange is the canonical Monday..Sunday bucket around a reference date.
type WeekRange struct {
	Start time.Time // Monday, midnight
	End   time.Time // the following Sunday, midnight
}

// WeekPartition splits a ledger around a reference date.
type WeekPartition struct {
	CurrentWeek []Transaction // created within [week start, reference]
	PriorWeeks  []Transaction // created strictly before week start
}

// BeneficiaryTotal is one row of the per-beneficiary aggregation.
type BeneficiaryTotal struct {
	Beneficiary Beneficiary
	Total       decimal.Decimal
}

// WeekOf returns the week containing ref: Start is the most recent Monday
// at or before ref (at midnight in ref's location), End is six days later.
func WeekOf(ref time.Time) WeekRange {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0 ... Sunday = 6
	start := day.AddDate(0, 0, -offset)
	return WeekRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// PartitionByWeek assigns every transaction created at or before ref to
// exactly one side: CurrentWeek for [weekStart, ref], PriorWeeks for
// anything earlier. Transactions created after ref are excluded from both;
// they should not occur, but must not break the view.
func PartitionByWeek(txs []Transaction, ref time.Time) WeekPartition {
	start := WeekOf(ref).Start
	part := WeekPartition{
		CurrentWeek: []Transaction{},
		PriorWeeks:  []Transaction{},
	}
	for _, tx := range txs {
		switch {
		case tx.CreatedAt.After(ref):
			// Future-dated entry, skip.
		case tx.CreatedAt.Before(start):
			part.PriorWeeks = append(part.PriorWeeks, tx)
		default:
			part.CurrentWeek = append(part.CurrentWeek, tx)
		}
	}
	return part
}

// AggregateByBeneficiary sums transaction amounts per beneficiary. Every
// beneficiary in the directory appears in the result, with a zero total
// when nothing matches. Rows are sorted descending by total; the sort is
// stable, so ties keep the directory's iteration order. Transactions whose
// beneficiary id matches nothing in the directory contribute to no row.
func AggregateByBeneficiary(txs []Transaction, beneficiaries map[int64]Beneficiary) []BeneficiaryTotal {
	totals := make(map[int64]decimal.Decimal, len(beneficiaries))
	for _, tx := range txs {
		if _, ok := beneficiaries[tx.BeneficiaryID]; !ok {
			continue
		}
		totals[tx.BeneficiaryID] = totals[tx.BeneficiaryID].Add(tx.Amount)
	}

	out := make([]BeneficiaryTotal, 0, len(beneficiaries))
	for _, b := range listBeneficiaries(beneficiaries) {
		total, ok := totals[b.ID]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, BeneficiaryTotal{Beneficiary: b, Total: total})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// TopN returns the n transactions with the greatest amounts, descending.
// The sort is stable, so equal amounts keep their ledger order. Fewer than
// n transactions means all of them come back; n <= 0 means none.
func TopN(txs []Transaction, n int) []Transaction {
	if n <= 0 {
		return []Transaction{}
	}
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
