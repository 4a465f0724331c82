/*
Package factory generates sample account data for the seeding service.

PURPOSE:
  Produces randomized beneficiary and transaction records for the "sample
  data" first-run mode. The engine only stores what comes out of here; the
  generation rules (name pools, demonstration IBANs, amount ranges, one
  batch of transactions for the current week and one for the prior week)
  live entirely in this package.

DETERMINISM:
  Every generator takes a *rand.Rand so tests can pin a seed and assert on
  the output shape.
*/
package factory

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketfin/account-engine/account"
)

// Demonstration IBANs, not real accounts.
var sampleIBANs = []string{
	"GB33BUKB20201555555555",
	"FR7630006000011234567890189",
	"DE89370400440532013000",
	"ES9121000418450200051332",
	"IT60X0542811101000000123456",
}

var (
	firstNames = []string{"John", "Jane", "Michael", "Emily", "David"}
	lastNames  = []string{"Doe", "Smith", "Johnson", "Williams", "Brown"}
)

// Beneficiaries generates n random beneficiaries keyed by ids 1..n.
func Beneficiaries(rng *rand.Rand, n int) map[int64]account.Beneficiary {
	out := make(map[int64]account.Beneficiary, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		out[id] = account.Beneficiary{
			ID:        id,
			FirstName: firstNames[rng.Intn(len(firstNames))],
			LastName:  lastNames[rng.Intn(len(lastNames))],
			IBAN:      sampleIBANs[rng.Intn(len(sampleIBANs))],
		}
	}
	return out
}

// Transactions generates 5-10 transactions inside the current week and
// 5-10 inside the prior week, each referencing a random beneficiary from
// the given directory. Ids continue after the highest beneficiary id so
// every seeded id is distinct.
func Transactions(rng *rand.Rand, now time.Time, beneficiaries map[int64]account.Beneficiary) []account.Transaction {
	ids := make([]int64, 0, len(beneficiaries))
	for id := range beneficiaries {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []account.Transaction{}
	}

	nextID := int64(len(beneficiaries))
	alloc := func() int64 { nextID++; return nextID }

	var out []account.Transaction
	out = append(out, weekBatch(rng, account.WeekOf(now), ids, alloc)...)
	out = append(out, weekBatch(rng, account.WeekOf(now.AddDate(0, 0, -7)), ids, alloc)...)
	return out
}

// weekBatch generates 5-10 transactions with timestamps spread uniformly
// across the given week.
func weekBatch(rng *rand.Rand, week account.WeekRange, beneficiaryIDs []int64, alloc func() int64) []account.Transaction {
	count := 5 + rng.Intn(6)
	span := week.End.Sub(week.Start)

	out := make([]account.Transaction, 0, count)
	for i := 0; i < count; i++ {
		at := week.Start.Add(time.Duration(rng.Int63n(int64(span))))
		out = append(out, account.Transaction{
			ID:            alloc(),
			Amount:        decimal.NewFromInt(10 + rng.Int63n(991)), // 10..1000
			BeneficiaryID: beneficiaryIDs[rng.Intn(len(beneficiaryIDs))],
			CreatedAt:     at,
			UpdatedAt:     at,
		})
	}
	return out
}

// Sample assembles a complete sample-mode seed: balance as given, n
// beneficiaries, and two weeks of transactions referencing them.
func Sample(rng *rand.Rand, now time.Time, n int, balance int64) account.SeedData {
	beneficiaries := Beneficiaries(rng, n)
	return account.SeedData{
		Balance:       decimal.NewFromInt(balance),
		Beneficiaries: beneficiaries,
		Transactions:  Transactions(rng, now, beneficiaries),
	}
}
