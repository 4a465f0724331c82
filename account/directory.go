/*
directory.go - Beneficiary directory operations

PURPOSE:
  Create/update/delete for beneficiary records. The directory guarantees id
  uniqueness and nothing else: the domain-level duplicate rule (no two
  beneficiaries with the same name + IBAN) is a caller-side check run
  before create, see DuplicateExists.

DELETION:
  Deleting a beneficiary does NOT cascade to the ledger. Transactions
  keep referencing the dead id and consumers render them as "unknown
  beneficiary". Deleting an absent id is a silent no-op so retries are safe.
*/
package account

import "sort"

// CreateBeneficiary inserts a new beneficiary. Any id on the candidate
// (including the -1 sentinel) is ignored; a fresh id is allocated. Returns
// the stored record.
//
// No duplicate check happens here - callers run DuplicateExists first.
func (c *Container) CreateBeneficiary(candidate Beneficiary) Beneficiary {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	candidate.ID = c.ids.Allocate()
	next.Beneficiaries[candidate.ID] = candidate
	c.state = next
	return candidate
}

// UpdateBeneficiary overwrites the patchable fields (first name, last name,
// IBAN) of the beneficiary with patch.ID. Returns ErrBeneficiaryNotFound
// and leaves the directory untouched when the id is absent.
func (c *Container) UpdateBeneficiary(patch Beneficiary) (Beneficiary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.state.Beneficiaries[patch.ID]
	if !ok {
		return Beneficiary{}, ErrBeneficiaryNotFound
	}

	next := c.state.Clone()
	existing.FirstName = patch.FirstName
	existing.LastName = patch.LastName
	existing.IBAN = patch.IBAN
	next.Beneficiaries[existing.ID] = existing
	c.state = next
	return existing, nil
}

// DeleteBeneficiary removes the entry if present. Absent ids are a no-op.
// The ledger is left alone: transactions referencing id become orphans.
func (c *Container) DeleteBeneficiary(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.Beneficiaries[id]; !ok {
		return
	}
	next := c.state.Clone()
	delete(next.Beneficiaries, id)
	c.state = next
}

// Beneficiaries returns a snapshot of the directory in insertion order.
// Ids are monotonic, so ascending id order is insertion order.
func (c *Container) Beneficiaries() []Beneficiary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return listBeneficiaries(c.state.Beneficiaries)
}

// ListBeneficiaries orders a directory mapping by ascending id. Shared by
// the container and the query engine so both iterate the same way.
func ListBeneficiaries(beneficiaries map[int64]Beneficiary) []Beneficiary {
	return listBeneficiaries(beneficiaries)
}

func listBeneficiaries(beneficiaries map[int64]Beneficiary) []Beneficiary {
	out := make([]Beneficiary, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DuplicateExists reports whether some existing beneficiary carries the
// identical (first name, last name, IBAN) triple as the candidate. This is
// the caller-side guard that protects the directory's semantic invariant;
// CreateBeneficiary itself does not enforce it.
func DuplicateExists(candidate Beneficiary, beneficiaries []Beneficiary) bool {
	for _, b := range beneficiaries {
		if b.FirstName == candidate.FirstName &&
			b.LastName == candidate.LastName &&
			b.IBAN == candidate.IBAN {
			return true
		}
	}
	return false
}
