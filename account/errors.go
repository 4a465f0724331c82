/*
errors.go - Centralized error types for the account engine

PURPOSE:
  All error conditions the engine can signal, in one place. Callers match
  with errors.Is(). None of these are fatal: every mutation that detects one
  leaves the state untouched.

SEE ALSO:
  - directory.go, ledger.go: Where these are returned
  - api: Maps them to HTTP statuses
*/
package account

import "errors"

var (
	// ErrBeneficiaryNotFound is returned when an update targets a
	// beneficiary id that is not in the directory.
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")

	// ErrTransactionNotFound is returned when an update targets a
	// transaction id that is not in the ledger.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateBeneficiary is returned by callers that run the
	// DuplicateExists check before creating a beneficiary. The directory
	// itself does not self-enforce the rule.
	ErrDuplicateBeneficiary = errors.New("beneficiary already exists")
)
