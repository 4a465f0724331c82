/*
dto.go - Data Transfer Objects and request validation

PURPOSE:
  JSON structures for API communication plus the field-level validation the
  engine itself does not re-derive. DTOs decouple the wire contract from
  the domain model: amounts travel as whole integers, timestamps as RFC3339.

VALIDATION:
  The engine assumes candidates already satisfy field constraints, so the
  checks live here at the boundary:
  - first/last name: required, min length 2
  - IBAN: coarse pattern ^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$ (no checksum)
  - amount: integer >= 1
  Duplicate detection against the directory also runs here, before create.

SEE ALSO:
  - handlers.go: Uses these types
  - account/directory.go: DuplicateExists
*/
package api

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketfin/account-engine/account"
)

const unknownBeneficiary = "Unknown Beneficiary"

var ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$`)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// UserDTO represents the account holder.
type UserDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Balance   int64  `json:"balance"`
}

// BeneficiaryDTO represents a beneficiary in API responses.
type BeneficiaryDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IBAN      string `json:"iban"`
}

// TransactionDTO represents a ledger transaction. BeneficiaryName falls
// back to "Unknown Beneficiary" when the referenced record was deleted.
type TransactionDTO struct {
	ID              int64  `json:"id"`
	Amount          int64  `json:"amount"`
	BeneficiaryID   int64  `json:"beneficiary_id"`
	BeneficiaryName string `json:"beneficiary_name"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// AccountDTO is the full snapshot exposed to the UI.
type AccountDTO struct {
	User          UserDTO          `json:"user"`
	Beneficiaries []BeneficiaryDTO `json:"beneficiaries"`
	Transactions  []TransactionDTO `json:"transactions"`
}

// BeneficiaryTotalDTO is one row of the per-beneficiary aggregation.
type BeneficiaryTotalDTO struct {
	Beneficiary BeneficiaryDTO `json:"beneficiary"`
	Total       int64          `json:"total"`
}

// SummaryDTO is the weekly dashboard view: balance, week boundary, the
// current/prior week partition, per-beneficiary totals, and the top
// transactions by amount.
type SummaryDTO struct {
	Balance          int64                 `json:"balance"`
	WeekStart        string                `json:"week_start"`
	WeekEnd          string                `json:"week_end"`
	CurrentWeekCount int                   `json:"current_week_count"`
	CurrentWeek      []TransactionDTO      `json:"current_week"`
	PriorWeeks       []TransactionDTO      `json:"prior_weeks"`
	ByBeneficiary    []BeneficiaryTotalDTO `json:"by_beneficiary"`
	TopTransactions  []TransactionDTO      `json:"top_transactions"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// BeneficiaryRequest is the body for creating or updating a beneficiary.
type BeneficiaryRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IBAN      string `json:"iban"`
}

// Validate returns one message per invalid field, empty when clean.
func (r BeneficiaryRequest) Validate() []string {
	var errs []string
	if len(strings.TrimSpace(r.FirstName)) < 2 {
		errs = append(errs, "first_name must be at least 2 characters")
	}
	if len(strings.TrimSpace(r.LastName)) < 2 {
		errs = append(errs, "last_name must be at least 2 characters")
	}
	if !ibanPattern.MatchString(r.IBAN) {
		errs = append(errs, "iban must be a valid format")
	}
	return errs
}

// Candidate builds the sentinel-id domain record from the request.
func (r BeneficiaryRequest) Candidate() account.Beneficiary {
	b := account.DefaultBeneficiary()
	b.FirstName = strings.TrimSpace(r.FirstName)
	b.LastName = strings.TrimSpace(r.LastName)
	b.IBAN = r.IBAN
	return b
}

// TransactionRequest is the body for creating or updating a transaction.
type TransactionRequest struct {
	Amount        int64 `json:"amount"`
	BeneficiaryID int64 `json:"beneficiary_id"`
}

// Validate returns one message per invalid field, empty when clean.
// BeneficiaryID is deliberately not resolved against the directory: a
// dangling reference is allowed and rendered as unknown downstream.
func (r TransactionRequest) Validate() []string {
	var errs []string
	if r.Amount < 1 {
		errs = append(errs, "amount must be at least 1")
	}
	return errs
}

// Candidate builds the sentinel-id domain record from the request.
func (r TransactionRequest) Candidate() account.Transaction {
	tx := account.DefaultTransaction()
	tx.Amount = decimal.NewFromInt(r.Amount)
	tx.BeneficiaryID = r.BeneficiaryID
	return tx
}

// SeedRequest selects the first-run seeding mode. Force overrides the
// one-time gate and reseeds (overwrite semantics).
type SeedRequest struct {
	Mode  string `json:"mode"` // "blank" or "sample"
	Force bool   `json:"force,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(u account.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Balance:   u.Balance.IntPart(),
	}
}

func toBeneficiaryDTO(b account.Beneficiary) BeneficiaryDTO {
	return BeneficiaryDTO{
		ID:        b.ID,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		IBAN:      b.IBAN,
	}
}

func toBeneficiaryDTOs(bs []account.Beneficiary) []BeneficiaryDTO {
	dtos := make([]BeneficiaryDTO, len(bs))
	for i, b := range bs {
		dtos[i] = toBeneficiaryDTO(b)
	}
	return dtos
}

// toTransactionDTO resolves the beneficiary name from the directory,
// falling back to the unknown placeholder for orphaned references.
func toTransactionDTO(tx account.Transaction, beneficiaries map[int64]account.Beneficiary) TransactionDTO {
	name := unknownBeneficiary
	if b, ok := beneficiaries[tx.BeneficiaryID]; ok {
		name = b.FullName()
	}
	return TransactionDTO{
		ID:              tx.ID,
		Amount:          tx.Amount.IntPart(),
		BeneficiaryID:   tx.BeneficiaryID,
		BeneficiaryName: name,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       tx.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTOs(txs []account.Transaction, beneficiaries map[int64]account.Beneficiary) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx, beneficiaries)
	}
	return dtos
}

func toBeneficiaryTotalDTOs(totals []account.BeneficiaryTotal) []BeneficiaryTotalDTO {
	dtos := make([]BeneficiaryTotalDTO, len(totals))
	for i, t := range totals {
		dtos[i] = BeneficiaryTotalDTO{
			Beneficiary: toBeneficiaryDTO(t.Beneficiary),
			Total:       t.Total.IntPart(),
		}
	}
	return dtos
}

func validationError(errs []string) ErrorResponse {
	return ErrorResponse{
		Error:   fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")),
		Details: errs,
	}
}
