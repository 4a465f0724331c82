/*
handlers.go - HTTP API handlers for the account engine

PURPOSE:
  Exposes the account state container via REST. Handles HTTP parsing, the
  boundary validation the engine assumes has happened, JSON serialization,
  and persistence of the fresh snapshot after every mutation.

ENDPOINTS:
  Account:
    GET    /api/account              Full snapshot
    GET    /api/account/summary      Weekly summary (?date= overrides today)

  Beneficiaries:
    GET    /api/beneficiaries        List directory
    POST   /api/beneficiaries        Create (validates + duplicate check)
    PUT    /api/beneficiaries/{id}   Update
    DELETE /api/beneficiaries/{id}   Delete (idempotent)

  Transactions:
    GET    /api/transactions         List ledger
    POST   /api/transactions         Create (debits balance)
    PUT    /api/transactions/{id}    Update (net balance = old - new)
    DELETE /api/transactions/{id}    Delete (credits balance, idempotent)

  Seeding:
    POST   /api/seed                 First-run init (blank|sample)

ERROR HANDLING:
  - 400: Field validation failures, malformed bodies/ids
  - 404: Update target not found
  - 409: Duplicate beneficiary, repeat seeding without force
  - 500: Persistence failures

DURABILITY:
  Every mutation writes the new snapshot to the store before responding,
  so a restart restores the exact last-observed state.

SEE ALSO:
  - dto.go: Request/response types and validation
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pocketfin/account-engine/account"
	"github.com/pocketfin/account-engine/factory"
	"github.com/pocketfin/account-engine/store"
)

// topTransactionCount is how many entries the summary's ranking shows.
const topTransactionCount = 5

// SeedDefaults carries the configured starting balances for the two
// seeding modes.
type SeedDefaults struct {
	BlankBalance        int64
	SampleBalance       int64
	SampleBeneficiaries int
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Account *account.Container
	Store   store.Store
	Seeds   SeedDefaults

	now func() time.Time
	rng *rand.Rand
}

// NewHandler creates a handler around the given container and store.
func NewHandler(container *account.Container, st store.Store, seeds SeedDefaults) *Handler {
	return &Handler{
		Account: container,
		Store:   st,
		Seeds:   seeds,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetClock overrides the summary reference clock. Tests use this.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// persist writes the current snapshot to durable storage.
func (h *Handler) persist(w http.ResponseWriter, r *http.Request) bool {
	if err := h.Store.SaveState(r.Context(), h.Account.Snapshot()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist account state", err)
		return false
	}
	return true
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// GetAccount returns the full account snapshot.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	state := h.Account.Snapshot()
	writeJSON(w, http.StatusOK, AccountDTO{
		User:          toUserDTO(state.User),
		Beneficiaries: toBeneficiaryDTOs(account.ListBeneficiaries(state.Beneficiaries)),
		Transactions:  toTransactionDTOs(state.Transactions, state.Beneficiaries),
	})
}

// GetSummary returns the weekly dashboard view. The reference date defaults
// to now and can be overridden with ?date=2006-01-02 (or RFC3339).
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ref := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date parameter", err)
			return
		}
		ref = parsed
	}

	state := h.Account.Snapshot()
	week := account.WeekOf(ref)
	partition := account.PartitionByWeek(state.Transactions, ref)
	totals := account.AggregateByBeneficiary(state.Transactions, state.Beneficiaries)
	top := account.TopN(state.Transactions, topTransactionCount)

	writeJSON(w, http.StatusOK, SummaryDTO{
		Balance:          state.User.Balance.IntPart(),
		WeekStart:        week.Start.Format("2006-01-02"),
		WeekEnd:          week.End.Format("2006-01-02"),
		CurrentWeekCount: len(partition.CurrentWeek),
		CurrentWeek:      toTransactionDTOs(partition.CurrentWeek, state.Beneficiaries),
		PriorWeeks:       toTransactionDTOs(partition.PriorWeeks, state.Beneficiaries),
		ByBeneficiary:    toBeneficiaryTotalDTOs(totals),
		TopTransactions:  toTransactionDTOs(top, state.Beneficiaries),
	})
}

// =============================================================================
// BENEFICIARY HANDLERS
// =============================================================================

// ListBeneficiaries returns the directory in insertion order.
func (h *Handler) ListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toBeneficiaryDTOs(h.Account.Beneficiaries()))
}

// CreateBeneficiary validates the candidate, runs the duplicate check, and
// inserts. The duplicate rule is enforced here: the directory itself only
// guarantees id uniqueness.
func (h *Handler) CreateBeneficiary(w http.ResponseWriter, r *http.Request) {
	var req BeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationError(errs))
		return
	}

	candidate := req.Candidate()
	if account.DuplicateExists(candidate, h.Account.Beneficiaries()) {
		writeError(w, http.StatusConflict, "Beneficiary already exists", account.ErrDuplicateBeneficiary)
		return
	}

	created := h.Account.CreateBeneficiary(candidate)
	if !h.persist(w, r) {
		return
	}
	writeJSON(w, http.StatusCreated, toBeneficiaryDTO(created))
}

// UpdateBeneficiary overwrites the patchable fields of an existing record.
func (h *Handler) UpdateBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid beneficiary id", err)
		return
	}

	var req BeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationError(errs))
		return
	}

	patch := req.Candidate()
	patch.ID = id
	updated, err := h.Account.UpdateBeneficiary(patch)
	if errors.Is(err, account.ErrBeneficiaryNotFound) {
		writeError(w, http.StatusNotFound, "Beneficiary not found", err)
		return
	}
	if !h.persist(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, toBeneficiaryDTO(updated))
}

// DeleteBeneficiary removes the record if present. Deleting an absent id
// succeeds (idempotent), and referencing transactions are left orphaned.
func (h *Handler) DeleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid beneficiary id", err)
		return
	}

	h.Account.DeleteBeneficiary(id)
	if !h.persist(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns the ledger in insertion order.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	state := h.Account.Snapshot()
	writeJSON(w, http.StatusOK, toTransactionDTOs(state.Transactions, state.Beneficiaries))
}

// CreateTransaction validates the candidate and appends it; the balance
// debit lands in the same snapshot as the append.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationError(errs))
		return
	}

	created := h.Account.CreateTransaction(req.Candidate())
	if !h.persist(w, r) {
		return
	}
	state := h.Account.Snapshot()
	writeJSON(w, http.StatusCreated, toTransactionDTO(created, state.Beneficiaries))
}

// UpdateTransaction patches amount/beneficiary; the balance moves by
// old amount minus new amount.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationError(errs))
		return
	}

	patch := req.Candidate()
	patch.ID = id
	updated, err := h.Account.UpdateTransaction(patch)
	if errors.Is(err, account.ErrTransactionNotFound) {
		writeError(w, http.StatusNotFound, "Transaction not found", err)
		return
	}
	if !h.persist(w, r) {
		return
	}
	state := h.Account.Snapshot()
	writeJSON(w, http.StatusOK, toTransactionDTO(updated, state.Beneficiaries))
}

// DeleteTransaction removes the record and credits its amount back.
// Deleting an absent id succeeds (idempotent under retry).
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}

	h.Account.DeleteTransaction(id)
	if !h.persist(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SEEDING
// =============================================================================

// SeedAccount runs the one-time initialization. The gate is the store's
// initialized flag; force bypasses it and overwrites cleanly.
func (h *Handler) SeedAccount(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if !req.Force {
		initialized, err := h.Store.Initialized(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read initialized flag", err)
			return
		}
		if initialized {
			writeError(w, http.StatusConflict, "Account already initialized", nil)
			return
		}
	}

	var data account.SeedData
	switch req.Mode {
	case "sample":
		data = factory.Sample(h.rng, h.now(), h.Seeds.SampleBeneficiaries, h.Seeds.SampleBalance)
	case "blank", "":
		data = account.BlankSeed(h.Seeds.BlankBalance)
	default:
		writeError(w, http.StatusBadRequest, "Unknown seed mode: "+req.Mode, nil)
		return
	}

	h.Account.Seed(data)
	if !h.persist(w, r) {
		return
	}
	if err := h.Store.SetInitialized(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set initialized flag", err)
		return
	}

	state := h.Account.Snapshot()
	writeJSON(w, http.StatusOK, AccountDTO{
		User:          toUserDTO(state.User),
		Beneficiaries: toBeneficiaryDTOs(account.ListBeneficiaries(state.Beneficiaries)),
		Transactions:  toTransactionDTOs(state.Transactions, state.Beneficiaries),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
