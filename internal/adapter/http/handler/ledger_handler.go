package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	InsertCurrency(ctx context.Context, input usecase.InsertCurrencyInput) (*domain.Currency, error)
	FindCurrency(ctx context.Context, code string) (*domain.Currency, error)
	InsertLedger(ctx context.Context, input usecase.InsertLedgerInput) (*domain.Ledger, error)
	FindLedger(ctx context.Context, slug string) (*domain.Ledger, error)
	InsertAccountType(ctx context.Context, input usecase.InsertAccountTypeInput) (*domain.LedgerAccountType, error)
	FindAccountTypeBySlug(ctx context.Context, slug string) (*domain.LedgerAccountType, error)
	AssignAccountTypeToLedger(ctx context.Context, input usecase.AssignAccountTypeInput) error
	Chart(ctx context.Context, ledgerSlug string) (*usecase.Chart, error)
	CheckConsistency(ctx context.Context, ledgerSlug string) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles currencies, ledgers, account types and the chart of accounts.
type LedgerHandler struct {
	ledgers LedgerService
	locale  language.Tag
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgers LedgerService, locale language.Tag) *LedgerHandler {
	return &LedgerHandler{ledgers: ledgers, locale: locale}
}

// CreateCurrency registers a currency.
func (h *LedgerHandler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.ledgers.InsertCurrency(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create currency", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CurrencyFromDomain(currency))
}

// GetCurrency retrieves a currency by code.
func (h *LedgerHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	currency, err := h.ledgers.FindCurrency(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, "failed to get currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// CreateLedger creates a ledger.
func (h *LedgerHandler) CreateLedger(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLedgerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ledger, err := h.ledgers.InsertLedger(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create ledger", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LedgerFromDomain(ledger))
}

// GetLedger retrieves a ledger by slug.
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.ledgers.FindLedger(r.Context(), chi.URLParam(r, "ledger"))
	if err != nil {
		writeDomainError(w, "failed to get ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(ledger))
}

// CreateAccountType creates an account type. A parent is resolved by slug.
func (h *LedgerHandler) CreateAccountType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var parentID *string
	if req.ParentSlug != "" {
		parent, err := h.ledgers.FindAccountTypeBySlug(r.Context(), req.ParentSlug)
		if err != nil {
			writeDomainError(w, "failed to resolve parent account type", err)
			return
		}
		parentID = &parent.ID
	}

	accountType, err := h.ledgers.InsertAccountType(r.Context(), req.ToUseCaseInput(parentID))
	if err != nil {
		writeDomainError(w, "failed to create account type", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountTypeFromDomain(accountType))
}

// GetAccountType retrieves an account type by slug.
func (h *LedgerHandler) GetAccountType(w http.ResponseWriter, r *http.Request) {
	accountType, err := h.ledgers.FindAccountTypeBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeDomainError(w, "failed to get account type", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountTypeFromDomain(accountType))
}

// AssignAccountType registers an account type against a ledger.
func (h *LedgerHandler) AssignAccountType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ledger, err := h.ledgers.FindLedger(ctx, chi.URLParam(r, "ledger"))
	if err != nil {
		writeDomainError(w, "failed to get ledger", err)
		return
	}

	accountType, err := h.ledgers.FindAccountTypeBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeDomainError(w, "failed to get account type", err)
		return
	}

	err = h.ledgers.AssignAccountTypeToLedger(ctx, usecase.AssignAccountTypeInput{
		AccountTypeID: accountType.ID,
		LedgerID:      ledger.ID,
	})
	if err != nil {
		writeDomainError(w, "failed to assign account type", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Chart returns the chart of accounts of a ledger.
func (h *LedgerHandler) Chart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.ledgers.Chart(r.Context(), chi.URLParam(r, "ledger"))
	if err != nil {
		writeDomainError(w, "failed to build chart of accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChartFromDomain(chart))
}

// Consistency reports whether the debit and credit totals of a ledger agree.
// An inconsistent ledger is reported with 409 and the totals in the body.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "ledger")

	report, err := h.ledgers.CheckConsistency(ctx, slug)
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	symbol := ""
	if currency, cerr := h.ledgers.FindCurrency(ctx, report.Debits.UnitCode()); cerr == nil {
		symbol = currency.Symbol
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromDomain(report, symbol, requestLocale(r, h.locale)))
}
