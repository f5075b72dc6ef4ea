package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	FindLedger(ctx context.Context, slug string) (*domain.Ledger, error)
	FindCurrency(ctx context.Context, code string) (*domain.Currency, error)
	InsertTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.PersistedTransaction, error)
	GetTransactionByID(ctx context.Context, id string) (*domain.PersistedTransaction, error)
	GetTransactionEntries(ctx context.Context, id string) ([]domain.PersistedEntry, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactions TransactionService
	locale       language.Tag
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionService, locale language.Tag) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, locale: locale}
}

// Post posts a transaction to the ledger named by the path. Amounts are
// interpreted in the ledger currency.
func (h *TransactionHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.PostTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ledger, err := h.transactions.FindLedger(ctx, chi.URLParam(r, "ledger"))
	if err != nil {
		writeDomainError(w, "failed to get ledger", err)
		return
	}

	currency, err := h.transactions.FindCurrency(ctx, ledger.CurrencyCode)
	if err != nil {
		writeDomainError(w, "failed to get ledger currency", err)
		return
	}

	transaction, err := req.ToDomain(ledger.Slug, currency)
	if err != nil {
		writeDomainError(w, "invalid transaction", err)
		return
	}

	posted, err := h.transactions.InsertTransaction(ctx, transaction)
	if err != nil {
		writeDomainError(w, "failed to post transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(posted))
}

// Get retrieves a transaction header by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	transaction, err := h.transactions.GetTransactionByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// ListEntries lists the entries of a transaction in posting order.
func (h *TransactionHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	entries, err := h.transactions.GetTransactionEntries(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	symbol := ""
	if len(entries) > 0 {
		if currency, err := h.transactions.FindCurrency(r.Context(), entries[0].Amount.UnitCode()); err == nil {
			symbol = currency.Symbol
		}
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries, symbol, requestLocale(r, h.locale)),
		Total:   int64(len(entries)),
	})
}
