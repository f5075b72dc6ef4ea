package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	InsertAccount(ctx context.Context, input usecase.InsertAccountInput) (*domain.PersistedLedgerAccount, error)
	FindAccount(ctx context.Context, ref domain.AccountReference) (*domain.PersistedLedgerAccount, error)
	FetchAccountBalance(ctx context.Context, ref domain.AccountReference) (domain.Quantity, error)
	FindCurrency(ctx context.Context, code string) (*domain.Currency, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accounts AccountService
	locale   language.Tag
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService, locale language.Tag) *AccountHandler {
	return &AccountHandler{accounts: accounts, locale: locale}
}

// Create provisions an account in the ledger named by the path.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "ledger"))
	if err != nil {
		writeDomainError(w, "invalid account", err)
		return
	}

	account, err := h.accounts.InsertAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by reference.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := accountReference(r)
	if err != nil {
		writeDomainError(w, "invalid account", err)
		return
	}

	account, err := h.accounts.FindAccount(r.Context(), ref)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Balance reconstructs the balance of an account from its entries.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ref, err := accountReference(r)
	if err != nil {
		writeDomainError(w, "invalid account", err)
		return
	}

	balance, err := h.accounts.FetchAccountBalance(r.Context(), ref)
	if err != nil {
		writeDomainError(w, "failed to fetch balance", err)
		return
	}

	symbol := ""
	if currency, err := h.accounts.FindCurrency(r.Context(), balance.UnitCode()); err == nil {
		symbol = currency.Symbol
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Ledger:  ref.LedgerSlug(),
		Account: ref.AccountSlug(),
		Balance: dto.QuantityFromDomain(balance, symbol, requestLocale(r, h.locale)),
	})
}

// accountReference reads {ledger} and {account} from the path. The account is
// a system account name unless external_id is given, in which case it names
// the entity account type and prefix may override the default prefix.
func accountReference(r *http.Request) (domain.AccountReference, error) {
	ledger := chi.URLParam(r, "ledger")
	name := chi.URLParam(r, "account")

	query := r.URL.Query()
	externalID := query.Get("external_id")
	if externalID == "" {
		return domain.NewSystemAccount(ledger, name)
	}

	var opts []domain.EntityOption
	if prefix := query.Get("prefix"); prefix != "" {
		opts = append(opts, domain.WithPrefix(prefix))
	}

	return domain.NewEntityAccount(ledger, name, externalID, opts...)
}
