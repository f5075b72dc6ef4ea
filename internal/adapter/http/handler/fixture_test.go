package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	"github.com/iho/bookkeeper/internal/usecase"
)

const (
	receivable  = `{"kind":"ENTITY","name":"RECEIVABLES","external_id":"1","prefix":"USER"}`
	paidProject = `{"kind":"SYSTEM","name":"SYSTEM_INCOME_PAID_PROJECTS"}`
	paymentFee  = `{"kind":"SYSTEM","name":"SYSTEM_INCOME_PAYMENT_FEE"}`

	projectPayment = `{
		"description": "Project payment",
		"double_entries": [
			{"debits": [{"account": ` + receivable + `, "amount": "100"}], "credits": [{"account": ` + paidProject + `, "amount": "100"}]},
			{"debits": [{"account": ` + receivable + `, "amount": "3"}], "credits": [{"account": ` + paymentFee + `, "amount": "3"}]}
		]
	}`

	receivableBalancePath = "/ledgers/PLATFORM_USD/accounts/RECEIVABLES/balance?external_id=1&prefix=USER"
)

type fixture struct {
	storage *usecase.LedgerStorage
	router  chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	storage := usecase.NewLedgerStorage(store, store.Repositories(), memory.NewSequenceGenerator("id"), zerolog.Nop())

	ledgers := NewLedgerHandler(storage, language.English)
	accounts := NewAccountHandler(storage, language.English)
	transactions := NewTransactionHandler(storage, language.English)

	r := chi.NewRouter()
	r.Post("/currencies", ledgers.CreateCurrency)
	r.Get("/currencies/{code}", ledgers.GetCurrency)
	r.Post("/ledgers", ledgers.CreateLedger)
	r.Get("/ledgers/{ledger}", ledgers.GetLedger)
	r.Post("/account-types", ledgers.CreateAccountType)
	r.Get("/account-types/{slug}", ledgers.GetAccountType)
	r.Post("/ledgers/{ledger}/account-types/{slug}", ledgers.AssignAccountType)
	r.Get("/ledgers/{ledger}/chart", ledgers.Chart)
	r.Get("/ledgers/{ledger}/consistency", ledgers.Consistency)
	r.Post("/ledgers/{ledger}/accounts", accounts.Create)
	r.Get("/ledgers/{ledger}/accounts/{account}", accounts.Get)
	r.Get("/ledgers/{ledger}/accounts/{account}/balance", accounts.Balance)
	r.Post("/ledgers/{ledger}/transactions", transactions.Post)
	r.Get("/transactions/{id}", transactions.Get)
	r.Get("/transactions/{id}/entries", transactions.ListEntries)

	return &fixture{storage: storage, router: r}
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) must(t *testing.T, status int, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := f.do(method, path, body)
	require.Equal(t, status, rec.Code, "%s %s: %s", method, path, rec.Body.String())
	return rec
}

// seedPlatform registers USD, PLATFORM_USD, an entity RECEIVABLES type, a
// system INCOME type and two income accounts.
func (f *fixture) seedPlatform(t *testing.T) {
	t.Helper()

	f.must(t, http.StatusCreated, http.MethodPost, "/currencies", `{"code":"USD","symbol":"$","minimum_fraction_digits":2}`)
	f.must(t, http.StatusCreated, http.MethodPost, "/ledgers", `{"slug":"PLATFORM_USD","name":"Platform","currency_code":"USD"}`)
	f.must(t, http.StatusCreated, http.MethodPost, "/account-types",
		`{"slug":"RECEIVABLES","description":"Amounts owed by a user","normal_balance":"DEBIT","is_entity_ledger_account":true}`)
	f.must(t, http.StatusCreated, http.MethodPost, "/account-types", `{"slug":"INCOME","description":"Platform income","normal_balance":"CREDIT"}`)
	f.must(t, http.StatusNoContent, http.MethodPost, "/ledgers/PLATFORM_USD/account-types/RECEIVABLES", "")
	f.must(t, http.StatusNoContent, http.MethodPost, "/ledgers/PLATFORM_USD/account-types/INCOME", "")
	f.must(t, http.StatusCreated, http.MethodPost, "/ledgers/PLATFORM_USD/accounts", `{"account":`+paidProject+`,"account_type":"INCOME"}`)
	f.must(t, http.StatusCreated, http.MethodPost, "/ledgers/PLATFORM_USD/accounts", `{"account":`+paymentFee+`,"account_type":"INCOME"}`)
}
