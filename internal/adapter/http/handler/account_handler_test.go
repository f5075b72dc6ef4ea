package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
)

func TestAccountHandler_Create(t *testing.T) {
	f := newFixture(t)
	f.seedPlatform(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"duplicate system account", `{"account":` + paidProject + `,"account_type":"INCOME"}`, http.StatusConflict},
		{"system account without type", `{"account":{"kind":"SYSTEM","name":"SYSTEM_CASH"}}`, http.StatusBadRequest},
		{"unknown type", `{"account":{"kind":"SYSTEM","name":"SYSTEM_CASH"},"account_type":"ASSETS"}`, http.StatusNotFound},
		{"entity without external id", `{"account":{"kind":"ENTITY","name":"RECEIVABLES"}}`, http.StatusBadRequest},
		{"unknown kind", `{"account":{"kind":"OTHER","name":"RECEIVABLES"}}`, http.StatusBadRequest},
		{"entity account", `{"account":{"kind":"ENTITY","name":"RECEIVABLES","external_id":"9"}}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/ledgers/PLATFORM_USD/accounts", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := f.must(t, http.StatusOK, http.MethodGet, "/ledgers/PLATFORM_USD/accounts/RECEIVABLES?external_id=9", "")
	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "ENTITY_RECEIVABLES:9", account.Slug)
	assert.Equal(t, "Amounts owed by a user", account.Description, "description defaults to the type's")

	f.must(t, http.StatusOK, http.MethodGet, "/ledgers/PLATFORM_USD/accounts/SYSTEM_INCOME_PAID_PROJECTS", "")
}

func TestAccountHandler_Balance(t *testing.T) {
	f := newFixture(t)
	f.seedPlatform(t)
	f.must(t, http.StatusCreated, http.MethodPost, "/ledgers/PLATFORM_USD/transactions", projectPayment)

	tests := []struct {
		name      string
		path      string
		amount    string
		formatted string
		headers   []string
	}{
		{"entity account", receivableBalancePath, "103.00", "$103.00", nil},
		{"system account", "/ledgers/PLATFORM_USD/accounts/SYSTEM_INCOME_PAID_PROJECTS/balance", "100.00", "$100.00", nil},
		{"localized", "/ledgers/PLATFORM_USD/accounts/SYSTEM_INCOME_PAYMENT_FEE/balance", "3.00", "$3,00", []string{"Accept-Language", "de-DE,de;q=0.9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.path, "", tt.headers...)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp dto.BalanceResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "PLATFORM_USD", resp.Ledger)
			assert.Equal(t, tt.amount, resp.Balance.Amount)
			assert.Equal(t, tt.formatted, resp.Balance.Formatted)
			assert.Equal(t, "USD", resp.Balance.Currency)
		})
	}
}

func TestAccountHandler_BalanceErrors(t *testing.T) {
	f := newFixture(t)
	f.seedPlatform(t)

	rec := f.do(http.MethodGet, "/ledgers/PLATFORM_USD/accounts/SYSTEM_UNKNOWN/balance", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/ledgers/PLATFORM_USD/accounts/lowercase/balance", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/ledgers/PLATFORM_USD/accounts/RECEIVABLES/balance?external_id=1&prefix=SYSTEM", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "SYSTEM is reserved for preset accounts")
}
