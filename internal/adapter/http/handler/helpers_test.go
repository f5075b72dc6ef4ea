package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"wrapped ledger not found", fmt.Errorf("posting: %w", domain.ErrLedgerNotFound), http.StatusNotFound},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict},
		{"not registered", domain.ErrAccountTypeNotRegistered, http.StatusConflict},
		{"normal balance mismatch", domain.ErrNormalBalanceMismatch, http.StatusConflict},
		{"unbalanced", &domain.UnbalancedError{}, http.StatusUnprocessableEntity},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusUnprocessableEntity},
		{"empty transaction", domain.ErrEmptyTransaction, http.StatusUnprocessableEntity},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"reserved prefix", domain.ErrReservedPrefix, http.StatusBadRequest},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unexpected", domain.ErrUnexpected, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, "failed to post transaction", domain.ErrZeroSum)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "failed to post transaction" || resp.Message != domain.ErrZeroSum.Error() {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}

func TestDecodeJSON_ReportsJSONFieldNames(t *testing.T) {
	body := `{"double_entries":[{"debits":[{"account":{"kind":"ENTITY","name":"RECEIVABLES"},"amount":"1"}],"credits":[]}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var into dto.PostTransactionRequest
	err := decodeJSON(req, &into)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	for _, want := range []string{
		`double_entries[0].debits[0].account.external_id failed "required_if"`,
		`double_entries[0].credits failed "min"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestRequestLocale(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"fr-CH, fr;q=0.9, en;q=0.8", language.MustParse("fr-CH")},
		{"de", language.German},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Accept-Language", tt.header)
		}
		if got := requestLocale(req, language.English); got != tt.want {
			t.Fatalf("requestLocale(%q) = %s, want %s", tt.header, got, tt.want)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	healthy := HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }}
	broken := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	rr := httptest.NewRecorder()
	NewHealthHandler(healthy).Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"postgres":"ok"`) {
		t.Fatalf("expected ready, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	NewHealthHandler(healthy, broken).Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "redis unhealthy") {
		t.Fatalf("expected redis failure, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	NewHealthHandler().Liveness(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", rr.Code)
	}
}
