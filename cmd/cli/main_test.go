package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func newAPI(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle, ok := routes[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"ledger not found","message":"not found"}`))
			return
		}
		handle(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func respond(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestChartCmd(t *testing.T) {
	srv := newAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1/ledgers/PLATFORM/chart": respond(http.StatusOK, `{"ledger":"PLATFORM","system_accounts":[]}`),
	})

	out, err := runCLI(t, "--url", srv.URL, "chart", "--ledger", "PLATFORM")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"ledger\": \"PLATFORM\",\n  \"system_accounts\": []\n}\n", out)
}

func TestChartCmdRequiresLedger(t *testing.T) {
	_, err := runCLI(t, "chart")
	assert.Error(t, err)
}

func TestBalanceCmd(t *testing.T) {
	var query string
	srv := newAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1/ledgers/PLATFORM/accounts/RECEIVABLES/balance": func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			respond(http.StatusOK, `{"ledger":"PLATFORM","account":"USER_RECEIVABLES:42","balance":{"amount":"25.00","currency":"USD","formatted":"$25.00"}}`)(w, r)
		},
	})

	out, err := runCLI(t, "--url", srv.URL, "balance", "--ledger", "PLATFORM", "--account", "RECEIVABLES", "--external-id", "42", "--prefix", "USER")
	require.NoError(t, err)
	assert.Equal(t, "USER_RECEIVABLES:42 $25.00\n", out)
	assert.Equal(t, "external_id=42&prefix=USER", query)
}

func TestBalanceCmdAPIError(t *testing.T) {
	srv := newAPI(t, nil)

	_, err := runCLI(t, "--url", srv.URL, "balance", "--ledger", "MISSING", "--account", "CASH")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "ledger not found", apiErr.Body.Error)
	assert.Contains(t, err.Error(), "status 404")
}

func TestConsistencyCmd(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		output  string
	}{
		{
			name:   "passes",
			status: http.StatusOK,
			body:   `{"ledger":"PLATFORM","debits":{"formatted":"$10.00"},"credits":{"formatted":"$10.00"},"consistent":true}`,
			output: "Consistency check PASSED",
		},
		{
			name:    "reports imbalance",
			status:  http.StatusConflict,
			body:    `{"ledger":"PLATFORM","debits":{"formatted":"$12.50"},"credits":{"formatted":"$10.00"},"consistent":false}`,
			wantErr: true,
			output:  "Debits:  $12.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAPI(t, map[string]func(http.ResponseWriter, *http.Request){
				"/api/v1/ledgers/PLATFORM/consistency": respond(tt.status, tt.body),
			})

			out, err := runCLI(t, "--url", srv.URL, "consistency", "--ledger", "PLATFORM")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "inconsistent")
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.output)
		})
	}
}

func TestConsistencyCmdUnknownLedger(t *testing.T) {
	srv := newAPI(t, nil)

	out, err := runCLI(t, "--url", srv.URL, "consistency", "--ledger", "MISSING")
	require.Error(t, err)
	assert.NotContains(t, out, "Debits")
}

func TestMigrateCmd(t *testing.T) {
	origUp, origDown := runMigrationsUp, runMigrationsDown
	t.Cleanup(func() { runMigrationsUp, runMigrationsDown = origUp, origDown })

	var calls []string
	runMigrationsUp = func(databaseURL, path string, _ zerolog.Logger) error {
		calls = append(calls, "up "+databaseURL+" "+path)
		return nil
	}
	runMigrationsDown = func(databaseURL, path string, _ zerolog.Logger) error {
		calls = append(calls, "down "+databaseURL+" "+path)
		return nil
	}

	_, err := runCLI(t, "migrate", "up", "--database-url", "postgres://db", "--path", "schema")
	require.NoError(t, err)
	_, err = runCLI(t, "migrate", "down", "--database-url", "postgres://db")
	require.NoError(t, err)

	assert.Equal(t, []string{"up postgres://db schema", "down postgres://db migrations"}, calls)
}

func TestMigrateCmdRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := runCLI(t, "migrate", "up")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "DATABASE_URL"))
}
