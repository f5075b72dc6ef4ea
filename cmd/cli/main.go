package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/infrastructure/logger"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres"
)

// Overridable in tests.
var (
	runMigrationsUp   = postgres.RunMigrations
	runMigrationsDown = postgres.RunMigrationsDown
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "bookkeeper-cli",
		Short: "Bookkeeper CLI tool",
		Long:  `A command line interface for the bookkeeper API and database.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bookkeeper API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		migrateCmd(),
		chartCmd(opts),
		balanceCmd(opts),
		consistencyCmd(opts),
	)

	return rootCmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory or source URL")

	log := logger.New(logger.Config{Level: "info", Format: "console", Output: os.Stderr})

	requireURL := func() error {
		if databaseURL == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireURL(); err != nil {
					return err
				}
				return runMigrationsUp(databaseURL, migrationsPath, log)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireURL(); err != nil {
					return err
				}
				return runMigrationsDown(databaseURL, migrationsPath, log)
			},
		},
	)

	return cmd
}

func chartCmd(opts *options) *cobra.Command {
	var ledger string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the chart of accounts of a ledger as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var chart json.RawMessage
			if err := opts.get("/api/v1/ledgers/"+url.PathEscape(ledger)+"/chart", &chart); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), chart)
		},
	}
	cmd.Flags().StringVar(&ledger, "ledger", "", "Ledger slug")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

func balanceCmd(opts *options) *cobra.Command {
	var ledger, account, externalID, prefix string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance of an account",
		Long: `Print the balance of an account. System accounts are addressed by name;
entity accounts by account type name plus --external-id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/ledgers/" + url.PathEscape(ledger) + "/accounts/" + url.PathEscape(account) + "/balance"
			if externalID != "" {
				q := url.Values{"external_id": {externalID}}
				if prefix != "" {
					q.Set("prefix", prefix)
				}
				path += "?" + q.Encode()
			}

			var resp dto.BalanceResponse
			if err := opts.get(path, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", resp.Account, resp.Balance.Formatted)
			return nil
		},
	}
	cmd.Flags().StringVar(&ledger, "ledger", "", "Ledger slug")
	cmd.Flags().StringVar(&account, "account", "", "System account name or entity account type")
	cmd.Flags().StringVar(&externalID, "external-id", "", "Entity external ID")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Entity prefix")
	_ = cmd.MarkFlagRequired("ledger")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func consistencyCmd(opts *options) *cobra.Command {
	var ledger string

	cmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that debits equal credits in a ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			err := opts.get("/api/v1/ledgers/"+url.PathEscape(ledger)+"/consistency", &report)
			if err != nil && report.Ledger == "" {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Debits:  %s\n", report.Debits.Formatted)
			fmt.Fprintf(out, "Credits: %s\n", report.Credits.Formatted)
			if !report.Consistent {
				return fmt.Errorf("ledger %s is inconsistent", ledger)
			}

			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}
	cmd.Flags().StringVar(&ledger, "ledger", "", "Ledger slug")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("request failed (status %d): %s: %s", e.Status, e.Body.Error, e.Body.Message)
	}
	return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Body.Error)
}

// get decodes the JSON body into out. Non-2xx answers are returned as
// *apiError, but the body is still decoded into out when it parses.
func (o *options) get(path string, out any) error {
	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Get(o.baseURL + path)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(body, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body = dto.ErrorResponse{Error: string(body)}
		}
		if resp.StatusCode == http.StatusConflict {
			_ = json.Unmarshal(body, out)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
