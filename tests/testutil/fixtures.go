package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	postgresRepo "github.com/iho/bookkeeper/internal/adapter/repository/postgres"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres/generated"
	"github.com/iho/bookkeeper/internal/usecase"
)

// PlatformLedger is the ledger slug SeedPlatform creates.
const PlatformLedger = "PLATFORM_USD"

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and applies the migrations. The test is
// skipped under -short or when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	// Tests run from their package directory; walk up to the module root.
	migrationsPath := "migrations"
	for _, candidate := range []string{"migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(candidate); err == nil {
			migrationsPath = candidate
			break
		}
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)

	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE
			ledger_entries,
			ledger_transactions,
			ledger_accounts,
			ledger_ledger_account_types,
			ledger_account_types,
			ledgers,
			currencies
		CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// NewStorage builds a LedgerStorage over the test database with the
// serialization-failure retrier installed.
func (db *TestDB) NewStorage() *usecase.LedgerStorage {
	logger := zerolog.Nop()
	return usecase.NewLedgerStorage(
		postgresRepo.NewTxManager(db.Pool),
		postgresRepo.NewRepositories(db.Pool),
		postgresRepo.NewULIDGenerator(),
		logger,
	).WithRetrier(postgresRepo.NewRetrier(logger))
}

// Platform is the fixture SeedPlatform creates.
type Platform struct {
	Ledger      *domain.Ledger
	Receivables *domain.LedgerAccountType
	Income      *domain.LedgerAccountType
}

// SeedPlatform registers USD, the PLATFORM_USD ledger, an entity RECEIVABLES
// type, a system INCOME type and the SYSTEM_INCOME_PAID_PROJECTS and
// SYSTEM_INCOME_PAYMENT_FEE accounts.
func SeedPlatform(t *testing.T, storage *usecase.LedgerStorage) *Platform {
	t.Helper()
	ctx := context.Background()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	_, err := storage.InsertCurrency(ctx, usecase.InsertCurrencyInput{Code: "USD", Symbol: "$", MinimumFractionDigits: 2})
	must(err)

	ledger, err := storage.InsertLedger(ctx, usecase.InsertLedgerInput{Slug: PlatformLedger, Name: "Platform", CurrencyCode: "USD"})
	must(err)

	receivables, err := storage.InsertAccountType(ctx, usecase.InsertAccountTypeInput{
		Slug:                  "RECEIVABLES",
		Description:           "Amounts owed by a user",
		NormalBalance:         domain.Debit,
		IsEntityLedgerAccount: true,
	})
	must(err)

	income, err := storage.InsertAccountType(ctx, usecase.InsertAccountTypeInput{
		Slug:          "INCOME",
		Description:   "Platform income",
		NormalBalance: domain.Credit,
	})
	must(err)

	for _, accountType := range []*domain.LedgerAccountType{receivables, income} {
		must(storage.AssignAccountTypeToLedger(ctx, usecase.AssignAccountTypeInput{
			AccountTypeID: accountType.ID,
			LedgerID:      ledger.ID,
		}))
	}

	for _, name := range []string{"SYSTEM_INCOME_PAID_PROJECTS", "SYSTEM_INCOME_PAYMENT_FEE"} {
		_, err = storage.InsertAccount(ctx, usecase.InsertAccountInput{Account: System(t, name), AccountTypeSlug: "INCOME"})
		must(err)
	}

	return &Platform{Ledger: ledger, Receivables: receivables, Income: income}
}

// USD parses amount as a USD quantity.
func USD(t *testing.T, amount string) domain.Quantity {
	t.Helper()
	q, err := domain.ParseQuantityAmount(amount, "USD", 2)
	if err != nil {
		t.Fatalf("parse %s: %v", amount, err)
	}
	return q
}

// System references a system account in the platform ledger.
func System(t *testing.T, name string) domain.AccountReference {
	t.Helper()
	ref, err := domain.NewSystemAccount(PlatformLedger, name)
	if err != nil {
		t.Fatalf("system account %s: %v", name, err)
	}
	return ref
}

// User references a USER-prefixed entity account in the platform ledger.
func User(t *testing.T, name, externalID string) domain.AccountReference {
	t.Helper()
	ref, err := domain.NewEntityAccount(PlatformLedger, name, externalID, domain.WithPrefix("USER"))
	if err != nil {
		t.Fatalf("entity account %s:%s: %v", name, externalID, err)
	}
	return ref
}

// Transfer debits from and credits to with the same USD amount.
func Transfer(t *testing.T, from, to domain.AccountReference, amount string) domain.DoubleEntry {
	t.Helper()
	debit, err := domain.DebitEntry(from, USD(t, amount))
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	credit, err := domain.CreditEntry(to, USD(t, amount))
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	de, err := domain.NewDoubleEntry([]domain.Entry{debit}, []domain.Entry{credit}, "")
	if err != nil {
		t.Fatalf("double entry: %v", err)
	}
	return de
}

// Post assembles the double entries into one transaction and inserts it.
func Post(ctx context.Context, t *testing.T, storage *usecase.LedgerStorage, entries ...domain.DoubleEntry) (*domain.PersistedTransaction, error) {
	t.Helper()
	tx, err := domain.NewTransactionFromDoubleEntries(entries)
	if err != nil {
		t.Fatalf("assemble transaction: %v", err)
	}
	return storage.InsertTransaction(ctx, tx)
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
