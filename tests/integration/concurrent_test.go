package integration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bookkeeper/tests/testutil"
)

func TestConcurrentPostings(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)

	storage := testDB.NewStorage()

	t.Run("one entity account from many writers", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testutil.SeedPlatform(t, storage)

		receivable := testutil.User(t, "RECEIVABLES", "shared")
		paidProjects := testutil.System(t, "SYSTEM_INCOME_PAID_PROJECTS")

		const postings = 50

		var (
			wg        sync.WaitGroup
			successes atomic.Int32
		)
		wg.Add(postings)
		for range postings {
			go func() {
				defer wg.Done()

				// Contention may exhaust the retrier; a failed posting must leave no trace.
				if _, err := testutil.Post(ctx, t, storage, testutil.Transfer(t, receivable, paidProjects, "10")); err != nil {
					t.Logf("posting failed: %v", err)
					return
				}
				successes.Add(1)
			}()
		}
		wg.Wait()

		require.Positive(t, successes.Load())
		want := fmt.Sprintf("$%d.00", 10*successes.Load())

		balance, err := storage.FetchAccountBalance(ctx, receivable)
		require.NoError(t, err)
		assert.Equal(t, want, balance.String())

		balance, err = storage.FetchAccountBalance(ctx, paidProjects)
		require.NoError(t, err)
		assert.Equal(t, want, balance.String())

		report, err := storage.CheckConsistency(ctx, testutil.PlatformLedger)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
	})

	t.Run("many entity accounts materialized concurrently", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		platform := testutil.SeedPlatform(t, storage)

		const users = 20

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			posted    = map[int]int{}
			successes int
		)
		wg.Add(users * 2)
		for i := range users {
			for range 2 {
				go func() {
					defer wg.Done()

					receivable := testutil.User(t, "RECEIVABLES", fmt.Sprintf("user-%d", i))
					_, err := testutil.Post(ctx, t, storage,
						testutil.Transfer(t, receivable, testutil.System(t, "SYSTEM_INCOME_PAYMENT_FEE"), "1"))
					if err != nil {
						t.Logf("posting for user-%d failed: %v", i, err)
						return
					}

					mu.Lock()
					posted[i]++
					successes++
					mu.Unlock()
				}()
			}
		}
		wg.Wait()

		rows, err := testDB.Queries.ListLedgerAccountsByLedger(ctx, platform.Ledger.ID)
		require.NoError(t, err)
		assert.Len(t, rows, len(posted)+2, "each entity account exists once")

		report, err := storage.CheckConsistency(ctx, testutil.PlatformLedger)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Equal(t, fmt.Sprintf("$%d.00", successes), report.Credits.String())
	})
}
