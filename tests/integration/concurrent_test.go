package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/tests/testutil"
)

func TestConcurrentAllocationsForSameParty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	st := newStack(t, db)

	scope := db.SeedScope(ctx)
	inv := db.CreateInvoice(ctx, scope, "INV/0001", day(1), "100")
	pay := db.CreatePayment(ctx, scope, "BNK/0001", day(2), "60")

	const workers = 4
	sessionIDs := make([]string, workers)
	for i := range sessionIDs {
		session, err := st.sessions.Load(ctx, loadInput(scope))
		if err != nil {
			t.Fatalf("failed to load session %d: %v", i, err)
		}
		sessionIDs[i] = session.ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for _, id := range sessionIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := st.allocation.Allocate(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			successes++
		}(id)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one allocation to succeed, got %d (failures %v)", successes, failures)
	}
	for _, err := range failures {
		if !errors.Is(err, domain.ErrNoPayableAmount) {
			t.Errorf("expected later runs to find nothing payable, got %v", err)
		}
	}

	if got := db.Residual(ctx, inv.ID); !got.IsZero() {
		t.Errorf("expected invoice cleared by settlement and payment, residual %s", got)
	}
	if got := db.Residual(ctx, pay.ID); !got.IsZero() {
		t.Errorf("expected payment consumed once, residual %s", got)
	}

	var payments int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM payment_instructions WHERE party_id = $1`, scope.PartyID).Scan(&payments); err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 1 {
		t.Errorf("expected one payment instruction, got %d", payments)
	}
}
