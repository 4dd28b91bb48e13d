package test

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"chargeflow/chargeback"
	"chargeflow/customer"
	"chargeflow/merchant"
	"chargeflow/report"
	"chargeflow/seed"
	"chargeflow/test/infra"
	"chargeflow/test/oracles"
	"chargeflow/transaction"
)

// newTestStore provisions a Postgres (reused DSN or container) and
// returns a pool over a freshly initialized empty store.
func newTestStore(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("CHARGEFLOW_TEST_DSN") == "" && !dockerAvailable(ctx) {
		t.Skip("no CHARGEFLOW_TEST_DSN and no docker; skipping integration test")
	}

	pgC, dsn, err := infra.StartPostgres16(ctx, "")
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = pgC.Terminate(context.Background())
	})

	pool, err := infra.NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestStoreLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pool := newTestStore(t, ctx)
	reports := report.NewService(pool)

	// Empty store: every aggregate is zero, every listing empty.
	counts, err := reports.TableCounts(ctx)
	if err != nil {
		t.Fatalf("table counts: %v", err)
	}
	if counts.Customers != 0 || counts.Transactions != 0 || counts.Chargebacks != 0 || counts.CaseEvents != 0 {
		t.Fatalf("expected empty store, got %+v", counts)
	}
	txStats, err := reports.TransactionStats(ctx)
	if err != nil {
		t.Fatalf("transaction stats: %v", err)
	}
	if txStats.Count != 0 || txStats.TotalAmount != 0 {
		t.Fatalf("expected zero transaction stats, got %+v", txStats)
	}
	if listing, err := reports.Listing(ctx); err != nil || len(listing) != 0 {
		t.Fatalf("expected empty listing, got %d rows, err %v", len(listing), err)
	}

	customers := customer.NewRepository()
	merchants := merchant.NewRepository()
	txns := transaction.NewRepository()

	if _, err := customers.Create(ctx, pool, customer.CreateParams{ID: "cust_001", Name: "Sarah Mitchell"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if _, err := merchants.Create(ctx, pool, merchant.CreateParams{ID: "merch_001", Name: "TechGear Online"}); err != nil {
		t.Fatalf("create merchant: %v", err)
	}
	if _, err := txns.Insert(ctx, pool, transaction.Transaction{
		ID: "txn_0001", CustomerID: "cust_001", MerchantID: "merch_001", Amount: 100.00,
	}); err != nil {
		t.Fatalf("insert transaction: %v", err)
	}

	// A transaction referencing a missing customer is rejected and
	// leaves the counts untouched.
	_, err = txns.Insert(ctx, pool, transaction.Transaction{
		ID: "txn_bad", CustomerID: "cust_missing", MerchantID: "merch_001", Amount: 50.00,
	})
	if !errors.Is(err, transaction.ErrUnknownCustomer) {
		t.Fatalf("expected ErrUnknownCustomer, got %v", err)
	}
	counts, err = reports.TableCounts(ctx)
	if err != nil {
		t.Fatalf("table counts: %v", err)
	}
	if counts.Transactions != 1 {
		t.Fatalf("failed insert leaked rows: %+v", counts)
	}

	// File a dispute case: one transaction flips to disputed, an open
	// chargeback appears, and the trail is non-empty.
	svc := chargeback.NewService(pool, nil, nil, nil).
		WithIDGenerator(func() string { return "cb_test_001" })
	filed, err := svc.File(ctx, chargeback.FileParams{
		TransactionID: "txn_0001",
		ReasonCode:    "10.4",
		DisputeType:   "fraud",
		Category:      chargeback.CategoryTrueFraud,
		Amount:        100.00,
	})
	if err != nil {
		t.Fatalf("file chargeback: %v", err)
	}
	if filed.Status != chargeback.StatusOpen {
		t.Fatalf("expected open case, got %s", filed.Status)
	}
	got, err := txns.Get(ctx, pool, "txn_0001")
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Status != transaction.StatusDisputed {
		t.Fatalf("expected disputed transaction, got %s", got.Status)
	}
	cbStats, err := reports.ChargebackStats(ctx)
	if err != nil {
		t.Fatalf("chargeback stats: %v", err)
	}
	if cbStats.Total != 1 || cbStats.Open != 1 {
		t.Fatalf("expected one open case, got %+v", cbStats)
	}
	listing, err := reports.Listing(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(listing) != 1 || listing[0].Amount != 100.00 || listing[0].Status != "open" {
		t.Fatalf("expected single open 100.00 row, got %+v", listing)
	}
	if listing[0].CustomerName != "Sarah Mitchell" || listing[0].MerchantName != "TechGear Online" {
		t.Fatalf("listing join context wrong: %+v", listing[0])
	}

	// Second dispute against the same transaction is rejected.
	_, err = svc.File(ctx, chargeback.FileParams{
		TransactionID: "txn_0001",
		Category:      chargeback.CategoryTrueFraud,
		Amount:        100.00,
	})
	if !errors.Is(err, chargeback.ErrAlreadyDisputed) {
		t.Fatalf("expected ErrAlreadyDisputed, got %v", err)
	}

	// Resolve the case and confirm it lands in the won bucket with a
	// paired outcome/closed_at.
	closed, err := svc.Resolve(ctx, chargeback.ResolveParams{
		ChargebackID: filed.ID,
		Outcome:      chargeback.OutcomeWon,
	})
	if err != nil {
		t.Fatalf("resolve chargeback: %v", err)
	}
	if closed.Status != chargeback.StatusWon || closed.Outcome == nil || closed.ClosedAt == nil {
		t.Fatalf("expected won case with paired outcome, got %+v", closed)
	}
	cbStats, err = reports.ChargebackStats(ctx)
	if err != nil {
		t.Fatalf("chargeback stats: %v", err)
	}
	if cbStats.Won != 1 || cbStats.Open != 0 {
		t.Fatalf("expected one won case, got %+v", cbStats)
	}

	// Resolving a terminal case fails with a status error.
	if _, err := svc.Resolve(ctx, chargeback.ResolveParams{
		ChargebackID: filed.ID,
		Outcome:      chargeback.OutcomeLost,
	}); !errors.Is(err, chargeback.ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}

	// The cached customer counter follows a reconcile.
	if err := customers.ReconcileChargebackTotals(ctx, pool); err != nil {
		t.Fatalf("reconcile totals: %v", err)
	}
	c, err := customers.Get(ctx, pool, "cust_001")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if c.TotalChargebacks != 1 {
		t.Fatalf("expected total_chargebacks 1, got %d", c.TotalChargebacks)
	}

	if name, row, err := oracles.Run(ctx, pool); err != nil {
		t.Fatalf("oracle error: %v", err)
	} else if name != "" {
		t.Fatalf("oracle %s failed, first row: %s", name, row)
	}
}

func TestSeededDatasetInvariants(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pool := newTestStore(t, ctx)

	seeder := seed.NewSeeder(pool, seed.Config{RNGSeed: 42})
	sum, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if sum.Merchants != 4 || sum.Customers != 7 {
		t.Fatalf("unexpected fixture counts: %+v", sum)
	}
	if sum.Chargebacks != 12 {
		t.Fatalf("expected 12 cases, got %d", sum.Chargebacks)
	}
	for _, cat := range []chargeback.Category{
		chargeback.CategoryTrueFraud, chargeback.CategoryFriendlyFraud,
		chargeback.CategoryMerchantError, chargeback.CategoryNotGuilty,
	} {
		if sum.ByCategory[cat] != 3 {
			t.Fatalf("expected 3 %s cases, got %d", cat, sum.ByCategory[cat])
		}
	}
	if sum.Transactions < 7*5+12 || sum.Transactions > 7*10+12 {
		t.Fatalf("transaction count %d outside baseline bounds", sum.Transactions)
	}
	if sum.CaseEvents < 2*sum.Chargebacks {
		t.Fatalf("expected at least two events per case, got %d for %d cases", sum.CaseEvents, sum.Chargebacks)
	}

	if name, row, err := oracles.Run(ctx, pool); err != nil {
		t.Fatalf("oracle error: %v", err)
	} else if name != "" {
		t.Fatalf("oracle %s failed, first row: %s", name, row)
	}

	reports := report.NewService(pool)
	counts, err := reports.TableCounts(ctx)
	if err != nil {
		t.Fatalf("table counts: %v", err)
	}
	if int(counts.Chargebacks) != sum.Chargebacks || int(counts.CaseEvents) != sum.CaseEvents {
		t.Fatalf("summary/report mismatch: summary %+v counts %+v", sum, counts)
	}

	cbStats, err := reports.ChargebackStats(ctx)
	if err != nil {
		t.Fatalf("chargeback stats: %v", err)
	}
	if cbStats.Open != 3 || cbStats.UnderReview != 1 || cbStats.Won != 5 || cbStats.Lost != 3 {
		t.Fatalf("unexpected status distribution: %+v", cbStats)
	}

	// Concurrent readers over the seeded store.
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 5; j++ {
				if _, err := reports.Listing(gctx); err != nil {
					return err
				}
				if _, err := reports.RiskLevelBreakdown(gctx); err != nil {
					return err
				}
				if _, err := reports.EventTypeCounts(gctx); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent readers: %v", err)
	}

	// Rerunning replaces the dataset instead of stacking on top of it.
	sum2, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	counts2, err := reports.TableCounts(ctx)
	if err != nil {
		t.Fatalf("table counts after reseed: %v", err)
	}
	if int(counts2.Chargebacks) != sum2.Chargebacks || counts2.Merchants != 4 {
		t.Fatalf("reseed stacked data: %+v", counts2)
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}
