// Package seed generates the synthetic chargeback dataset: baseline
// customer activity plus dispute cases spanning the four canonical
// categories (true fraud, friendly fraud, merchant error, not guilty).
// The structure of a run is deterministic; only details (amounts,
// dates, card suffixes) are randomized.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"

	"chargeflow/caseevent"
	"chargeflow/chargeback"
	"chargeflow/customer"
	"chargeflow/db"
	"chargeflow/merchant"
	"chargeflow/schema"
	"chargeflow/transaction"
)

// ErrStoreMissing is returned when Run is pointed at a database without
// the chargeflow tables.
var ErrStoreMissing = errors.New("seed: store not initialized")

// TxBeginner abstracts pgxpool.Pool; the whole run executes in one
// transaction so a failed insert leaves nothing behind.
type TxBeginner interface {
	db.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Config tunes the randomized details of a run.
type Config struct {
	// RNGSeed seeds the detail randomizer; 0 uses the current time.
	RNGSeed int64
	// BaselineMin/Max bound the per-customer count of normal
	// (undisputed) transactions. Defaults: 5..10.
	BaselineMin int
	BaselineMax int
}

// Summary reports what a run wrote.
type Summary struct {
	Merchants    int
	Customers    int
	Transactions int
	Chargebacks  int
	CaseEvents   int
	ByCategory   map[chargeback.Category]int
}

type Seeder struct {
	pool TxBeginner
	rng  *rand.Rand
	now  func() time.Time

	customers *customer.Repository
	merchants *merchant.Repository
	txns      *transaction.Repository
	cases     *chargeback.Repository
	events    *caseevent.Repository

	baselineMin int
	baselineMax int

	txnCounter int
}

func NewSeeder(pool TxBeginner, cfg Config) *Seeder {
	seedVal := cfg.RNGSeed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	if cfg.BaselineMin <= 0 {
		cfg.BaselineMin = 5
	}
	if cfg.BaselineMax < cfg.BaselineMin {
		cfg.BaselineMax = cfg.BaselineMin + 5
	}

	return &Seeder{
		pool:        pool,
		rng:         rand.New(rand.NewSource(seedVal)),
		now:         time.Now,
		customers:   customer.NewRepository(),
		merchants:   merchant.NewRepository(),
		txns:        transaction.NewRepository(),
		cases:       chargeback.NewRepository(),
		events:      caseevent.NewRepository(),
		baselineMin: cfg.BaselineMin,
		baselineMax: cfg.BaselineMax,
	}
}

func (s *Seeder) WithClock(now func() time.Time) *Seeder {
	s.now = now
	return s
}

// Run clears any previous dataset and writes a fresh one inside a
// single transaction, then rebuilds the customer aggregates from the
// actual chargeback/transaction join.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	exists, err := schema.Exists(ctx, s.pool)
	if err != nil {
		return Summary{}, err
	}
	if !exists {
		return Summary{}, ErrStoreMissing
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := clear(ctx, tx); err != nil {
		return Summary{}, err
	}

	sum := Summary{ByCategory: make(map[chargeback.Category]int, 4)}

	for _, m := range merchantFixtures {
		params := m
		created := s.randomDate(730, 400)
		params.CreatedAt = &created
		if _, err := s.merchants.Create(ctx, tx, params); err != nil {
			return Summary{}, err
		}
		sum.Merchants++
	}

	for _, c := range customerFixtures {
		params := c
		created := s.randomDate(730, 400)
		params.CreatedAt = &created
		if _, err := s.customers.Create(ctx, tx, params); err != nil {
			return Summary{}, err
		}
		sum.Customers++
	}

	baseline, err := s.seedBaseline(ctx, tx)
	if err != nil {
		return Summary{}, err
	}
	sum.Transactions += baseline

	for _, spec := range caseSpecs {
		written, err := s.seedCase(ctx, tx, spec)
		if err != nil {
			return Summary{}, err
		}
		sum.Transactions++
		sum.Chargebacks++
		sum.CaseEvents += written
		sum.ByCategory[spec.category]++
	}

	if err := s.customers.ReconcileChargebackTotals(ctx, tx); err != nil {
		return Summary{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Summary{}, fmt.Errorf("seed: commit: %w", err)
	}

	return sum, nil
}

// seedBaseline writes the normal low-risk purchase history every
// customer carries alongside their disputes.
func (s *Seeder) seedBaseline(ctx context.Context, q db.Querier) (int, error) {
	written := 0
	for _, c := range customerFixtures {
		n := s.baselineMin + s.rng.Intn(s.baselineMax-s.baselineMin+1)
		for i := 0; i < n; i++ {
			txDate := s.randomDate(180, 10)
			assessed := txDate
			t := transaction.Transaction{
				ID:                s.nextTxnID(),
				CustomerID:        c.ID,
				MerchantID:        merchantFixtures[s.rng.Intn(len(merchantFixtures))].ID,
				Amount:            round2(25 + s.rng.Float64()*825),
				Currency:          "USD",
				PaymentMethod:     pick(s.rng, "visa", "mastercard", "amex"),
				CardLast4:         fmt.Sprintf("%04d", 1000+s.rng.Intn(9000)),
				Date:              txDate,
				Status:            transaction.StatusCompleted,
				AVSCheck:          pick(s.rng, "Y", "N", "Z"),
				CVVCheck:          pick(s.rng, "Y", "N"),
				ThreeDS:           s.rng.Intn(2) == 1,
				AuthCode:          fmt.Sprintf("AUTH%05d", 10000+s.rng.Intn(90000)),
				IPAddress:         fmt.Sprintf("192.168.%d.%d", 1+s.rng.Intn(255), 1+s.rng.Intn(255)),
				DeviceFingerprint: fmt.Sprintf("DEV%06d", 100000+s.rng.Intn(900000)),
				FraudScore:        round2(benignScoreMin + s.rng.Float64()*(benignScoreMax-benignScoreMin)),
				RiskLevel:         transaction.RiskLow,
				Velocity: &transaction.VelocitySnapshot{
					SameIPCount:          1,
					TransactionsLastWeek: 1 + s.rng.Intn(3),
				},
				RiskAssessedAt: &assessed,
			}
			if _, err := s.txns.Insert(ctx, q, t); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

// seedCase writes the disputed transaction, the chargeback, and the
// evidentiary trail for one authored case. Returns the event count.
func (s *Seeder) seedCase(ctx context.Context, q db.Querier, spec caseSpec) (int, error) {
	txDate := s.randomDate(spec.txAgeDays, spec.txAgeDays-4)
	assessed := txDate

	t := spec.txn
	t.ID = s.nextTxnID()
	t.Currency = "USD"
	t.Date = txDate
	t.Status = transaction.StatusDisputed
	t.AuthCode = fmt.Sprintf("AUTH%05d", 10000+s.rng.Intn(90000))
	t.CardLast4 = fmt.Sprintf("%04d", 1000+s.rng.Intn(9000))
	t.RiskAssessedAt = &assessed
	t.FraudScore = s.scoreFor(spec.category)
	if _, err := s.txns.Insert(ctx, q, t); err != nil {
		return 0, fmt.Errorf("seed: case %s: %w", spec.id, err)
	}

	disputeDate := s.randomDate(spec.txAgeDays-5, spec.txAgeDays-9)
	openedAt := s.randomDate(spec.txAgeDays-9, spec.txAgeDays-11)
	deadline := s.now().AddDate(0, 0, 10+s.rng.Intn(20))

	amount := spec.disputedAmount
	if amount == 0 {
		amount = t.Amount
	}

	cb := chargeback.Chargeback{
		ID:               spec.id,
		TransactionID:    t.ID,
		DisputeDate:      disputeDate,
		ReasonCode:       spec.reasonCode,
		DisputeType:      spec.disputeType,
		Category:         spec.category,
		IssuingBank:      spec.issuingBank,
		Amount:           amount,
		AnalystID:        spec.analystID,
		Status:           spec.status,
		OpenedAt:         openedAt,
		ResponseDeadline: &deadline,
		Notes:            spec.notes,
	}
	if spec.outcome != nil {
		closedAt := s.randomDate(spec.txAgeDays-15, spec.txAgeDays-17)
		cb.Outcome = spec.outcome
		cb.ClosedAt = &closedAt
	}
	if _, err := s.cases.Insert(ctx, q, cb); err != nil {
		return 0, fmt.Errorf("seed: case %s: %w", spec.id, err)
	}

	events := s.buildEvents(spec, cb)
	for _, ev := range events {
		ev.ChargebackID = cb.ID
		if ev.Date.IsZero() {
			ev.Date = s.randomDate(10, 1)
		}
		if _, err := s.events.Append(ctx, q, ev); err != nil {
			return 0, fmt.Errorf("seed: case %s: %w", spec.id, err)
		}
	}
	return len(events), nil
}

// scoreFor keeps the category/score correlation downstream classifiers
// depend on: true fraud scores sit a wide margin above every benign
// category.
func (s *Seeder) scoreFor(cat chargeback.Category) float64 {
	if cat == chargeback.CategoryTrueFraud {
		return round2(trueFraudScoreMin + s.rng.Float64()*(trueFraudScoreMax-trueFraudScoreMin))
	}
	return round2(benignScoreMin + s.rng.Float64()*(benignScoreMax-benignScoreMin))
}

func (s *Seeder) nextTxnID() string {
	s.txnCounter++
	return fmt.Sprintf("txn_%04d", s.txnCounter)
}

// randomDate returns a timestamp between startDaysAgo and endDaysAgo
// before now.
func (s *Seeder) randomDate(startDaysAgo, endDaysAgo int) time.Time {
	if endDaysAgo < 1 {
		endDaysAgo = 1
	}
	if startDaysAgo <= endDaysAgo {
		startDaysAgo = endDaysAgo + 1
	}
	days := endDaysAgo + s.rng.Intn(startDaysAgo-endDaysAgo)
	return s.now().AddDate(0, 0, -days)
}

// clear removes any previous dataset in reverse dependency order.
func clear(ctx context.Context, q db.Querier) error {
	for _, table := range []string{"case_events", "chargebacks", "transactions", "customers", "merchants"} {
		if _, err := q.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed: clear %s: %w", table, err)
		}
	}
	return nil
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
