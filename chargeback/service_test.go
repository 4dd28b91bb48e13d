package chargeback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"chargeflow/caseevent"
	"chargeflow/db"
)

func TestFile_Success(t *testing.T) {
	pool := &fakePool{}
	cases := &fakeCases{}
	txns := &fakeTxns{}
	evidence := &fakeEvidence{}

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(pool, cases, txns, evidence).
		WithIDGenerator(func() string { return "cb_generated" }).
		WithClock(func() time.Time { return now })

	filed, err := svc.File(context.Background(), FileParams{
		TransactionID: "txn_0001",
		Category:      CategoryTrueFraud,
		Amount:        100.00,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if filed.ID != "cb_generated" {
		t.Errorf("expected generated id, got %q", filed.ID)
	}
	if filed.Status != StatusOpen {
		t.Errorf("expected open status, got %s", filed.Status)
	}
	if filed.ResponseDeadline == nil || !filed.ResponseDeadline.Equal(now.AddDate(0, 0, 30)) {
		t.Errorf("expected deadline 30 days out, got %v", filed.ResponseDeadline)
	}
	if txns.marked != "txn_0001" {
		t.Errorf("expected transaction marked disputed, got %q", txns.marked)
	}
	// No explicit events given, so the filing contact is recorded.
	if len(evidence.appended) != 1 {
		t.Fatalf("expected one fallback event, got %d", len(evidence.appended))
	}
	if evidence.appended[0].ChargebackID != "cb_generated" {
		t.Errorf("fallback event bound to %q", evidence.appended[0].ChargebackID)
	}
	if pool.tx == nil || !pool.tx.committed {
		t.Errorf("expected commit")
	}
}

func TestFile_InsertFailureRollsBack(t *testing.T) {
	pool := &fakePool{}
	cases := &fakeCases{insertErr: ErrAlreadyDisputed}
	txns := &fakeTxns{}
	evidence := &fakeEvidence{}

	svc := NewService(pool, cases, txns, evidence)

	_, err := svc.File(context.Background(), FileParams{
		TransactionID: "txn_0001",
		Category:      CategoryTrueFraud,
		Amount:        100.00,
	})
	if !errors.Is(err, ErrAlreadyDisputed) {
		t.Fatalf("expected ErrAlreadyDisputed, got %v", err)
	}

	if txns.marked != "" {
		t.Errorf("transaction marked despite failed insert")
	}
	if len(evidence.appended) != 0 {
		t.Errorf("events appended despite failed insert")
	}
	if pool.tx == nil {
		t.Fatalf("expected Begin to provide transaction")
	}
	if pool.tx.committed {
		t.Errorf("expected commit to be skipped")
	}
	if !pool.tx.rolled {
		t.Errorf("expected rollback")
	}
}

func TestFile_MissingTransactionID(t *testing.T) {
	pool := &fakePool{}
	svc := NewService(pool, &fakeCases{}, &fakeTxns{}, &fakeEvidence{})

	if _, err := svc.File(context.Background(), FileParams{Category: CategoryNotGuilty}); err == nil {
		t.Fatalf("expected error for missing transaction id")
	}
	if pool.tx != nil {
		t.Errorf("expected no transaction for rejected params")
	}
}

func TestResolve_Success(t *testing.T) {
	pool := &fakePool{}
	closedAt := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	outcome := OutcomeWon
	cases := &fakeCases{closeResult: Chargeback{
		ID:       "cb_001",
		Status:   StatusWon,
		Outcome:  &outcome,
		ClosedAt: &closedAt,
	}}
	evidence := &fakeEvidence{}

	svc := NewService(pool, cases, &fakeTxns{}, evidence)

	closed, err := svc.Resolve(context.Background(), ResolveParams{
		ChargebackID: "cb_001",
		Outcome:      OutcomeWon,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if closed.Status != StatusWon {
		t.Errorf("expected won, got %s", closed.Status)
	}
	if cases.closedID != "cb_001" || cases.closedOutcome != OutcomeWon {
		t.Errorf("close called with %q/%q", cases.closedID, cases.closedOutcome)
	}
	if len(evidence.appended) != 1 {
		t.Fatalf("expected resolution event, got %d", len(evidence.appended))
	}
	if evidence.appended[0].Payload.EventType() != "resolution" {
		t.Errorf("expected resolution payload, got %s", evidence.appended[0].Payload.EventType())
	}
	if !pool.tx.committed {
		t.Errorf("expected commit")
	}
}

func TestResolve_BadStatusRollsBack(t *testing.T) {
	pool := &fakePool{}
	cases := &fakeCases{closeErr: ErrBadStatus}
	evidence := &fakeEvidence{}

	svc := NewService(pool, cases, &fakeTxns{}, evidence)

	_, err := svc.Resolve(context.Background(), ResolveParams{
		ChargebackID: "cb_001",
		Outcome:      OutcomeLost,
	})
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
	if len(evidence.appended) != 0 {
		t.Errorf("resolution event appended despite failed close")
	}
	if pool.tx.committed {
		t.Errorf("expected commit to be skipped")
	}
	if !pool.tx.rolled {
		t.Errorf("expected rollback")
	}
}

type fakeCases struct {
	insertErr     error
	closeErr      error
	closeResult   Chargeback
	closedID      string
	closedOutcome Outcome
}

func (f *fakeCases) Insert(ctx context.Context, q db.Querier, cb Chargeback) (Chargeback, error) {
	if f.insertErr != nil {
		return Chargeback{}, f.insertErr
	}
	return cb, nil
}

func (f *fakeCases) Review(ctx context.Context, q db.Querier, id string) (Chargeback, error) {
	return Chargeback{ID: id, Status: StatusUnderReview}, nil
}

func (f *fakeCases) Close(ctx context.Context, q db.Querier, id string, outcome Outcome, closedAt time.Time) (Chargeback, error) {
	if f.closeErr != nil {
		return Chargeback{}, f.closeErr
	}
	f.closedID = id
	f.closedOutcome = outcome
	return f.closeResult, nil
}

type fakeTxns struct {
	marked string
}

func (f *fakeTxns) MarkDisputed(ctx context.Context, q db.Querier, id string) error {
	f.marked = id
	return nil
}

type fakeEvidence struct {
	appended []caseevent.AppendParams
}

func (f *fakeEvidence) Append(ctx context.Context, q db.Querier, params caseevent.AppendParams) (caseevent.Event, error) {
	f.appended = append(f.appended, params)
	return caseevent.Event{ID: int64(len(f.appended)), ChargebackID: params.ChargebackID}, nil
}

type fakePool struct {
	tx *fakeTx
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

type fakeTx struct {
	rolled    bool
	committed bool
}

func (f *fakeTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("fakeTx does not support nested transactions")
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolled = true
	return nil
}

func (f *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}

func (f *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects {
	panic("not implemented")
}

func (f *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn {
	return nil
}
