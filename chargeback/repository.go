package chargeback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"chargeflow/db"
)

var (
	ErrNotFound = errors.New("chargeback: not found")
	// ErrUnknownTransaction signals an insert referencing a transaction that does not exist.
	ErrUnknownTransaction = errors.New("chargeback: unknown transaction")
	// ErrAlreadyDisputed signals a second chargeback against the same transaction.
	ErrAlreadyDisputed = errors.New("chargeback: transaction already disputed")
	ErrDuplicateID     = errors.New("chargeback: id already exists")
	// ErrBadStatus signals an invalid lifecycle transition.
	ErrBadStatus = errors.New("chargeback: invalid status transition")
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// Insert writes a new open (or under_review) case. Terminal rows must
// carry a matching closed_at/outcome pair; the schema rejects anything
// else, so the generator can also write already-resolved fixtures.
func (r *Repository) Insert(ctx context.Context, q db.Querier, cb Chargeback) (Chargeback, error) {
	if cb.ID == "" {
		return Chargeback{}, fmt.Errorf("chargeback: missing id")
	}
	if cb.TransactionID == "" {
		return Chargeback{}, fmt.Errorf("chargeback: missing transaction id")
	}
	if cb.Amount <= 0 {
		return Chargeback{}, fmt.Errorf("chargeback: invalid amount %.2f", cb.Amount)
	}
	if cb.Category == "" {
		return Chargeback{}, fmt.Errorf("chargeback: missing category")
	}
	if cb.Status == "" {
		cb.Status = StatusOpen
	}
	if cb.Status.Terminal() != (cb.Outcome != nil && cb.ClosedAt != nil) {
		return Chargeback{}, fmt.Errorf("%w: status %s with outcome=%v", ErrBadStatus, cb.Status, cb.Outcome)
	}

	const insertSQL = `
		INSERT INTO chargebacks
			(chargeback_id, transaction_id, dispute_date, reason_code, dispute_type, category,
			 issuing_bank, chargeback_amount, analyst_id, status, opened_at, closed_at, outcome,
			 retrieval_request_date, response_deadline, notes)
		VALUES ($1, $2, COALESCE($3, now()), $4, $5, $6, $7, $8, $9, $10,
		        COALESCE($11, now()), $12, $13, $14, $15, $16)
		RETURNING chargeback_id, transaction_id, dispute_date, reason_code, dispute_type, category,
		          issuing_bank, chargeback_amount, analyst_id, status, opened_at, closed_at, outcome,
		          retrieval_request_date, response_deadline, notes
	`

	var disputeDate, openedAt any
	if !cb.DisputeDate.IsZero() {
		disputeDate = cb.DisputeDate
	}
	if !cb.OpenedAt.IsZero() {
		openedAt = cb.OpenedAt
	}

	rec, err := scanChargeback(q.QueryRow(ctx, insertSQL,
		cb.ID, cb.TransactionID, disputeDate, cb.ReasonCode, cb.DisputeType, cb.Category,
		cb.IssuingBank, cb.Amount, cb.AnalystID, cb.Status, openedAt, cb.ClosedAt, cb.Outcome,
		cb.RetrievalRequestDate, cb.ResponseDeadline, cb.Notes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == "23503":
				return Chargeback{}, fmt.Errorf("%w: %s", ErrUnknownTransaction, cb.TransactionID)
			case pgErr.Code == "23505" && pgErr.ConstraintName == "chargebacks_transaction_unique":
				return Chargeback{}, fmt.Errorf("%w: %s", ErrAlreadyDisputed, cb.TransactionID)
			case pgErr.Code == "23505":
				return Chargeback{}, fmt.Errorf("%w: %s", ErrDuplicateID, cb.ID)
			}
		}
		return Chargeback{}, fmt.Errorf("chargeback: insert %s: %w", cb.ID, err)
	}

	return rec, nil
}

// Get retrieves a case by id.
func (r *Repository) Get(ctx context.Context, q db.Querier, id string) (Chargeback, error) {
	rec, err := scanChargeback(q.QueryRow(ctx, selectSQL+` WHERE chargeback_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Chargeback{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Chargeback{}, fmt.Errorf("chargeback: get %s: %w", id, err)
	}
	return rec, nil
}

// Review moves an open case to under_review.
func (r *Repository) Review(ctx context.Context, q db.Querier, id string) (Chargeback, error) {
	const updateSQL = `
		UPDATE chargebacks
		SET status = $2
		WHERE chargeback_id = $1 AND status = $3
		RETURNING chargeback_id, transaction_id, dispute_date, reason_code, dispute_type, category,
		          issuing_bank, chargeback_amount, analyst_id, status, opened_at, closed_at, outcome,
		          retrieval_request_date, response_deadline, notes
	`

	rec, err := scanChargeback(q.QueryRow(ctx, updateSQL, id, StatusUnderReview, StatusOpen))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Chargeback{}, fmt.Errorf("chargeback: review %s: %w", id, err)
	}
	return Chargeback{}, r.transitionFailure(ctx, q, id)
}

// Close resolves a case. Status, outcome, and closed_at move in one
// UPDATE so the outcome pairing invariant cannot be observed half-set.
// Only open and under_review cases can close.
func (r *Repository) Close(ctx context.Context, q db.Querier, id string, outcome Outcome, closedAt time.Time) (Chargeback, error) {
	if outcome != OutcomeWon && outcome != OutcomeLost {
		return Chargeback{}, fmt.Errorf("chargeback: invalid outcome %q", outcome)
	}

	const updateSQL = `
		UPDATE chargebacks
		SET status = $2, outcome = $2, closed_at = COALESCE($3, now())
		WHERE chargeback_id = $1 AND status IN ($4, $5)
		RETURNING chargeback_id, transaction_id, dispute_date, reason_code, dispute_type, category,
		          issuing_bank, chargeback_amount, analyst_id, status, opened_at, closed_at, outcome,
		          retrieval_request_date, response_deadline, notes
	`

	var at any
	if !closedAt.IsZero() {
		at = closedAt
	}

	rec, err := scanChargeback(q.QueryRow(ctx, updateSQL, id, string(outcome), at, StatusOpen, StatusUnderReview))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Chargeback{}, fmt.Errorf("chargeback: close %s: %w", id, err)
	}
	return Chargeback{}, r.transitionFailure(ctx, q, id)
}

// transitionFailure distinguishes a missing row from a terminal one
// after a guarded UPDATE matched nothing.
func (r *Repository) transitionFailure(ctx context.Context, q db.Querier, id string) error {
	var status Status
	if err := q.QueryRow(ctx, `SELECT status FROM chargebacks WHERE chargeback_id = $1`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("chargeback: fetch status %s: %w", id, err)
	}
	return fmt.Errorf("%w: %s is %s", ErrBadStatus, id, status)
}

const selectSQL = `
	SELECT chargeback_id, transaction_id, dispute_date, reason_code, dispute_type, category,
	       issuing_bank, chargeback_amount, analyst_id, status, opened_at, closed_at, outcome,
	       retrieval_request_date, response_deadline, notes
	FROM chargebacks`

func scanChargeback(row pgx.Row) (Chargeback, error) {
	var (
		cb          Chargeback
		reasonCode  *string
		disputeType *string
		issuingBank *string
		analystID   *string
		outcome     *string
		notes       *string
	)
	err := row.Scan(
		&cb.ID, &cb.TransactionID, &cb.DisputeDate, &reasonCode, &disputeType, &cb.Category,
		&issuingBank, &cb.Amount, &analystID, &cb.Status, &cb.OpenedAt, &cb.ClosedAt, &outcome,
		&cb.RetrievalRequestDate, &cb.ResponseDeadline, &notes,
	)
	if err != nil {
		return Chargeback{}, err
	}

	if reasonCode != nil {
		cb.ReasonCode = *reasonCode
	}
	if disputeType != nil {
		cb.DisputeType = *disputeType
	}
	if issuingBank != nil {
		cb.IssuingBank = *issuingBank
	}
	if analystID != nil {
		cb.AnalystID = *analystID
	}
	if outcome != nil {
		o := Outcome(*outcome)
		cb.Outcome = &o
	}
	if notes != nil {
		cb.Notes = *notes
	}
	return cb, nil
}
