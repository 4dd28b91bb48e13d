package chargeback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"chargeflow/caseevent"
	"chargeflow/db"
	"chargeflow/transaction"
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CaseRepository is the chargeback data access required by the service.
type CaseRepository interface {
	Insert(ctx context.Context, q db.Querier, cb Chargeback) (Chargeback, error)
	Review(ctx context.Context, q db.Querier, id string) (Chargeback, error)
	Close(ctx context.Context, q db.Querier, id string, outcome Outcome, closedAt time.Time) (Chargeback, error)
}

// TransactionMarker flips the disputed transaction's status.
type TransactionMarker interface {
	MarkDisputed(ctx context.Context, q db.Querier, id string) error
}

// EvidenceWriter appends trail entries for the new case.
type EvidenceWriter interface {
	Append(ctx context.Context, q db.Querier, params caseevent.AppendParams) (caseevent.Event, error)
}

// Service orchestrates the multi-table writes of filing and resolving a
// case so each operation lands in a single transaction.
type Service struct {
	pool        TxBeginner
	cases       CaseRepository
	txns        TransactionMarker
	evidence    EvidenceWriter
	idGenerator func() string
	now         func() time.Time
}

func NewService(pool TxBeginner, cases CaseRepository, txns TransactionMarker, evidence EvidenceWriter) *Service {
	if cases == nil {
		cases = NewRepository()
	}
	if txns == nil {
		txns = transaction.NewRepository()
	}
	if evidence == nil {
		evidence = caseevent.NewRepository()
	}
	return &Service{
		pool:        pool,
		cases:       cases,
		txns:        txns,
		evidence:    evidence,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FileParams describes a new dispute case. Events lists the initial
// evidentiary entries; when empty the service records a generic filing
// contact so no case ever exists with an empty trail.
type FileParams struct {
	ID            string
	TransactionID string
	ReasonCode    string
	DisputeType   string
	Category      Category
	IssuingBank   string
	Amount        float64
	AnalystID     string
	Notes         string
	// ResponseDeadline defaults to 30 days after filing when zero.
	ResponseDeadline time.Time
	Events           []caseevent.AppendParams
}

// File creates the chargeback, marks its transaction disputed, and
// appends the initial trail, all in one transaction.
func (s *Service) File(ctx context.Context, params FileParams) (Chargeback, error) {
	if params.TransactionID == "" {
		return Chargeback{}, fmt.Errorf("chargeback: missing transaction id")
	}
	if params.Category == "" {
		return Chargeback{}, fmt.Errorf("chargeback: missing category")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Chargeback{}, fmt.Errorf("chargeback: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := s.now()
	id := params.ID
	if id == "" {
		id = s.idGenerator()
	}
	deadline := params.ResponseDeadline
	if deadline.IsZero() {
		deadline = now.AddDate(0, 0, 30)
	}

	cb := Chargeback{
		ID:               id,
		TransactionID:    params.TransactionID,
		DisputeDate:      now,
		ReasonCode:       params.ReasonCode,
		DisputeType:      params.DisputeType,
		Category:         params.Category,
		IssuingBank:      params.IssuingBank,
		Amount:           params.Amount,
		AnalystID:        params.AnalystID,
		Status:           StatusOpen,
		OpenedAt:         now,
		ResponseDeadline: &deadline,
		Notes:            params.Notes,
	}

	created, err := s.cases.Insert(ctx, tx, cb)
	if err != nil {
		return Chargeback{}, err
	}

	if err := s.txns.MarkDisputed(ctx, tx, params.TransactionID); err != nil {
		return Chargeback{}, err
	}

	events := params.Events
	if len(events) == 0 {
		events = []caseevent.AppendParams{{
			Payload:     caseevent.SupportTicket{ContactMethod: "issuer", Statement: "Chargeback filed by issuing bank."},
			Description: "Dispute case opened.",
		}}
	}
	for _, ev := range events {
		ev.ChargebackID = created.ID
		if _, err := s.evidence.Append(ctx, tx, ev); err != nil {
			return Chargeback{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Chargeback{}, fmt.Errorf("chargeback: commit file: %w", err)
	}

	return created, nil
}

// ResolveParams closes a case with a terminal outcome and a closing
// trail entry describing the resolution.
type ResolveParams struct {
	ChargebackID string
	Outcome      Outcome
	Description  string
}

// Resolve transitions the case into a terminal state and appends the
// resolution event in the same transaction.
func (s *Service) Resolve(ctx context.Context, params ResolveParams) (Chargeback, error) {
	if params.ChargebackID == "" {
		return Chargeback{}, fmt.Errorf("chargeback: missing chargeback id")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Chargeback{}, fmt.Errorf("chargeback: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	closed, err := s.cases.Close(ctx, tx, params.ChargebackID, params.Outcome, s.now())
	if err != nil {
		return Chargeback{}, err
	}

	desc := params.Description
	if desc == "" {
		desc = fmt.Sprintf("Case resolved: %s.", params.Outcome)
	}
	_, err = s.evidence.Append(ctx, tx, caseevent.AppendParams{
		ChargebackID: closed.ID,
		Payload: caseevent.Opaque{
			Type:   "resolution",
			Fields: map[string]any{"outcome": string(params.Outcome)},
		},
		Description: desc,
	})
	if err != nil {
		return Chargeback{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Chargeback{}, fmt.Errorf("chargeback: commit resolve: %w", err)
	}

	return closed, nil
}
