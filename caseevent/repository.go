package caseevent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"chargeflow/db"
)

// ErrUnknownChargeback signals an append referencing a chargeback that
// does not exist.
var ErrUnknownChargeback = errors.New("caseevent: unknown chargeback")

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// AppendParams describes one new trail entry.
type AppendParams struct {
	ChargebackID string
	Payload      EventPayload
	Description  string
	// Date defaults to now() when zero.
	Date time.Time
}

// Append inserts one event. There is deliberately no update or delete:
// the trail is write-once.
func (r *Repository) Append(ctx context.Context, q db.Querier, params AppendParams) (Event, error) {
	if params.ChargebackID == "" {
		return Event{}, fmt.Errorf("caseevent: missing chargeback id")
	}
	if params.Payload == nil {
		return Event{}, fmt.Errorf("caseevent: missing payload")
	}

	data, err := EncodePayload(params.Payload)
	if err != nil {
		return Event{}, err
	}

	var date any
	if !params.Date.IsZero() {
		date = params.Date
	}

	const insertSQL = `
		INSERT INTO case_events (chargeback_id, event_type, event_date, event_data, description)
		VALUES ($1, $2, COALESCE($3, now()), $4, $5)
		RETURNING event_id, chargeback_id, event_type, event_date, event_data, description
	`

	ev, err := scanEvent(q.QueryRow(ctx, insertSQL,
		params.ChargebackID, params.Payload.EventType(), date, data, params.Description))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Event{}, fmt.Errorf("%w: %s", ErrUnknownChargeback, params.ChargebackID)
		}
		return Event{}, fmt.Errorf("caseevent: append to %s: %w", params.ChargebackID, err)
	}

	return ev, nil
}

// ListByChargeback returns the full trail for one case in insertion
// order: event_date first, event_id as the same-timestamp tiebreak.
func (r *Repository) ListByChargeback(ctx context.Context, q db.Querier, chargebackID string) ([]Event, error) {
	const selectSQL = `
		SELECT event_id, chargeback_id, event_type, event_date, event_data, description
		FROM case_events
		WHERE chargeback_id = $1
		ORDER BY event_date, event_id
	`

	rows, err := q.Query(ctx, selectSQL, chargebackID)
	if err != nil {
		return nil, fmt.Errorf("caseevent: list for %s: %w", chargebackID, err)
	}
	defer rows.Close()

	out := make([]Event, 0, 8)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("caseevent: scan: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("caseevent: iterate: %w", err)
	}
	return out, nil
}

func scanEvent(row pgx.Row) (Event, error) {
	var (
		ev   Event
		desc *string
	)
	if err := row.Scan(&ev.ID, &ev.ChargebackID, &ev.Type, &ev.Date, &ev.Data, &desc); err != nil {
		return Event{}, err
	}
	if desc != nil {
		ev.Description = *desc
	}
	return ev, nil
}
