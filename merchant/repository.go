package merchant

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
	ErrNotFound    = errors.New("merchant: not found")
	ErrDuplicateID = errors.New("merchant: id already exists")
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

type CreateParams struct {
	ID            string
	Name          string
	AcquiringBank string
	WinRate       float64
	CreatedAt     *time.Time
}

func (r *Repository) Create(ctx context.Context, q db.Querier, params CreateParams) (Merchant, error) {
	if params.ID == "" {
		return Merchant{}, fmt.Errorf("merchant: missing id")
	}
	if params.Name == "" {
		return Merchant{}, fmt.Errorf("merchant: missing name")
	}

	const insertSQL = `
		INSERT INTO merchants (merchant_id, merchant_name, acquiring_bank, win_rate, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING merchant_id, merchant_name, acquiring_bank, win_rate, created_at
	`

	m, err := scanMerchant(q.QueryRow(ctx, insertSQL, params.ID, params.Name, params.AcquiringBank, params.WinRate, params.CreatedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Merchant{}, fmt.Errorf("%w: %s", ErrDuplicateID, params.ID)
		}
		return Merchant{}, fmt.Errorf("merchant: create %s: %w", params.ID, err)
	}

	return m, nil
}

func (r *Repository) Get(ctx context.Context, q db.Querier, id string) (Merchant, error) {
	const selectSQL = `
		SELECT merchant_id, merchant_name, acquiring_bank, win_rate, created_at
		FROM merchants
		WHERE merchant_id = $1
	`

	m, err := scanMerchant(q.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Merchant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Merchant{}, fmt.Errorf("merchant: get %s: %w", id, err)
	}

	return m, nil
}

func (r *Repository) List(ctx context.Context, q db.Querier) ([]Merchant, error) {
	const selectSQL = `
		SELECT merchant_id, merchant_name, acquiring_bank, win_rate, created_at
		FROM merchants
		ORDER BY merchant_id
	`

	rows, err := q.Query(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("merchant: list: %w", err)
	}
	defer rows.Close()

	out := make([]Merchant, 0, 8)
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, fmt.Errorf("merchant: scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("merchant: iterate: %w", err)
	}
	return out, nil
}

func scanMerchant(row pgx.Row) (Merchant, error) {
	var (
		m    Merchant
		bank *string
		rate *float64
	)
	if err := row.Scan(&m.ID, &m.Name, &bank, &rate, &m.CreatedAt); err != nil {
		return Merchant{}, err
	}
	if bank != nil {
		m.AcquiringBank = *bank
	}
	if rate != nil {
		m.WinRate = *rate
	}
	return m, nil
}
