package customer

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
	// ErrNotFound signals that the customer does not exist.
	ErrNotFound = errors.New("customer: not found")
	// ErrDuplicateID signals a second insert with the same customer id.
	ErrDuplicateID = errors.New("customer: id already exists")
)

// Repository handles data access for customers.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// CreateParams contains write parameters for creating customers.
type CreateParams struct {
	ID        string
	Name      string
	Email     string
	Region    string
	CreatedAt *time.Time
}

// Create inserts a new customer row. The aggregate columns start at zero.
func (r *Repository) Create(ctx context.Context, q db.Querier, params CreateParams) (Customer, error) {
	if params.ID == "" {
		return Customer{}, fmt.Errorf("customer: missing id")
	}
	if params.Name == "" {
		return Customer{}, fmt.Errorf("customer: missing name")
	}

	const insertSQL = `
		INSERT INTO customers (customer_id, name, email, region, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING customer_id, name, email, region, created_at, total_chargebacks, total_refunds
	`

	c, err := scanCustomer(q.QueryRow(ctx, insertSQL, params.ID, params.Name, params.Email, params.Region, params.CreatedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Customer{}, fmt.Errorf("%w: %s", ErrDuplicateID, params.ID)
		}
		return Customer{}, fmt.Errorf("customer: create %s: %w", params.ID, err)
	}

	return c, nil
}

// Get retrieves a customer by id.
func (r *Repository) Get(ctx context.Context, q db.Querier, id string) (Customer, error) {
	const selectSQL = `
		SELECT customer_id, name, email, region, created_at, total_chargebacks, total_refunds
		FROM customers
		WHERE customer_id = $1
	`

	c, err := scanCustomer(q.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Customer{}, fmt.Errorf("customer: get %s: %w", id, err)
	}

	return c, nil
}

// List returns all customers ordered by id.
func (r *Repository) List(ctx context.Context, q db.Querier) ([]Customer, error) {
	const selectSQL = `
		SELECT customer_id, name, email, region, created_at, total_chargebacks, total_refunds
		FROM customers
		ORDER BY customer_id
	`

	rows, err := q.Query(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("customer: list: %w", err)
	}
	defer rows.Close()

	out := make([]Customer, 0, 8)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customer: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customer: iterate: %w", err)
	}
	return out, nil
}

// ReconcileChargebackTotals rebuilds every customer's total_chargebacks
// counter from the chargeback/transaction join. Run after any batch of
// writes; the counter is a cached projection, not a source of truth.
func (r *Repository) ReconcileChargebackTotals(ctx context.Context, q db.Querier) error {
	const updateSQL = `
		UPDATE customers c
		SET total_chargebacks = agg.cnt
		FROM (
			SELECT t.customer_id, COUNT(cb.chargeback_id) AS cnt
			FROM transactions t
			LEFT JOIN chargebacks cb ON cb.transaction_id = t.transaction_id
			GROUP BY t.customer_id
		) agg
		WHERE agg.customer_id = c.customer_id
	`

	if _, err := q.Exec(ctx, updateSQL); err != nil {
		return fmt.Errorf("customer: reconcile chargeback totals: %w", err)
	}

	// Customers with no transactions at all fall outside the join; pin
	// their counters back to zero so a force-reseed cannot leave stale
	// values behind.
	const zeroSQL = `
		UPDATE customers c
		SET total_chargebacks = 0
		WHERE NOT EXISTS (SELECT 1 FROM transactions t WHERE t.customer_id = c.customer_id)
		  AND total_chargebacks <> 0
	`
	if _, err := q.Exec(ctx, zeroSQL); err != nil {
		return fmt.Errorf("customer: zero orphan totals: %w", err)
	}

	return nil
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var (
		c      Customer
		email  *string
		region *string
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&email,
		&region,
		&c.CreatedAt,
		&c.TotalChargebacks,
		&c.TotalRefunds,
	)
	if err != nil {
		return Customer{}, err
	}

	if email != nil {
		c.Email = *email
	}
	if region != nil {
		c.Region = *region
	}
	return c, nil
}
