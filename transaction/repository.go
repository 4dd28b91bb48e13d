package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"chargeflow/db"
)

var (
	// ErrUnknownCustomer signals an insert referencing a customer that does not exist.
	ErrUnknownCustomer = errors.New("transaction: unknown customer")
	// ErrUnknownMerchant signals an insert referencing a merchant that does not exist.
	ErrUnknownMerchant = errors.New("transaction: unknown merchant")
	ErrDuplicateID     = errors.New("transaction: id already exists")
	ErrNotFound        = errors.New("transaction: not found")
	// ErrNotDisputable is returned by MarkDisputed when the transaction
	// is missing or not in completed state.
	ErrNotDisputable = errors.New("transaction: not in a disputable state")
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// Insert writes a transaction row. Foreign-key violations are mapped to
// sentinel errors carrying the offending parent id so the caller can
// tell which reference was broken.
func (r *Repository) Insert(ctx context.Context, q db.Querier, t Transaction) (Transaction, error) {
	if t.ID == "" {
		return Transaction{}, fmt.Errorf("transaction: missing id")
	}
	if t.CustomerID == "" || t.MerchantID == "" {
		return Transaction{}, fmt.Errorf("transaction: customer and merchant ids required")
	}
	if t.Amount <= 0 {
		return Transaction{}, fmt.Errorf("transaction: invalid amount %.2f", t.Amount)
	}
	if t.Status == "" {
		t.Status = StatusCompleted
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}

	velocityJSON, err := marshalVelocity(t.Velocity)
	if err != nil {
		return Transaction{}, err
	}

	const insertSQL = `
		INSERT INTO transactions
			(transaction_id, customer_id, merchant_id, amount, currency, payment_method,
			 card_last_4, transaction_date, status, avs_check, cvv_check, three_ds_used,
			 auth_code, ip_address, device_fingerprint, fraud_score, risk_level,
			 velocity_flag, velocity_data, risk_assessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING transaction_id, customer_id, merchant_id, amount, currency, payment_method,
		          card_last_4, transaction_date, status, avs_check, cvv_check, three_ds_used,
		          auth_code, ip_address, device_fingerprint, fraud_score, risk_level,
		          velocity_flag, velocity_data, risk_assessed_at
	`

	var txDate any
	if !t.Date.IsZero() {
		txDate = t.Date
	}

	rec, err := scanTransaction(q.QueryRow(ctx, insertSQL,
		t.ID, t.CustomerID, t.MerchantID, t.Amount, t.Currency, t.PaymentMethod,
		t.CardLast4, txDate, t.Status, t.AVSCheck, t.CVVCheck, t.ThreeDS,
		t.AuthCode, t.IPAddress, t.DeviceFingerprint, t.FraudScore, t.RiskLevel,
		t.VelocityFlag, velocityJSON, t.RiskAssessedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == "23503" && pgErr.ConstraintName == "transactions_customer_id_fkey":
				return Transaction{}, fmt.Errorf("%w: %s", ErrUnknownCustomer, t.CustomerID)
			case pgErr.Code == "23503" && pgErr.ConstraintName == "transactions_merchant_id_fkey":
				return Transaction{}, fmt.Errorf("%w: %s", ErrUnknownMerchant, t.MerchantID)
			case pgErr.Code == "23505":
				return Transaction{}, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
			}
		}
		return Transaction{}, fmt.Errorf("transaction: insert %s: %w", t.ID, err)
	}

	return rec, nil
}

// Get retrieves a transaction by id.
func (r *Repository) Get(ctx context.Context, q db.Querier, id string) (Transaction, error) {
	const selectSQL = `
		SELECT transaction_id, customer_id, merchant_id, amount, currency, payment_method,
		       card_last_4, transaction_date, status, avs_check, cvv_check, three_ds_used,
		       auth_code, ip_address, device_fingerprint, fraud_score, risk_level,
		       velocity_flag, velocity_data, risk_assessed_at
		FROM transactions
		WHERE transaction_id = $1
	`

	rec, err := scanTransaction(q.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Transaction{}, fmt.Errorf("transaction: get %s: %w", id, err)
	}

	return rec, nil
}

// MarkDisputed applies the completed -> disputed transition. Any other
// starting state (or a missing row) yields ErrNotDisputable.
func (r *Repository) MarkDisputed(ctx context.Context, q db.Querier, id string) error {
	const updateSQL = `
		UPDATE transactions
		SET status = $2
		WHERE transaction_id = $1 AND status = $3
	`

	tag, err := q.Exec(ctx, updateSQL, id, StatusDisputed, StatusCompleted)
	if err != nil {
		return fmt.Errorf("transaction: mark disputed %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotDisputable, id)
	}
	return nil
}

func marshalVelocity(v *VelocitySnapshot) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("transaction: marshal velocity data: %w", err)
	}
	return b, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		t             Transaction
		paymentMethod *string
		cardLast4     *string
		avs, cvv      *string
		authCode      *string
		ip, device    *string
		fraudScore    *float64
		riskLevel     *string
		velocityJSON  []byte
	)
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.MerchantID, &t.Amount, &t.Currency, &paymentMethod,
		&cardLast4, &t.Date, &t.Status, &avs, &cvv, &t.ThreeDS,
		&authCode, &ip, &device, &fraudScore, &riskLevel,
		&t.VelocityFlag, &velocityJSON, &t.RiskAssessedAt,
	)
	if err != nil {
		return Transaction{}, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&t.PaymentMethod, paymentMethod)
	assign(&t.CardLast4, cardLast4)
	assign(&t.AVSCheck, avs)
	assign(&t.CVVCheck, cvv)
	assign(&t.AuthCode, authCode)
	assign(&t.IPAddress, ip)
	assign(&t.DeviceFingerprint, device)
	if fraudScore != nil {
		t.FraudScore = *fraudScore
	}
	if riskLevel != nil {
		t.RiskLevel = RiskLevel(*riskLevel)
	}
	if len(velocityJSON) > 0 {
		var v VelocitySnapshot
		if err := json.Unmarshal(velocityJSON, &v); err != nil {
			return Transaction{}, fmt.Errorf("transaction: decode velocity data: %w", err)
		}
		t.Velocity = &v
	}

	return t, nil
}
