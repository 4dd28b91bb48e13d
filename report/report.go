// Package report holds the read-only aggregation and listing queries
// over the chargeflow store. Every aggregate tolerates an empty store
// and every listing carries an explicit ORDER BY so output is
// reproducible across runs.
package report

import (
	"context"
	"fmt"
	"time"

	"chargeflow/db"
)

type Service struct {
	q db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{q: q}
}

// TableCounts is the per-table row census.
type TableCounts struct {
	Customers    int64
	Merchants    int64
	Transactions int64
	Chargebacks  int64
	CaseEvents   int64
}

func (s *Service) TableCounts(ctx context.Context) (TableCounts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM merchants),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM chargebacks),
			(SELECT COUNT(*) FROM case_events)
	`

	var c TableCounts
	if err := s.q.QueryRow(ctx, query).Scan(&c.Customers, &c.Merchants, &c.Transactions, &c.Chargebacks, &c.CaseEvents); err != nil {
		return TableCounts{}, fmt.Errorf("report: table counts: %w", err)
	}
	return c, nil
}

// TransactionStats aggregates the transactions table. All monetary
// fields are zero on an empty store.
type TransactionStats struct {
	Count           int64
	UniqueCustomers int64
	UniqueMerchants int64
	TotalAmount     float64
	AvgAmount       float64
	MinAmount       float64
	MaxAmount       float64
}

func (s *Service) TransactionStats(ctx context.Context) (TransactionStats, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(DISTINCT customer_id),
			COUNT(DISTINCT merchant_id),
			COALESCE(SUM(amount), 0),
			COALESCE(AVG(amount), 0),
			COALESCE(MIN(amount), 0),
			COALESCE(MAX(amount), 0)
		FROM transactions
	`

	var st TransactionStats
	err := s.q.QueryRow(ctx, query).Scan(
		&st.Count, &st.UniqueCustomers, &st.UniqueMerchants,
		&st.TotalAmount, &st.AvgAmount, &st.MinAmount, &st.MaxAmount,
	)
	if err != nil {
		return TransactionStats{}, fmt.Errorf("report: transaction stats: %w", err)
	}
	return st, nil
}

// ChargebackStats breaks the caseload down by lifecycle status.
type ChargebackStats struct {
	Total       int64
	Open        int64
	UnderReview int64
	Won         int64
	Lost        int64
	TotalAmount float64
}

func (s *Service) ChargebackStats(ctx context.Context) (ChargebackStats, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'open'),
			COUNT(*) FILTER (WHERE status = 'under_review'),
			COUNT(*) FILTER (WHERE status = 'won'),
			COUNT(*) FILTER (WHERE status = 'lost'),
			COALESCE(SUM(chargeback_amount), 0)
		FROM chargebacks
	`

	var st ChargebackStats
	err := s.q.QueryRow(ctx, query).Scan(&st.Total, &st.Open, &st.UnderReview, &st.Won, &st.Lost, &st.TotalAmount)
	if err != nil {
		return ChargebackStats{}, fmt.Errorf("report: chargeback stats: %w", err)
	}
	return st, nil
}

// ListingRow is one chargeback joined with its transaction, customer,
// and merchant context.
type ListingRow struct {
	ChargebackID      string
	TransactionID     string
	DisputeDate       time.Time
	ReasonCode        string
	DisputeType       string
	Category          string
	Amount            float64
	Status            string
	Outcome           *string
	IssuingBank       string
	TransactionAmount float64
	CustomerName      string
	MerchantName      string
}

// Listing returns every chargeback with its joined context, newest
// dispute first; chargeback_id descending breaks same-date ties.
func (s *Service) Listing(ctx context.Context) ([]ListingRow, error) {
	const query = `
		SELECT c.chargeback_id, c.transaction_id, c.dispute_date, c.reason_code, c.dispute_type,
		       c.category, c.chargeback_amount, c.status, c.outcome, c.issuing_bank,
		       t.amount, cust.name, m.merchant_name
		FROM chargebacks c
		JOIN transactions t ON c.transaction_id = t.transaction_id
		JOIN customers cust ON t.customer_id = cust.customer_id
		JOIN merchants m ON t.merchant_id = m.merchant_id
		ORDER BY c.dispute_date DESC, c.chargeback_id DESC
	`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report: listing: %w", err)
	}
	defer rows.Close()

	out := make([]ListingRow, 0, 16)
	for rows.Next() {
		var (
			r           ListingRow
			reasonCode  *string
			disputeType *string
			issuingBank *string
		)
		err := rows.Scan(
			&r.ChargebackID, &r.TransactionID, &r.DisputeDate, &reasonCode, &disputeType,
			&r.Category, &r.Amount, &r.Status, &r.Outcome, &issuingBank,
			&r.TransactionAmount, &r.CustomerName, &r.MerchantName,
		)
		if err != nil {
			return nil, fmt.Errorf("report: scan listing: %w", err)
		}
		if reasonCode != nil {
			r.ReasonCode = *reasonCode
		}
		if disputeType != nil {
			r.DisputeType = *disputeType
		}
		if issuingBank != nil {
			r.IssuingBank = *issuingBank
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: iterate listing: %w", err)
	}
	return out, nil
}

// EventTypeCount is one row of the event-frequency breakdown.
type EventTypeCount struct {
	EventType string
	Count     int64
}

// EventTypeCounts returns event frequencies, most common first; the
// type name breaks count ties.
func (s *Service) EventTypeCounts(ctx context.Context) ([]EventTypeCount, error) {
	const query = `
		SELECT event_type, COUNT(*)
		FROM case_events
		GROUP BY event_type
		ORDER BY COUNT(*) DESC, event_type
	`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report: event type counts: %w", err)
	}
	defer rows.Close()

	out := make([]EventTypeCount, 0, 16)
	for rows.Next() {
		var c EventTypeCount
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return nil, fmt.Errorf("report: scan event counts: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: iterate event counts: %w", err)
	}
	return out, nil
}

// RiskLevelStats is one row of the risk breakdown.
type RiskLevelStats struct {
	RiskLevel     string
	Count         int64
	AvgFraudScore float64
	TotalAmount   float64
}

// RiskLevelBreakdown aggregates transactions by risk level, riskiest
// band (highest average fraud score) first; the level name breaks ties.
func (s *Service) RiskLevelBreakdown(ctx context.Context) ([]RiskLevelStats, error) {
	const query = `
		SELECT risk_level, COUNT(*), COALESCE(AVG(fraud_score), 0), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE risk_level IS NOT NULL
		GROUP BY risk_level
		ORDER BY AVG(fraud_score) DESC, risk_level
	`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report: risk breakdown: %w", err)
	}
	defer rows.Close()

	out := make([]RiskLevelStats, 0, 4)
	for rows.Next() {
		var st RiskLevelStats
		if err := rows.Scan(&st.RiskLevel, &st.Count, &st.AvgFraudScore, &st.TotalAmount); err != nil {
			return nil, fmt.Errorf("report: scan risk breakdown: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: iterate risk breakdown: %w", err)
	}
	return out, nil
}
