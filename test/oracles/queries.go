// Package oracles holds SQL invariant checks over a populated store.
// Each query returns rows only when its invariant is violated.
package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_transaction_fk_integrity",
			SQL: `SELECT t.transaction_id FROM transactions t
                  LEFT JOIN customers c ON c.customer_id = t.customer_id
                  LEFT JOIN merchants m ON m.merchant_id = t.merchant_id
                  WHERE c.customer_id IS NULL OR m.merchant_id IS NULL`,
		},
		{
			Name: "O2_chargeback_fk_integrity",
			SQL: `SELECT cb.chargeback_id FROM chargebacks cb
                  LEFT JOIN transactions t ON t.transaction_id = cb.transaction_id
                  WHERE t.transaction_id IS NULL`,
		},
		{
			Name: "O3_event_fk_integrity",
			SQL: `SELECT e.event_id FROM case_events e
                  LEFT JOIN chargebacks cb ON cb.chargeback_id = e.chargeback_id
                  WHERE cb.chargeback_id IS NULL`,
		},
		{
			Name: "O4_one_dispute_per_transaction",
			SQL: `SELECT transaction_id, COUNT(*) FROM chargebacks
                  GROUP BY transaction_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O5_outcome_pairing",
			SQL: `SELECT chargeback_id FROM chargebacks
                  WHERE (closed_at IS NULL) <> (outcome IS NULL)`,
		},
		{
			Name: "O6_terminal_status_outcome",
			SQL: `SELECT chargeback_id FROM chargebacks
                  WHERE (status IN ('won','lost') AND (outcome IS NULL OR outcome <> status))
                     OR (status IN ('open','under_review') AND outcome IS NOT NULL)`,
		},
		{
			Name: "O7_disputed_transaction_status",
			SQL: `SELECT cb.chargeback_id FROM chargebacks cb
                  JOIN transactions t ON t.transaction_id = cb.transaction_id
                  WHERE t.status <> 'disputed'`,
		},
		{
			Name: "O8_fraud_score_margin",
			SQL: `WITH fraud AS (
                      SELECT MIN(t.fraud_score) AS lo FROM chargebacks cb
                      JOIN transactions t ON t.transaction_id = cb.transaction_id
                      WHERE cb.category = 'true_fraud'),
                  benign AS (
                      SELECT MAX(t.fraud_score) AS hi FROM chargebacks cb
                      JOIN transactions t ON t.transaction_id = cb.transaction_id
                      WHERE cb.category <> 'true_fraud')
                  SELECT fraud.lo, benign.hi FROM fraud, benign
                  WHERE fraud.lo IS NOT NULL AND benign.hi IS NOT NULL
                    AND fraud.lo - benign.hi < 50`,
		},
		{
			Name: "O9_aggregate_drift",
			SQL: `SELECT c.customer_id, c.total_chargebacks, COUNT(cb.chargeback_id) FROM customers c
                  LEFT JOIN transactions t ON t.customer_id = c.customer_id
                  LEFT JOIN chargebacks cb ON cb.transaction_id = t.transaction_id
                  GROUP BY c.customer_id, c.total_chargebacks
                  HAVING c.total_chargebacks <> COUNT(cb.chargeback_id)`,
		},
		{
			Name: "O10_empty_trail",
			SQL: `SELECT cb.chargeback_id FROM chargebacks cb
                  LEFT JOIN case_events e ON e.chargeback_id = cb.chargeback_id
                  GROUP BY cb.chargeback_id HAVING COUNT(e.event_id) = 0`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and
// sample row text) or an empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		if rows.Next() {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
