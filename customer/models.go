package customer

import "time"

// Customer mirrors the customers table. TotalChargebacks and
// TotalRefunds are cached projections over the customer's disputes:
// never written incrementally, only rebuilt by ReconcileChargebackTotals.
type Customer struct {
	ID               string
	Name             string
	Email            string
	Region           string
	CreatedAt        time.Time
	TotalChargebacks int
	TotalRefunds     float64
}
