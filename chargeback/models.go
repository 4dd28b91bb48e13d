package chargeback

import "time"

// Status represents the lifecycle of a dispute case:
// open -> under_review -> {won, lost}.
type Status string

const (
	StatusOpen        Status = "open"
	StatusUnderReview Status = "under_review"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
)

// Terminal reports whether the status ends the case lifecycle.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Outcome is the terminal resolution. won means the chargeback was
// reversed in the merchant's favor; lost means it was upheld and the
// disputed amount stays with the customer.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Category classifies the case by what actually happened, independent
// of the lifecycle status. Persisted so downstream analysis can query
// the fraud-score/category correlation directly.
type Category string

const (
	CategoryTrueFraud     Category = "true_fraud"
	CategoryFriendlyFraud Category = "friendly_fraud"
	CategoryMerchantError Category = "merchant_error"
	CategoryNotGuilty     Category = "not_guilty"
)

// Chargeback mirrors the chargebacks table. ClosedAt and Outcome are
// set together on the transition into a terminal status and are never
// present one without the other. Amount usually equals the disputed
// transaction's amount; merchant-error cases may dispute the erroneous
// partial or duplicate figure instead.
type Chargeback struct {
	ID            string
	TransactionID string

	DisputeDate time.Time
	ReasonCode  string
	DisputeType string
	Category    Category
	IssuingBank string
	Amount      float64

	AnalystID string
	Status    Status
	OpenedAt  time.Time
	ClosedAt  *time.Time
	Outcome   *Outcome

	RetrievalRequestDate *time.Time
	ResponseDeadline     *time.Time
	Notes                string
}
