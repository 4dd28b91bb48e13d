package transaction

import "time"

// Status is the transaction lifecycle state. The only transition in
// scope is completed -> disputed, applied when a chargeback is filed.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
)

// RiskLevel is the categorical risk band assigned alongside the fraud score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// VelocitySnapshot is the structured velocity_data payload: how many
// cards, IPs, and transactions the customer triggered in a short window.
type VelocitySnapshot struct {
	CardsLast24h         int `json:"cards_last_24h"`
	SameIPCount          int `json:"same_ip_count"`
	TransactionsLastWeek int `json:"transactions_last_week"`
}

// Transaction mirrors the transactions table.
type Transaction struct {
	ID         string
	CustomerID string
	MerchantID string

	Amount        float64
	Currency      string
	PaymentMethod string
	CardLast4     string
	Date          time.Time
	Status        Status

	AVSCheck string
	CVVCheck string
	ThreeDS  bool
	AuthCode string

	IPAddress         string
	DeviceFingerprint string

	FraudScore     float64
	RiskLevel      RiskLevel
	VelocityFlag   bool
	Velocity       *VelocitySnapshot
	RiskAssessedAt *time.Time
}
