package merchant

import "time"

// Merchant mirrors the merchants table. Rows are immutable after creation.
type Merchant struct {
	ID            string
	Name          string
	AcquiringBank string
	// WinRate is the merchant's historical dispute win percentage.
	WinRate   float64
	CreatedAt time.Time
}
