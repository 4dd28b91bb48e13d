package caseevent

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event type tags. The vocabulary is open ended: tags without a typed
// payload below round-trip through Opaque.
const (
	TypeSupportTicket         = "support_ticket"
	TypeTransactionAnalysis   = "transaction_analysis"
	TypeFraudIndicators       = "fraud_indicators"
	TypeVelocityCheck         = "velocity_check"
	TypeLogin                 = "login"
	TypeShippingEvidence      = "shipping_evidence"
	TypeRefund                = "refund"
	TypeSubscriptionEvidence  = "subscription_evidence"
	TypeMerchantInvestigation = "merchant_investigation"
	TypeSystemFix             = "system_fix"
	TypePreviousDispute       = "previous_dispute"
)

// EventPayload is the tagged union over event_data shapes.
type EventPayload interface {
	EventType() string
}

// SupportTicket records a customer contact with the support desk.
type SupportTicket struct {
	TicketID      string `json:"ticket_id"`
	ContactMethod string `json:"contact_method,omitempty"`
	Statement     string `json:"customer_statement,omitempty"`
	CardCancelled bool   `json:"card_cancelled,omitempty"`
	PoliceReport  string `json:"police_report,omitempty"`
}

func (SupportTicket) EventType() string { return TypeSupportTicket }

// TransactionAnalysis captures behavioral/geolocation findings for the
// disputed transaction.
type TransactionAnalysis struct {
	UnusualLocation  bool    `json:"unusual_location"`
	LocationCountry  string  `json:"location_country,omitempty"`
	CustomerLocation string  `json:"customer_location,omitempty"`
	DistanceMiles    int     `json:"distance_miles,omitempty"`
	MultipleCards24h int     `json:"multiple_cards_24h,omitempty"`
	VelocityScore    float64 `json:"velocity_score,omitempty"`
}

func (TransactionAnalysis) EventType() string { return TypeTransactionAnalysis }

// FraudIndicators snapshots the verification results for the case.
type FraudIndicators struct {
	AVSMatch     string `json:"avs_match"`
	CVVMatch     string `json:"cvv_match"`
	ThreeDSUsed  bool   `json:"3ds_used"`
	DeviceKnown  bool   `json:"device_known"`
	IPReputation string `json:"ip_reputation,omitempty"`
}

func (FraudIndicators) EventType() string { return TypeFraudIndicators }

// VelocityCheck snapshots recent card/IP/transaction velocity.
type VelocityCheck struct {
	CardsLast24h         int     `json:"cards_last_24h"`
	TransactionsLastWeek int     `json:"transactions_last_week"`
	AmountLast24h        float64 `json:"amount_last_24h,omitempty"`
	SameIPCount          int     `json:"same_ip_count"`
	VelocityFlag         bool    `json:"velocity_flag"`
}

func (VelocityCheck) EventType() string { return TypeVelocityCheck }

// Login captures session evidence tying (or failing to tie) account
// activity to the cardholder.
type Login struct {
	Location            string `json:"login_location,omitempty"`
	IP                  string `json:"login_ip,omitempty"`
	Device              string `json:"login_device,omitempty"`
	DeviceKnown         bool   `json:"device_known"`
	SameIPAsTransaction bool   `json:"same_ip_as_transaction"`
}

func (Login) EventType() string { return TypeLogin }

// ShippingEvidence is the merchant's delivery proof.
type ShippingEvidence struct {
	TrackingNumber  string     `json:"tracking_number"`
	Carrier         string     `json:"carrier,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	SignatureName   string     `json:"signature_name,omitempty"`
	GPSCoordinates  string     `json:"gps_coordinates,omitempty"`
}

func (ShippingEvidence) EventType() string { return TypeShippingEvidence }

// Refund records a refund offered or processed by the merchant.
type Refund struct {
	Offered      bool    `json:"refund_offered"`
	Processed    bool    `json:"refund_processed"`
	Amount       float64 `json:"refund_amount"`
	Status       string  `json:"refund_status,omitempty"`
	Confirmation string  `json:"refund_confirmation,omitempty"`
}

func (Refund) EventType() string { return TypeRefund }

// SubscriptionEvidence documents subscription terms and usage.
type SubscriptionEvidence struct {
	SubscriptionID string     `json:"subscription_id"`
	BillingCycle   string     `json:"billing_cycle,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	TOSAgreement   string     `json:"tos_agreement,omitempty"`
	UsageWindow    string     `json:"usage_window,omitempty"`
}

func (SubscriptionEvidence) EventType() string { return TypeSubscriptionEvidence }

// MerchantInvestigation records the merchant's own fault analysis.
type MerchantInvestigation struct {
	OrderNumber string `json:"order_number,omitempty"`
	ErrorType   string `json:"error_type"`
	RootCause   string `json:"root_cause,omitempty"`
	Confirmed   bool   `json:"merchant_confirmed"`
}

func (MerchantInvestigation) EventType() string { return TypeMerchantInvestigation }

// SystemFix records the remediation applied after a merchant error.
type SystemFix struct {
	Resolved    bool   `json:"issue_resolved"`
	Description string `json:"fix_description,omitempty"`
	Prevention  string `json:"prevention_measures,omitempty"`
}

func (SystemFix) EventType() string { return TypeSystemFix }

// PreviousDispute summarizes the customer's dispute history.
type PreviousDispute struct {
	TotalDisputes   int    `json:"total_disputes"`
	SimilarDisputes int    `json:"similar_disputes,omitempty"`
	Pattern         string `json:"dispute_pattern,omitempty"`
	Standing        string `json:"customer_standing,omitempty"`
}

func (PreviousDispute) EventType() string { return TypePreviousDispute }

// Opaque is the fallback for tags without an authored shape. Fields is
// the raw key/value record, preserved as-is.
type Opaque struct {
	Type   string
	Fields map[string]any
}

func (o Opaque) EventType() string { return o.Type }

// EncodePayload serializes a payload for the event_data column.
func EncodePayload(p EventPayload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	if o, ok := p.(Opaque); ok {
		b, err := json.Marshal(o.Fields)
		if err != nil {
			return nil, fmt.Errorf("caseevent: encode %s payload: %w", o.Type, err)
		}
		return b, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("caseevent: encode %s payload: %w", p.EventType(), err)
	}
	return b, nil
}

// DecodePayload deserializes event_data into the typed variant for the
// tag, falling back to Opaque for unrecognized tags. Payload shape is
// schema-on-read: a nil blob decodes to an empty Opaque.
func DecodePayload(eventType string, data []byte) (EventPayload, error) {
	if len(data) == 0 {
		return Opaque{Type: eventType}, nil
	}

	var target EventPayload
	switch eventType {
	case TypeSupportTicket:
		target = &SupportTicket{}
	case TypeTransactionAnalysis:
		target = &TransactionAnalysis{}
	case TypeFraudIndicators:
		target = &FraudIndicators{}
	case TypeVelocityCheck:
		target = &VelocityCheck{}
	case TypeLogin:
		target = &Login{}
	case TypeShippingEvidence:
		target = &ShippingEvidence{}
	case TypeRefund:
		target = &Refund{}
	case TypeSubscriptionEvidence:
		target = &SubscriptionEvidence{}
	case TypeMerchantInvestigation:
		target = &MerchantInvestigation{}
	case TypeSystemFix:
		target = &SystemFix{}
	case TypePreviousDispute:
		target = &PreviousDispute{}
	default:
		fields := map[string]any{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("caseevent: decode %s payload: %w", eventType, err)
		}
		return Opaque{Type: eventType, Fields: fields}, nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("caseevent: decode %s payload: %w", eventType, err)
	}

	switch v := target.(type) {
	case *SupportTicket:
		return *v, nil
	case *TransactionAnalysis:
		return *v, nil
	case *FraudIndicators:
		return *v, nil
	case *VelocityCheck:
		return *v, nil
	case *Login:
		return *v, nil
	case *ShippingEvidence:
		return *v, nil
	case *Refund:
		return *v, nil
	case *SubscriptionEvidence:
		return *v, nil
	case *MerchantInvestigation:
		return *v, nil
	case *SystemFix:
		return *v, nil
	case *PreviousDispute:
		return *v, nil
	default:
		return nil, fmt.Errorf("caseevent: unhandled payload type %T", target)
	}
}
