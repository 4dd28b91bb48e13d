package seed

import (
	"chargeflow/chargeback"
	"chargeflow/customer"
	"chargeflow/merchant"
	"chargeflow/transaction"
)

// Fraud score bands per category. True fraud sits far above every
// benign category so score alone separates the classes.
const (
	trueFraudScoreMin = 85.0
	trueFraudScoreMax = 96.0
	benignScoreMin    = 5.0
	benignScoreMax    = 20.0
)

var merchantFixtures = []merchant.CreateParams{
	{ID: "merch_001", Name: "TechGear Online", AcquiringBank: "Chase Paymentech", WinRate: 0.42},
	{ID: "merch_002", Name: "FashionHub Store", AcquiringBank: "Wells Fargo Merchant Services", WinRate: 0.38},
	{ID: "merch_003", Name: "StreamFlix Digital", AcquiringBank: "First Data", WinRate: 0.55},
	{ID: "merch_004", Name: "HomeEssentials Co", AcquiringBank: "Bank of America Merchant", WinRate: 0.47},
}

var customerFixtures = []customer.CreateParams{
	{ID: "cust_001", Name: "Sarah Mitchell", Email: "sarah.mitchell@email.com", Region: "California"},
	{ID: "cust_002", Name: "James Rodriguez", Email: "james.rodriguez@email.com", Region: "Texas"},
	{ID: "cust_003", Name: "Emily Chen", Email: "emily.chen@email.com", Region: "New York"},
	{ID: "cust_004", Name: "Michael Thompson", Email: "michael.thompson@email.com", Region: "Florida"},
	{ID: "cust_005", Name: "Jessica Williams", Email: "jessica.williams@email.com", Region: "Washington"},
	{ID: "cust_006", Name: "David Park", Email: "david.park@email.com", Region: "Illinois"},
	{ID: "cust_007", Name: "Amanda Foster", Email: "amanda.foster@email.com", Region: "Oregon"},
}

var (
	outcomeWon  = chargeback.OutcomeWon
	outcomeLost = chargeback.OutcomeLost
)

// caseSpec is one authored dispute case: the disputed transaction's
// risk profile, the chargeback row, and optionally a bespoke evidence
// builder. Specs without a builder get the category's generic trail.
type caseSpec struct {
	id       string
	category chargeback.Category

	txn       transaction.Transaction
	txAgeDays int

	// disputedAmount overrides the transaction amount when nonzero;
	// merchant-error disputes often contest a partial or duplicate
	// figure rather than the full charge.
	disputedAmount float64

	reasonCode  string
	disputeType string
	issuingBank string
	analystID   string
	status      chargeback.Status
	outcome     *chargeback.Outcome
	notes       string

	events eventsBuilder
}

var caseSpecs = []caseSpec{
	// True fraud: stolen card numbers, foreign IPs, failed checks. The
	// cardholder genuinely did not transact. All still open.
	{
		id:       "cb_001",
		category: chargeback.CategoryTrueFraud,
		txn: transaction.Transaction{
			CustomerID:        "cust_001",
			MerchantID:        "merch_001",
			Amount:            1249.99,
			PaymentMethod:     "visa",
			AVSCheck:          "N",
			CVVCheck:          "N",
			ThreeDS:           false,
			IPAddress:         "185.220.101.47",
			DeviceFingerprint: "DEV_UNKNOWN_8841",
			RiskLevel:         transaction.RiskHigh,
			VelocityFlag:      true,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 4, SameIPCount: 12, TransactionsLastWeek: 9},
		},
		txAgeDays:   45,
		reasonCode:  "10.4",
		disputeType: "fraud",
		issuingBank: "Chase",
		analystID:   "analyst_01",
		status:      chargeback.StatusOpen,
		notes:       "Cardholder reports card stolen; transaction originated from anonymizing proxy.",
		events:      stolenCardEvents,
	},
	{
		id:       "cb_002",
		category: chargeback.CategoryTrueFraud,
		txn: transaction.Transaction{
			CustomerID:        "cust_003",
			MerchantID:        "merch_002",
			Amount:            687.50,
			PaymentMethod:     "mastercard",
			AVSCheck:          "N",
			CVVCheck:          "Y",
			ThreeDS:           false,
			IPAddress:         "91.108.56.203",
			DeviceFingerprint: "DEV_UNKNOWN_2210",
			RiskLevel:         transaction.RiskHigh,
			VelocityFlag:      true,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 3, SameIPCount: 8, TransactionsLastWeek: 6},
		},
		txAgeDays:   38,
		reasonCode:  "4837",
		disputeType: "fraud",
		issuingBank: "Citibank",
		analystID:   "analyst_02",
		status:      chargeback.StatusUnderReview,
		notes:       "Account takeover suspected; password reset from unrecognized device two days before charge.",
		events:      accountTakeoverEvents,
	},
	{
		id:       "cb_003",
		category: chargeback.CategoryTrueFraud,
		txn: transaction.Transaction{
			CustomerID:        "cust_006",
			MerchantID:        "merch_004",
			Amount:            2150.00,
			PaymentMethod:     "visa",
			AVSCheck:          "N",
			CVVCheck:          "N",
			ThreeDS:           false,
			IPAddress:         "103.86.99.12",
			DeviceFingerprint: "DEV_UNKNOWN_5507",
			RiskLevel:         transaction.RiskHigh,
			VelocityFlag:      true,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 6, SameIPCount: 15, TransactionsLastWeek: 11},
		},
		txAgeDays:   30,
		reasonCode:  "10.4",
		disputeType: "fraud",
		issuingBank: "Wells Fargo",
		analystID:   "analyst_01",
		status:      chargeback.StatusOpen,
		notes:       "Card-testing pattern; six cards from same device in 24 hours.",
	},

	// Friendly fraud: the cardholder transacted but disputes anyway.
	// Merchant evidence (delivery, logins, usage) supports the charge.
	{
		id:       "cb_004",
		category: chargeback.CategoryFriendlyFraud,
		txn: transaction.Transaction{
			CustomerID:        "cust_002",
			MerchantID:        "merch_001",
			Amount:            459.99,
			PaymentMethod:     "visa",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           true,
			IPAddress:         "98.45.12.88",
			DeviceFingerprint: "DEV_KNOWN_1102",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 2},
		},
		txAgeDays:   50,
		reasonCode:  "13.1",
		disputeType: "item_not_received",
		issuingBank: "Bank of America",
		analystID:   "analyst_03",
		status:      chargeback.StatusWon,
		outcome:     &outcomeWon,
		notes:       "Claims non-delivery; carrier shows signed delivery at billing address.",
		events:      itemNotReceivedEvents,
	},
	{
		id:       "cb_005",
		category: chargeback.CategoryFriendlyFraud,
		txn: transaction.Transaction{
			CustomerID:        "cust_004",
			MerchantID:        "merch_003",
			Amount:            29.99,
			PaymentMethod:     "amex",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           true,
			IPAddress:         "67.163.44.201",
			DeviceFingerprint: "DEV_KNOWN_7733",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 1},
		},
		txAgeDays:   42,
		reasonCode:  "C28",
		disputeType: "cancelled_recurring",
		issuingBank: "American Express",
		analystID:   "analyst_02",
		status:      chargeback.StatusWon,
		outcome:     &outcomeWon,
		notes:       "Claims cancelled subscription; streaming logs show 14 hours of viewing after alleged cancellation.",
		events:      subscriptionDisputeEvents,
	},
	{
		id:       "cb_006",
		category: chargeback.CategoryFriendlyFraud,
		txn: transaction.Transaction{
			CustomerID:        "cust_002",
			MerchantID:        "merch_002",
			Amount:            189.00,
			PaymentMethod:     "visa",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           false,
			IPAddress:         "98.45.12.88",
			DeviceFingerprint: "DEV_KNOWN_1102",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 3},
		},
		txAgeDays:   25,
		reasonCode:  "13.1",
		disputeType: "item_not_received",
		issuingBank: "Bank of America",
		analystID:   "analyst_03",
		status:      chargeback.StatusOpen,
		notes:       "Third dispute from this cardholder in six months, all item-not-received.",
	},

	// Merchant error: the merchant's own mistake caused the charge.
	// Resolved lost, with remediation on record.
	{
		id:       "cb_007",
		category: chargeback.CategoryMerchantError,
		txn: transaction.Transaction{
			CustomerID:        "cust_005",
			MerchantID:        "merch_004",
			Amount:            340.00,
			PaymentMethod:     "mastercard",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           true,
			IPAddress:         "73.92.110.45",
			DeviceFingerprint: "DEV_KNOWN_4419",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 2},
		},
		txAgeDays: 55,
		// Duplicate billing: the customer disputes only the second
		// posting, so the disputed figure is half the charge total.
		disputedAmount: 170.00,
		reasonCode:     "12.6",
		disputeType:    "duplicate_processing",
		issuingBank:    "US Bank",
		analystID:      "analyst_01",
		status:         chargeback.StatusLost,
		outcome:        &outcomeLost,
		notes:          "Batch settlement ran twice; duplicate posting confirmed and accepted.",
		events:         duplicateChargeEvents,
	},
	{
		id:       "cb_008",
		category: chargeback.CategoryMerchantError,
		txn: transaction.Transaction{
			CustomerID:        "cust_007",
			MerchantID:        "merch_002",
			Amount:            95.50,
			PaymentMethod:     "visa",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           false,
			IPAddress:         "50.32.78.191",
			DeviceFingerprint: "DEV_KNOWN_6625",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 1},
		},
		txAgeDays:   48,
		reasonCode:  "13.3",
		disputeType: "not_as_described",
		issuingBank: "Capital One",
		analystID:   "analyst_02",
		status:      chargeback.StatusLost,
		outcome:     &outcomeLost,
		notes:       "Wrong item shipped; warehouse picking error confirmed by merchant.",
		events:      wrongItemEvents,
	},
	{
		id:       "cb_009",
		category: chargeback.CategoryMerchantError,
		txn: transaction.Transaction{
			CustomerID:        "cust_003",
			MerchantID:        "merch_003",
			Amount:            59.98,
			PaymentMethod:     "mastercard",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           true,
			IPAddress:         "24.90.203.77",
			DeviceFingerprint: "DEV_KNOWN_9914",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 1},
		},
		txAgeDays:   35,
		reasonCode:  "C32",
		disputeType: "cancelled_recurring",
		issuingBank: "Citibank",
		analystID:   "analyst_03",
		status:      chargeback.StatusLost,
		outcome:     &outcomeLost,
		notes:       "Cancellation request processed but billing job charged the closed account anyway.",
	},

	// Not guilty: legitimate charge, cardholder confusion. The merchant
	// documented the purchase and prevailed.
	{
		id:       "cb_010",
		category: chargeback.CategoryNotGuilty,
		txn: transaction.Transaction{
			CustomerID:        "cust_001",
			MerchantID:        "merch_003",
			Amount:            12.99,
			PaymentMethod:     "visa",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           true,
			IPAddress:         "172.58.29.104",
			DeviceFingerprint: "DEV_KNOWN_3306",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 1},
		},
		txAgeDays:   40,
		reasonCode:  "10.4",
		disputeType: "fraud",
		issuingBank: "Chase",
		analystID:   "analyst_01",
		status:      chargeback.StatusWon,
		outcome:     &outcomeWon,
		notes:       "Cardholder did not recognize billing descriptor; charge is their own account renewal.",
		events:      unrecognizedDescriptorEvents,
	},
	{
		id:       "cb_011",
		category: chargeback.CategoryNotGuilty,
		txn: transaction.Transaction{
			CustomerID:        "cust_006",
			MerchantID:        "merch_001",
			Amount:            225.75,
			PaymentMethod:     "amex",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           true,
			IPAddress:         "108.27.64.33",
			DeviceFingerprint: "DEV_KNOWN_8852",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 2},
		},
		txAgeDays:   33,
		reasonCode:  "F24",
		disputeType: "fraud",
		issuingBank: "American Express",
		analystID:   "analyst_02",
		status:      chargeback.StatusWon,
		outcome:     &outcomeWon,
		notes:       "Family member purchase; cardholder withdrew the dispute after merchant evidence.",
		events:      familyPurchaseEvents,
	},
	{
		id:       "cb_012",
		category: chargeback.CategoryNotGuilty,
		txn: transaction.Transaction{
			CustomerID:        "cust_005",
			MerchantID:        "merch_002",
			Amount:            78.25,
			PaymentMethod:     "visa",
			AVSCheck:          "Y",
			CVVCheck:          "Y",
			ThreeDS:           false,
			IPAddress:         "73.92.110.45",
			DeviceFingerprint: "DEV_KNOWN_4419",
			RiskLevel:         transaction.RiskLow,
			Velocity:          &transaction.VelocitySnapshot{CardsLast24h: 1, SameIPCount: 1, TransactionsLastWeek: 2},
		},
		txAgeDays:   28,
		reasonCode:  "10.4",
		disputeType: "fraud",
		issuingBank: "US Bank",
		analystID:   "analyst_03",
		status:      chargeback.StatusWon,
		outcome:     &outcomeWon,
		notes:       "Forgotten purchase; order confirmation email opened by cardholder before dispute.",
	},
}
