package schema

// Tables enumerates the chargeflow tables in dependency order.
var Tables = []string{"customers", "merchants", "transactions", "chargebacks", "case_events"}

const createCustomers = `
CREATE TABLE customers (
    customer_id       VARCHAR(50) PRIMARY KEY,
    name              VARCHAR(255) NOT NULL,
    email             VARCHAR(255),
    region            VARCHAR(100),
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    total_chargebacks INTEGER NOT NULL DEFAULT 0,
    total_refunds     NUMERIC(10,2) NOT NULL DEFAULT 0.00
)`

const createMerchants = `
CREATE TABLE merchants (
    merchant_id    VARCHAR(50) PRIMARY KEY,
    merchant_name  VARCHAR(255) NOT NULL,
    acquiring_bank VARCHAR(100),
    win_rate       NUMERIC(5,2),
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createTransactions = `
CREATE TABLE transactions (
    transaction_id     VARCHAR(50) PRIMARY KEY,
    customer_id        VARCHAR(50) NOT NULL REFERENCES customers(customer_id),
    merchant_id        VARCHAR(50) NOT NULL REFERENCES merchants(merchant_id),

    amount             NUMERIC(10,2) NOT NULL,
    currency           VARCHAR(3) NOT NULL DEFAULT 'USD',
    payment_method     VARCHAR(50),
    card_last_4        VARCHAR(4),
    transaction_date   TIMESTAMPTZ NOT NULL DEFAULT now(),
    status             VARCHAR(20) NOT NULL DEFAULT 'completed',

    avs_check          VARCHAR(10),
    cvv_check          VARCHAR(10),
    three_ds_used      BOOLEAN NOT NULL DEFAULT false,
    auth_code          VARCHAR(20),

    ip_address         VARCHAR(45),
    device_fingerprint VARCHAR(255),

    fraud_score        NUMERIC(5,2),
    risk_level         VARCHAR(20),
    velocity_flag      BOOLEAN NOT NULL DEFAULT false,
    velocity_data      JSONB,
    risk_assessed_at   TIMESTAMPTZ
)`

const createChargebacks = `
CREATE TABLE chargebacks (
    chargeback_id          VARCHAR(50) PRIMARY KEY,
    transaction_id         VARCHAR(50) NOT NULL REFERENCES transactions(transaction_id),

    dispute_date           TIMESTAMPTZ NOT NULL DEFAULT now(),
    reason_code            VARCHAR(10),
    dispute_type           VARCHAR(50),
    category               VARCHAR(20) NOT NULL
        CHECK (category IN ('true_fraud','friendly_fraud','merchant_error','not_guilty')),
    issuing_bank           VARCHAR(100),
    chargeback_amount      NUMERIC(10,2) NOT NULL,

    analyst_id             VARCHAR(50),
    status                 VARCHAR(20) NOT NULL DEFAULT 'open'
        CHECK (status IN ('open','under_review','won','lost')),
    opened_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
    closed_at              TIMESTAMPTZ,
    outcome                VARCHAR(20) CHECK (outcome IN ('won','lost')),

    retrieval_request_date TIMESTAMPTZ,
    response_deadline      TIMESTAMPTZ,
    notes                  TEXT,

    CONSTRAINT chargebacks_outcome_pairing
        CHECK ((closed_at IS NULL) = (outcome IS NULL)),
    CONSTRAINT chargebacks_transaction_unique UNIQUE (transaction_id)
)`

const createCaseEvents = `
CREATE TABLE case_events (
    event_id      BIGSERIAL PRIMARY KEY,
    chargeback_id VARCHAR(50) NOT NULL REFERENCES chargebacks(chargeback_id),
    event_type    VARCHAR(50) NOT NULL,
    event_date    TIMESTAMPTZ NOT NULL DEFAULT now(),
    event_data    JSONB,
    description   TEXT
)`

var createTables = []string{
	createCustomers,
	createMerchants,
	createTransactions,
	createChargebacks,
	createCaseEvents,
}

// The unique constraint on chargebacks.transaction_id already indexes the
// chargebacks-by-transaction access path, so no separate index is created.
var createIndexes = []string{
	`CREATE INDEX idx_transactions_customer ON transactions(customer_id)`,
	`CREATE INDEX idx_transactions_merchant ON transactions(merchant_id)`,
	`CREATE INDEX idx_transactions_date ON transactions(transaction_date)`,
	`CREATE INDEX idx_transactions_risk_level ON transactions(risk_level)`,
	`CREATE INDEX idx_transactions_status ON transactions(status)`,
	`CREATE INDEX idx_chargebacks_status ON chargebacks(status)`,
	`CREATE INDEX idx_chargebacks_opened ON chargebacks(opened_at)`,
	`CREATE INDEX idx_chargebacks_outcome ON chargebacks(outcome)`,
	`CREATE INDEX idx_case_events_chargeback ON case_events(chargeback_id)`,
	`CREATE INDEX idx_case_events_type ON case_events(event_type)`,
	`CREATE INDEX idx_case_events_date ON case_events(event_date)`,
}
