package subscriptions

import "time"

// Subscription statuses.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// How a subscription came to exist.
const (
	SourceDetected   = "detected"
	SourceSuggestion = "suggestion"
	SourceManual     = "manual"
)

// Suggestion statuses.
const (
	SuggestionPending  = "pending"
	SuggestionAccepted = "accepted"
	SuggestionRejected = "rejected"
)

// Subscription is a durable record of a service the user pays for. At most
// one active row exists per (user, service).
type Subscription struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	ServiceID    *string   `db:"service_id" json:"service_id,omitempty"`
	ServiceName  string    `db:"service_name" json:"service_name"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	BillingCycle string    `db:"billing_cycle" json:"billing_cycle"`
	Status       string    `db:"status" json:"status"`
	Source       string    `db:"source" json:"source"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Suggestion is a detection that was plausible but not certain enough to act
// on. At most one pending row exists per (user, merchant); resolved rows are
// never overwritten.
type Suggestion struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	MerchantName string    `db:"merchant_name" json:"merchant_name"`
	Confidence   float64   `db:"confidence" json:"confidence"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	BillingCycle string    `db:"billing_cycle" json:"billing_cycle"`
	TxCount      int       `db:"tx_count" json:"tx_count"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
