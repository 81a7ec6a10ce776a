package transactions

import "time"

// Transaction is one bank transaction as persisted locally. ExternalID is the
// aggregator's immutable id and the upsert/delete key: a later "modified"
// event with the same id overwrites the row, a "removed" event deletes it.
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	ExternalID  string    `db:"external_id" json:"external_id"`
	LinkID      string    `db:"link_id" json:"link_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	AccountID   string    `db:"account_id" json:"account_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	PostedOn    time.Time `db:"posted_on" json:"posted_on"`
	MerchantRaw string    `db:"merchant_raw" json:"merchant_raw"`
	Categories  []string  `db:"categories" json:"categories,omitempty"`
	Pending     bool      `db:"pending" json:"pending"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
