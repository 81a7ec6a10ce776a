package links

import "time"

// Link is one user's authorized connection to an external financial account.
// ItemID is the aggregator's identifier and what webhooks reference. Cursor
// marks the sync position in the upstream feed; it only ever advances, except
// through the re-authentication flow which resets it out of band.
type Link struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"user_id"`
	ItemID            string     `db:"item_id" json:"item_id"`
	AccessToken       string     `db:"access_token" json:"-"`
	Cursor            string     `db:"cursor" json:"-"`
	LastSyncedAt      *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
	Active            bool       `db:"active" json:"active"`
	ErrorCode         *string    `db:"error_code" json:"error_code,omitempty"`
	PendingExpiration bool       `db:"pending_expiration" json:"pending_expiration"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
