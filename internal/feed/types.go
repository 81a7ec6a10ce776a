package feed

import "fmt"

// FeedTransaction is one transaction record as the aggregator reports it.
// Amounts are dollars; Date is YYYY-MM-DD.
type FeedTransaction struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id"`
	Amount        float64  `json:"amount"`
	Date          string   `json:"date"`
	Name          string   `json:"name"`
	MerchantName  string   `json:"merchant_name"`
	Categories    []string `json:"category"`
	Pending       bool     `json:"pending"`
}

// Label prefers the aggregator's cleaned merchant name over the raw
// statement descriptor.
func (t FeedTransaction) Label() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// RemovedTransaction references a transaction the upstream retracted.
type RemovedTransaction struct {
	TransactionID string `json:"transaction_id"`
}

// SyncPage is one page of the cursor-paginated sync feed.
type SyncPage struct {
	Added      []FeedTransaction    `json:"added"`
	Modified   []FeedTransaction    `json:"modified"`
	Removed    []RemovedTransaction `json:"removed"`
	NextCursor string               `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
}

// CredentialError signals the upstream rejected the link's credentials.
// Not retryable here; the link must be re-authenticated by the user.
type CredentialError struct {
	Code string
}

func (e *CredentialError) Error() string {
	return "feed credentials rejected: " + e.Code
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("feed api error: status %d", e.Status)
}
