package catalog

// Entry is one known subscription service from the static catalog.
type Entry struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Patterns       []string `json:"patterns"`
	BasePriceCents int64    `json:"base_price_cents"`
}
