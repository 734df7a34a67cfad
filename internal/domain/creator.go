package domain

// Creator is a content creator whose resolved tips are scored.
type Creator struct {
	CreatorID    string
	Handle       string // public display handle
	Platform     string // where the tips are published
	RegisteredAt int64  // unix ms
}
