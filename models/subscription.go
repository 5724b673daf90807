package models

// Subscription tiers and statuses. Mutated only through admin endpoints.
const (
	TierFree = "free"
	TierPro  = "pro"

	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Subscription is the per-user subscription record. Usage counters live in
// the key-value store under usage keys, not on this document.
type Subscription struct {
	UserID    string `json:"user_id" bson:"_id"`
	Tier      string `json:"tier" bson:"tier"`
	Status    string `json:"status" bson:"status"`
	StartedAt int64  `json:"started_at" bson:"started_at"`
	ExpiresAt int64  `json:"expires_at" bson:"expires_at"`
	UpdatedAt int64  `json:"updated_at" bson:"updated_at"`
}

// UsageKey returns the key-value store key holding a user's usage counter
// for the given resource kind (e.g. "memories", "notes").
func UsageKey(userID, kind string) string {
	return "usage:" + userID + ":" + kind
}
