package kafka

import "time"

// Event payloads published for external collaborators. Each carries a schema
// version so consumers can evolve independently.

type BadgeIssuedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	UserID        string    `json:"user_id"`
	BadgeID       string    `json:"badge_id"`
	IssuedAt      time.Time `json:"issued_at"`
}

type CouponGeneratedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	CouponCode    string    `json:"coupon_code"`
	UserID        string    `json:"user_id"`
	PartnerID     string    `json:"partner_id"`
	DiscountRate  int       `json:"discount_rate"`
	ValidUntil    time.Time `json:"valid_until"`
}

type CouponRedeemedEvent struct {
	SchemaVersion  int       `json:"schema_version"`
	EventID        string    `json:"event_id"`
	OccurredAt     time.Time `json:"occurred_at"`
	CouponCode     string    `json:"coupon_code"`
	UserID         string    `json:"user_id"`
	PartnerID      string    `json:"partner_id"`
	OriginalAmount int       `json:"original_amount"`
	DiscountAmount int       `json:"discount_amount"`
	FinalAmount    int       `json:"final_amount"`
}

type WalletLinkedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	UserID        string    `json:"user_id"`
	WalletAddress string    `json:"wallet_address"`
}
