package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rarity classifies a catalog badge.
type Rarity string

const (
	RarityBronze Rarity = "bronze"
	RaritySilver Rarity = "silver"
	RarityGold   Rarity = "gold"
)

// GeoBinding ties a badge to a physical location. A badge with a binding can
// only be issued after the caller proves presence inside the radius and scans
// the matching proof token.
type GeoBinding struct {
	Coordinate   Coordinate
	ProofToken   string
	RadiusMeters float64
}

// Badge is an immutable catalog entry. Location is nil for ungated badges.
type Badge struct {
	ID          uuid.UUID
	Name        string
	Description string
	Rarity      Rarity
	ImageURL    string
	Location    *GeoBinding
	CreatedAt   time.Time
}

// LocationGated reports whether issuance requires a geofence and proof check.
func (b Badge) LocationGated() bool {
	return b.Location != nil
}

// BadgeGrant records that a user earned a badge. At most one grant exists per
// (user, badge) pair.
type BadgeGrant struct {
	UserID   string
	BadgeID  uuid.UUID
	IssuedAt time.Time
}

type Partner struct {
	ID            uuid.UUID
	Name          string
	Category      string
	Contact       string
	DiscountRate  int
	MinimumBadges int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PartnerPatch carries the mutable fields of a partner update. Nil fields are
// left unchanged.
type PartnerPatch struct {
	Name          *string
	Category      *string
	Contact       *string
	DiscountRate  *int
	MinimumBadges *int
}

// EligiblePartner pairs a partner with the discount a coupon generated right
// now would freeze.
type EligiblePartner struct {
	Partner           Partner
	AvailableDiscount int
}

type CouponStatus string

const (
	CouponValid   CouponStatus = "valid"
	CouponUsed    CouponStatus = "used"
	CouponExpired CouponStatus = "expired"
)

// Coupon is a single-use discount instrument tied to one partner and one
// user. DiscountRate is frozen at generation time; later partner rate changes
// do not affect it. Expired is derived from ValidUntil, never stored.
type Coupon struct {
	ID           uuid.UUID
	Code         string
	UserID       string
	PartnerID    uuid.UUID
	DiscountRate int
	Status       CouponStatus
	CreatedAt    time.Time
	ValidUntil   time.Time
	UsedAt       *time.Time
}

// EffectiveStatus computes the status visible to callers at time now.
// A stale Valid past its window reads as Expired; Used is terminal and is
// never overridden by expiry.
func (c Coupon) EffectiveStatus(now time.Time) CouponStatus {
	if c.Status == CouponUsed {
		return CouponUsed
	}
	if now.After(c.ValidUntil) {
		return CouponExpired
	}
	return c.Status
}

// Discount applies rate percent to amount, rounding half up.
func Discount(amount, rate int) int {
	return (amount*rate + 50) / 100
}

// Redemption is the server-authoritative result of redeeming a coupon.
type Redemption struct {
	Coupon         Coupon
	OriginalAmount int
	DiscountAmount int
	FinalAmount    int
}

// User exists to anchor grants, coupons and the optional wallet linkage. The
// id is the token subject; accounts are provisioned by the auth collaborator.
type User struct {
	ID            string
	WalletAddress string
	CreatedAt     time.Time
}
