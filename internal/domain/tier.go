package domain

// Tier is a discount bracket derived from a user's badge count. It is never
// stored; recompute it from the grant count whenever it is needed.
type Tier struct {
	Rate  int    `json:"rate"`
	Label string `json:"label"`
}

// TierFor maps a badge count to its discount tier. Thresholds are monotonic:
// more badges never yields a worse tier.
func TierFor(badgeCount int) Tier {
	switch {
	case badgeCount >= 5:
		return Tier{Rate: 15, Label: "15% discount + special coupon eligibility"}
	case badgeCount >= 3:
		return Tier{Rate: 10, Label: "10% discount"}
	case badgeCount >= 1:
		return Tier{Rate: 5, Label: "5% discount"}
	default:
		return Tier{Rate: 0, Label: "no discount"}
	}
}
