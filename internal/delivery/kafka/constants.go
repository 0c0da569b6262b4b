package kafka

const (
	TopicBadgeIssued     = "passport.badge.issued"
	TopicCouponGenerated = "passport.coupon.generated"
	TopicCouponRedeemed  = "passport.coupon.redeemed"
	TopicWalletLinked    = "passport.wallet.linked"
)
