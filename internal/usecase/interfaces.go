package usecase

import (
	"context"

	"github.com/jejupass/tour-passport-api/internal/domain"
)

// EventSink receives domain events for external collaborators (push
// notifier, NFT minter). Publishing is best-effort: implementations log
// failures and never propagate them into the request path.
type EventSink interface {
	BadgeIssued(ctx context.Context, grant domain.BadgeGrant)
	CouponGenerated(ctx context.Context, coupon domain.Coupon)
	CouponRedeemed(ctx context.Context, redemption domain.Redemption)
	WalletLinked(ctx context.Context, user domain.User)
}
