package kafka

import (
	"context"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/usecase"
)

// NopSink discards events. Used when the event stream is disabled so the
// usecase layer never has to nil-check its sink.
type NopSink struct{}

func NewNopSink() usecase.EventSink {
	return NopSink{}
}

func (NopSink) BadgeIssued(context.Context, domain.BadgeGrant)    {}
func (NopSink) CouponGenerated(context.Context, domain.Coupon)    {}
func (NopSink) CouponRedeemed(context.Context, domain.Redemption) {}
func (NopSink) WalletLinked(context.Context, domain.User)         {}
