package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/repository"
)

type CouponService struct {
	store    repository.Store
	events   EventSink
	validFor time.Duration
	now      func() time.Time
}

func NewCouponService(store repository.Store, events EventSink, validFor time.Duration) *CouponService {
	return &CouponService{store: store, events: events, validFor: validFor, now: time.Now}
}

// Generate mints a coupon for the user at the given partner. The partner's
// current discount rate is frozen into the coupon; later rate changes do not
// affect it. Repeated calls mint distinct coupons.
func (s *CouponService) Generate(ctx context.Context, userID string, partnerID uuid.UUID) (domain.Coupon, error) {
	partner, err := s.store.GetPartner(ctx, partnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Coupon{}, domain.ErrNotFound
		}
		return domain.Coupon{}, err
	}

	count, err := s.store.CountGrants(ctx, userID)
	if err != nil {
		return domain.Coupon{}, err
	}
	if count < partner.MinimumBadges {
		return domain.Coupon{}, fmt.Errorf("%w: requires %d badges, have %d",
			domain.ErrIneligiblePartner, partner.MinimumBadges, count)
	}

	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return domain.Coupon{}, err
	}

	now := s.now().UTC()
	coupon := domain.Coupon{
		ID:           uuid.New(),
		Code:         uuid.New().String(),
		UserID:       userID,
		PartnerID:    partner.ID,
		DiscountRate: partner.DiscountRate,
		Status:       domain.CouponValid,
		CreatedAt:    now,
		ValidUntil:   now.Add(s.validFor),
	}
	if err := s.store.InsertCoupon(ctx, coupon); err != nil {
		return domain.Coupon{}, err
	}

	s.events.CouponGenerated(ctx, coupon)
	return coupon, nil
}

// Redeem applies the coupon to purchaseAmount exactly once. The validity
// check and the Valid -> Used transition run inside one transaction with the
// coupon row locked, so concurrent redemptions of the same code resolve to a
// single success; the loser observes ErrAlreadyUsedCoupon.
func (s *CouponService) Redeem(ctx context.Context, code string, purchaseAmount int) (domain.Redemption, error) {
	if purchaseAmount <= 0 {
		return domain.Redemption{}, fmt.Errorf("%w: purchase amount must be positive", domain.ErrValidation)
	}

	var result domain.Redemption
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		coupon, err := q.GetCouponByCodeForUpdate(ctx, code)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}

		now := s.now().UTC()
		switch coupon.EffectiveStatus(now) {
		case domain.CouponUsed:
			return domain.ErrAlreadyUsedCoupon
		case domain.CouponExpired:
			return domain.ErrExpiredCoupon
		}

		updated, err := q.MarkCouponUsed(ctx, code, now)
		if err != nil {
			return err
		}
		if updated == 0 {
			return domain.ErrAlreadyUsedCoupon
		}

		coupon.Status = domain.CouponUsed
		coupon.UsedAt = &now
		discount := domain.Discount(purchaseAmount, coupon.DiscountRate)
		result = domain.Redemption{
			Coupon:         coupon,
			OriginalAmount: purchaseAmount,
			DiscountAmount: discount,
			FinalAmount:    purchaseAmount - discount,
		}
		return nil
	})
	if err != nil {
		return domain.Redemption{}, err
	}

	s.events.CouponRedeemed(ctx, result)
	return result, nil
}

// ListMine returns the user's coupons newest first, with the status each one
// would have if presented right now.
func (s *CouponService) ListMine(ctx context.Context, userID string) ([]domain.Coupon, error) {
	coupons, err := s.store.ListCouponsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	for i := range coupons {
		coupons[i].Status = coupons[i].EffectiveStatus(now)
	}
	return coupons, nil
}
