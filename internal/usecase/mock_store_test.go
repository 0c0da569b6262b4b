package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/repository"
)

// mockStore implements repository.Store with overridable function fields.
// Unset fields return permissive defaults.
type mockStore struct {
	listBadgesFn         func(ctx context.Context) ([]domain.Badge, error)
	getBadgeFn           func(ctx context.Context, id uuid.UUID) (domain.Badge, error)
	listGrantedFn        func(ctx context.Context, userID string) ([]domain.Badge, error)
	insertGrantFn        func(ctx context.Context, grant domain.BadgeGrant) (int64, error)
	getGrantFn           func(ctx context.Context, userID string, badgeID uuid.UUID) (domain.BadgeGrant, error)
	countGrantsFn        func(ctx context.Context, userID string) (int, error)
	listPartnersFn       func(ctx context.Context) ([]domain.Partner, error)
	getPartnerFn         func(ctx context.Context, id uuid.UUID) (domain.Partner, error)
	insertPartnerFn      func(ctx context.Context, partner domain.Partner) error
	updatePartnerFn      func(ctx context.Context, partner domain.Partner) (int64, error)
	deletePartnerFn      func(ctx context.Context, id uuid.UUID) (int64, error)
	insertCouponFn       func(ctx context.Context, coupon domain.Coupon) error
	getCouponByCodeFn    func(ctx context.Context, code string) (domain.Coupon, error)
	getCouponForUpdateFn func(ctx context.Context, code string) (domain.Coupon, error)
	markCouponUsedFn     func(ctx context.Context, code string, usedAt time.Time) (int64, error)
	listCouponsByUserFn  func(ctx context.Context, userID string) ([]domain.Coupon, error)
	ensureUserFn         func(ctx context.Context, userID string) error
	getUserFn            func(ctx context.Context, userID string) (domain.User, error)
	setWalletFn          func(ctx context.Context, userID, address string) (int64, error)
	execTxFn             func(ctx context.Context, fn func(repository.Querier) error) error
}

func (m *mockStore) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	if m.listBadgesFn != nil {
		return m.listBadgesFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetBadge(ctx context.Context, id uuid.UUID) (domain.Badge, error) {
	if m.getBadgeFn != nil {
		return m.getBadgeFn(ctx, id)
	}
	return domain.Badge{ID: id}, nil
}

func (m *mockStore) ListGrantedBadges(ctx context.Context, userID string) ([]domain.Badge, error) {
	if m.listGrantedFn != nil {
		return m.listGrantedFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) InsertGrant(ctx context.Context, grant domain.BadgeGrant) (int64, error) {
	if m.insertGrantFn != nil {
		return m.insertGrantFn(ctx, grant)
	}
	return 1, nil
}

func (m *mockStore) GetGrant(ctx context.Context, userID string, badgeID uuid.UUID) (domain.BadgeGrant, error) {
	if m.getGrantFn != nil {
		return m.getGrantFn(ctx, userID, badgeID)
	}
	return domain.BadgeGrant{UserID: userID, BadgeID: badgeID}, nil
}

func (m *mockStore) CountGrants(ctx context.Context, userID string) (int, error) {
	if m.countGrantsFn != nil {
		return m.countGrantsFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockStore) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	if m.listPartnersFn != nil {
		return m.listPartnersFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetPartner(ctx context.Context, id uuid.UUID) (domain.Partner, error) {
	if m.getPartnerFn != nil {
		return m.getPartnerFn(ctx, id)
	}
	return domain.Partner{ID: id}, nil
}

func (m *mockStore) InsertPartner(ctx context.Context, partner domain.Partner) error {
	if m.insertPartnerFn != nil {
		return m.insertPartnerFn(ctx, partner)
	}
	return nil
}

func (m *mockStore) UpdatePartner(ctx context.Context, partner domain.Partner) (int64, error) {
	if m.updatePartnerFn != nil {
		return m.updatePartnerFn(ctx, partner)
	}
	return 1, nil
}

func (m *mockStore) DeletePartner(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.deletePartnerFn != nil {
		return m.deletePartnerFn(ctx, id)
	}
	return 1, nil
}

func (m *mockStore) InsertCoupon(ctx context.Context, coupon domain.Coupon) error {
	if m.insertCouponFn != nil {
		return m.insertCouponFn(ctx, coupon)
	}
	return nil
}

func (m *mockStore) GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error) {
	if m.getCouponByCodeFn != nil {
		return m.getCouponByCodeFn(ctx, code)
	}
	return domain.Coupon{Code: code}, nil
}

func (m *mockStore) GetCouponByCodeForUpdate(ctx context.Context, code string) (domain.Coupon, error) {
	if m.getCouponForUpdateFn != nil {
		return m.getCouponForUpdateFn(ctx, code)
	}
	return domain.Coupon{Code: code}, nil
}

func (m *mockStore) MarkCouponUsed(ctx context.Context, code string, usedAt time.Time) (int64, error) {
	if m.markCouponUsedFn != nil {
		return m.markCouponUsedFn(ctx, code, usedAt)
	}
	return 1, nil
}

func (m *mockStore) ListCouponsByUser(ctx context.Context, userID string) ([]domain.Coupon, error) {
	if m.listCouponsByUserFn != nil {
		return m.listCouponsByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) EnsureUser(ctx context.Context, userID string) error {
	if m.ensureUserFn != nil {
		return m.ensureUserFn(ctx, userID)
	}
	return nil
}

func (m *mockStore) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return domain.User{ID: userID}, nil
}

func (m *mockStore) SetWalletAddress(ctx context.Context, userID, address string) (int64, error) {
	if m.setWalletFn != nil {
		return m.setWalletFn(ctx, userID, address)
	}
	return 1, nil
}

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	if m.execTxFn != nil {
		return m.execTxFn(ctx, fn)
	}
	return fn(m)
}

// nopSink discards events; tests that assert on events use recordingSink.
type nopSink struct{}

func (nopSink) BadgeIssued(context.Context, domain.BadgeGrant)    {}
func (nopSink) CouponGenerated(context.Context, domain.Coupon)    {}
func (nopSink) CouponRedeemed(context.Context, domain.Redemption) {}
func (nopSink) WalletLinked(context.Context, domain.User)         {}

// recordingSink counts published events.
type recordingSink struct {
	badgeIssued     int
	couponGenerated int
	couponRedeemed  int
	walletLinked    int
}

func (r *recordingSink) BadgeIssued(context.Context, domain.BadgeGrant)    { r.badgeIssued++ }
func (r *recordingSink) CouponGenerated(context.Context, domain.Coupon)    { r.couponGenerated++ }
func (r *recordingSink) CouponRedeemed(context.Context, domain.Redemption) { r.couponRedeemed++ }
func (r *recordingSink) WalletLinked(context.Context, domain.User)         { r.walletLinked++ }
