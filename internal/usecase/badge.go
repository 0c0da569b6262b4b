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

type BadgeService struct {
	store  repository.Store
	events EventSink
	now    func() time.Time
}

func NewBadgeService(store repository.Store, events EventSink) *BadgeService {
	return &BadgeService{store: store, events: events, now: time.Now}
}

// IssueRequest carries the issuance input. Position and ProofToken are only
// consulted for location-gated badges.
type IssueRequest struct {
	BadgeID    uuid.UUID
	Position   *domain.Coordinate
	ProofToken string
}

// Issue grants a badge to the user. For location-gated badges the caller's
// position must fall inside the badge geofence and the scanned proof token
// must match the one bound to the location. Issuance is idempotent: a repeat
// call returns the existing grant unchanged.
func (s *BadgeService) Issue(ctx context.Context, userID string, req IssueRequest) (domain.BadgeGrant, error) {
	badge, err := s.store.GetBadge(ctx, req.BadgeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BadgeGrant{}, domain.ErrNotFound
		}
		return domain.BadgeGrant{}, err
	}

	if badge.LocationGated() {
		if err := s.verifyVisit(badge, req); err != nil {
			return domain.BadgeGrant{}, err
		}
	}

	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return domain.BadgeGrant{}, err
	}

	grant := domain.BadgeGrant{
		UserID:   userID,
		BadgeID:  badge.ID,
		IssuedAt: s.now().UTC(),
	}
	inserted, err := s.store.InsertGrant(ctx, grant)
	if err != nil {
		return domain.BadgeGrant{}, err
	}
	if inserted == 0 {
		// Already earned; hand back the original grant.
		return s.store.GetGrant(ctx, userID, badge.ID)
	}

	s.events.BadgeIssued(ctx, grant)
	return grant, nil
}

// verifyVisit runs the geofence and proof checks for a gated badge. A missing
// position means no badge is eligible, never "distance zero".
func (s *BadgeService) verifyVisit(badge domain.Badge, req IssueRequest) error {
	loc := badge.Location
	if req.Position == nil {
		return fmt.Errorf("%w: position required for this badge", domain.ErrValidation)
	}

	distance := domain.DistanceMeters(*req.Position, loc.Coordinate)
	if distance > loc.RadiusMeters {
		return fmt.Errorf("%w: %.0fm from target, radius %.0fm",
			domain.ErrGeofenceViolation, distance, loc.RadiusMeters)
	}

	challenge := domain.NewProofChallenge()
	if err := challenge.Open(loc.ProofToken); err != nil {
		return err
	}
	defer challenge.Close()
	return challenge.Submit(req.ProofToken)
}

// ListCatalog returns every badge in the catalog.
func (s *BadgeService) ListCatalog(ctx context.Context) ([]domain.Badge, error) {
	return s.store.ListBadges(ctx)
}

// Passport returns the user's earned badges together with the tier their
// count maps to.
func (s *BadgeService) Passport(ctx context.Context, userID string) ([]domain.Badge, domain.Tier, error) {
	badges, err := s.store.ListGrantedBadges(ctx, userID)
	if err != nil {
		return nil, domain.Tier{}, err
	}
	return badges, domain.TierFor(len(badges)), nil
}
