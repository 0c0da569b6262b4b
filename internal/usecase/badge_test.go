package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jejupass/tour-passport-api/internal/domain"
)

var hallasan = domain.Badge{
	ID:     uuid.MustParse("7b3f1c2a-0001-4d7e-9a61-0d3c1a5e9001"),
	Name:   "한라산 정복",
	Rarity: domain.RarityGold,
	Location: &domain.GeoBinding{
		Coordinate:   domain.Coordinate{Lat: 33.3617, Lng: 126.5292},
		ProofToken:   "JEJU-HALLASAN-2024",
		RadiusMeters: 1000,
	},
}

func gatedStore(badge domain.Badge) *mockStore {
	return &mockStore{
		getBadgeFn: func(ctx context.Context, id uuid.UUID) (domain.Badge, error) {
			if id != badge.ID {
				return domain.Badge{}, pgx.ErrNoRows
			}
			return badge, nil
		},
	}
}

func TestIssue_GatedSuccess(t *testing.T) {
	events := &recordingSink{}
	svc := NewBadgeService(gatedStore(hallasan), events)

	grant, err := svc.Issue(context.Background(), "user1", IssueRequest{
		BadgeID:    hallasan.ID,
		Position:   &domain.Coordinate{Lat: 33.3617, Lng: 126.5292},
		ProofToken: "JEJU-HALLASAN-2024",
	})
	if err != nil {
		t.Fatalf("expected issue to succeed, got %v", err)
	}
	if grant.UserID != "user1" || grant.BadgeID != hallasan.ID {
		t.Fatalf("unexpected grant: %+v", grant)
	}
	if events.badgeIssued != 1 {
		t.Fatalf("expected one badge event, got %d", events.badgeIssued)
	}
}

func TestIssue_Idempotent(t *testing.T) {
	existing := domain.BadgeGrant{
		UserID:   "user1",
		BadgeID:  hallasan.ID,
		IssuedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	store := gatedStore(hallasan)
	inserted := 0
	store.insertGrantFn = func(ctx context.Context, grant domain.BadgeGrant) (int64, error) {
		if inserted == 0 {
			inserted++
			return 1, nil
		}
		return 0, nil
	}
	store.getGrantFn = func(ctx context.Context, userID string, badgeID uuid.UUID) (domain.BadgeGrant, error) {
		return existing, nil
	}

	events := &recordingSink{}
	svc := NewBadgeService(store, events)
	req := IssueRequest{
		BadgeID:    hallasan.ID,
		Position:   &domain.Coordinate{Lat: 33.3617, Lng: 126.5292},
		ProofToken: "JEJU-HALLASAN-2024",
	}

	if _, err := svc.Issue(context.Background(), "user1", req); err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	grant, err := svc.Issue(context.Background(), "user1", req)
	if err != nil {
		t.Fatalf("repeat issue must be a no-op, got %v", err)
	}
	if !grant.IssuedAt.Equal(existing.IssuedAt) {
		t.Fatalf("repeat issue must return the original grant, got %+v", grant)
	}
	if events.badgeIssued != 1 {
		t.Fatalf("repeat issue must not publish a second event, got %d", events.badgeIssued)
	}
}

func TestIssue_UnknownBadge(t *testing.T) {
	svc := NewBadgeService(gatedStore(hallasan), nopSink{})

	_, err := svc.Issue(context.Background(), "user1", IssueRequest{BadgeID: uuid.New()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIssue_OutsideGeofence(t *testing.T) {
	svc := NewBadgeService(gatedStore(hallasan), nopSink{})

	_, err := svc.Issue(context.Background(), "user1", IssueRequest{
		BadgeID:    hallasan.ID,
		Position:   &domain.Coordinate{Lat: 33.4584, Lng: 126.9423}, // ~40km away
		ProofToken: "JEJU-HALLASAN-2024",
	})
	if !errors.Is(err, domain.ErrGeofenceViolation) {
		t.Fatalf("expected ErrGeofenceViolation, got %v", err)
	}
}

func TestIssue_MissingPosition(t *testing.T) {
	svc := NewBadgeService(gatedStore(hallasan), nopSink{})

	_, err := svc.Issue(context.Background(), "user1", IssueRequest{
		BadgeID:    hallasan.ID,
		ProofToken: "JEJU-HALLASAN-2024",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("no position must not read as distance zero, got %v", err)
	}
}

func TestIssue_WrongProofToken(t *testing.T) {
	svc := NewBadgeService(gatedStore(hallasan), nopSink{})

	_, err := svc.Issue(context.Background(), "user1", IssueRequest{
		BadgeID:    hallasan.ID,
		Position:   &domain.Coordinate{Lat: 33.3617, Lng: 126.5292},
		ProofToken: "JEJU-SEONGSAN-2024", // valid for another location
	})
	if !errors.Is(err, domain.ErrQRMismatch) {
		t.Fatalf("expected ErrQRMismatch, got %v", err)
	}
}

func TestIssue_UngatedSkipsChecks(t *testing.T) {
	welcome := domain.Badge{ID: uuid.New(), Name: "디지털 여권 발급", Rarity: domain.RarityBronze}
	svc := NewBadgeService(gatedStore(welcome), nopSink{})

	if _, err := svc.Issue(context.Background(), "user1", IssueRequest{BadgeID: welcome.ID}); err != nil {
		t.Fatalf("ungated badge must issue without position or token, got %v", err)
	}
}

func TestPassport_TierFromCount(t *testing.T) {
	store := &mockStore{
		listGrantedFn: func(ctx context.Context, userID string) ([]domain.Badge, error) {
			return []domain.Badge{{}, {}, {}}, nil
		},
	}
	svc := NewBadgeService(store, nopSink{})

	badges, tier, err := svc.Passport(context.Background(), "user1")
	if err != nil {
		t.Fatalf("passport failed: %v", err)
	}
	if len(badges) != 3 {
		t.Fatalf("expected 3 badges, got %d", len(badges))
	}
	if tier.Rate != 10 {
		t.Fatalf("expected 10%% tier at 3 badges, got %d", tier.Rate)
	}
}
