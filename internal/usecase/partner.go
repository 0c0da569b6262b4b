package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/repository"
)

// PartnerService manages the merchant catalog. Any authenticated caller may
// create, update or delete any partner; the product imposes no ownership.
type PartnerService struct {
	store repository.Store
	now   func() time.Time
}

func NewPartnerService(store repository.Store) *PartnerService {
	return &PartnerService{store: store, now: time.Now}
}

type PartnerInput struct {
	Name          string
	Category      string
	Contact       string
	DiscountRate  int
	MinimumBadges int
}

func (in PartnerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.DiscountRate < 0 || in.DiscountRate > 100 {
		return fmt.Errorf("%w: discount rate must be between 0 and 100", domain.ErrValidation)
	}
	if in.MinimumBadges < 0 {
		return fmt.Errorf("%w: minimum badges must not be negative", domain.ErrValidation)
	}
	return nil
}

func (s *PartnerService) List(ctx context.Context) ([]domain.Partner, error) {
	return s.store.ListPartners(ctx)
}

func (s *PartnerService) Create(ctx context.Context, in PartnerInput) (domain.Partner, error) {
	if err := in.validate(); err != nil {
		return domain.Partner{}, err
	}

	now := s.now().UTC()
	partner := domain.Partner{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(in.Name),
		Category:      in.Category,
		Contact:       in.Contact,
		DiscountRate:  in.DiscountRate,
		MinimumBadges: in.MinimumBadges,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.InsertPartner(ctx, partner); err != nil {
		return domain.Partner{}, err
	}
	return partner, nil
}

func (s *PartnerService) Update(ctx context.Context, id uuid.UUID, patch domain.PartnerPatch) (domain.Partner, error) {
	partner, err := s.store.GetPartner(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Partner{}, domain.ErrNotFound
		}
		return domain.Partner{}, err
	}

	if patch.Name != nil {
		partner.Name = *patch.Name
	}
	if patch.Category != nil {
		partner.Category = *patch.Category
	}
	if patch.Contact != nil {
		partner.Contact = *patch.Contact
	}
	if patch.DiscountRate != nil {
		partner.DiscountRate = *patch.DiscountRate
	}
	if patch.MinimumBadges != nil {
		partner.MinimumBadges = *patch.MinimumBadges
	}

	if err := (PartnerInput{
		Name:          partner.Name,
		Category:      partner.Category,
		Contact:       partner.Contact,
		DiscountRate:  partner.DiscountRate,
		MinimumBadges: partner.MinimumBadges,
	}).validate(); err != nil {
		return domain.Partner{}, err
	}

	partner.UpdatedAt = s.now().UTC()
	updated, err := s.store.UpdatePartner(ctx, partner)
	if err != nil {
		return domain.Partner{}, err
	}
	if updated == 0 {
		return domain.Partner{}, domain.ErrNotFound
	}
	return partner, nil
}

func (s *PartnerService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.store.DeletePartner(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EligibleFor filters the catalog to partners whose badge threshold the user
// meets. AvailableDiscount is the rate a coupon generated now would freeze.
func (s *PartnerService) EligibleFor(ctx context.Context, userID string) ([]domain.EligiblePartner, domain.Tier, error) {
	count, err := s.store.CountGrants(ctx, userID)
	if err != nil {
		return nil, domain.Tier{}, err
	}

	partners, err := s.store.ListPartners(ctx)
	if err != nil {
		return nil, domain.Tier{}, err
	}

	eligible := make([]domain.EligiblePartner, 0, len(partners))
	for _, p := range partners {
		if p.MinimumBadges <= count {
			eligible = append(eligible, domain.EligiblePartner{
				Partner:           p,
				AvailableDiscount: p.DiscountRate,
			})
		}
	}
	return eligible, domain.TierFor(count), nil
}
