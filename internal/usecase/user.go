package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/repository"
)

// UserService covers the thin slice of user state this service owns: the
// wallet address linked for the NFT collaborator. Identity itself lives with
// the external auth service.
type UserService struct {
	store  repository.Store
	events EventSink
}

func NewUserService(store repository.Store, events EventSink) *UserService {
	return &UserService{store: store, events: events}
}

// LinkWallet records the user's wallet address as a side-channel update. It
// touches no ledger or coupon state.
func (s *UserService) LinkWallet(ctx context.Context, userID, address string) (domain.User, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.User{}, fmt.Errorf("%w: wallet address is required", domain.ErrValidation)
	}

	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return domain.User{}, err
	}
	if _, err := s.store.SetWalletAddress(ctx, userID, address); err != nil {
		return domain.User{}, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	s.events.WalletLinked(ctx, user)
	return user, nil
}
