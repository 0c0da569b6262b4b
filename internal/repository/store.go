package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jejupass/tour-passport-api/internal/domain"
)

// Querier is the set of operations available both on the pool and inside a
// transaction. Absent rows surface as pgx.ErrNoRows; the usecase layer maps
// them to domain errors.
type Querier interface {
	ListBadges(ctx context.Context) ([]domain.Badge, error)
	GetBadge(ctx context.Context, id uuid.UUID) (domain.Badge, error)
	ListGrantedBadges(ctx context.Context, userID string) ([]domain.Badge, error)
	InsertGrant(ctx context.Context, grant domain.BadgeGrant) (int64, error)
	GetGrant(ctx context.Context, userID string, badgeID uuid.UUID) (domain.BadgeGrant, error)
	CountGrants(ctx context.Context, userID string) (int, error)

	ListPartners(ctx context.Context) ([]domain.Partner, error)
	GetPartner(ctx context.Context, id uuid.UUID) (domain.Partner, error)
	InsertPartner(ctx context.Context, partner domain.Partner) error
	UpdatePartner(ctx context.Context, partner domain.Partner) (int64, error)
	DeletePartner(ctx context.Context, id uuid.UUID) (int64, error)

	InsertCoupon(ctx context.Context, coupon domain.Coupon) error
	GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error)
	GetCouponByCodeForUpdate(ctx context.Context, code string) (domain.Coupon, error)
	MarkCouponUsed(ctx context.Context, code string, usedAt time.Time) (int64, error)
	ListCouponsByUser(ctx context.Context, userID string) ([]domain.Coupon, error)

	EnsureUser(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	SetWalletAddress(ctx context.Context, userID, address string) (int64, error)
}

// Store adds transactional execution on top of Querier.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// DBTX abstracts over *pgxpool.Pool and pgx.Tx so the same query code runs in
// and out of transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	pool *pgxpool.Pool
	*queries
}

func New(pool *pgxpool.Pool) Store {
	return &store{
		pool:    pool,
		queries: &queries{db: pool},
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := &queries{db: tx}
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
