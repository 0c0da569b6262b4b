package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jejupass/tour-passport-api/internal/domain"
)

type queries struct {
	db DBTX
}

const badgeColumns = `id, name, description, rarity, image_url, lat, lng, proof_token, radius_m, created_at`

func scanBadge(row pgx.Row) (domain.Badge, error) {
	var (
		b          domain.Badge
		rarity     string
		lat, lng   *float64
		proofToken *string
		radius     *float64
	)
	err := row.Scan(&b.ID, &b.Name, &b.Description, &rarity, &b.ImageURL,
		&lat, &lng, &proofToken, &radius, &b.CreatedAt)
	if err != nil {
		return domain.Badge{}, err
	}
	b.Rarity = domain.Rarity(rarity)
	if lat != nil && lng != nil && proofToken != nil && radius != nil {
		b.Location = &domain.GeoBinding{
			Coordinate:   domain.Coordinate{Lat: *lat, Lng: *lng},
			ProofToken:   *proofToken,
			RadiusMeters: *radius,
		}
	}
	return b, nil
}

func collectBadges(rows pgx.Rows) ([]domain.Badge, error) {
	defer rows.Close()
	var badges []domain.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func (q *queries) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	rows, err := q.db.Query(ctx, `SELECT `+badgeColumns+` FROM badges ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectBadges(rows)
}

func (q *queries) GetBadge(ctx context.Context, id uuid.UUID) (domain.Badge, error) {
	row := q.db.QueryRow(ctx, `SELECT `+badgeColumns+` FROM badges WHERE id = $1`, id)
	return scanBadge(row)
}

func (q *queries) ListGrantedBadges(ctx context.Context, userID string) ([]domain.Badge, error) {
	rows, err := q.db.Query(ctx, `
		SELECT b.id, b.name, b.description, b.rarity, b.image_url,
		       b.lat, b.lng, b.proof_token, b.radius_m, b.created_at
		FROM badges b
		JOIN badge_grants g ON g.badge_id = b.id
		WHERE g.user_id = $1
		ORDER BY g.issued_at, b.id`, userID)
	if err != nil {
		return nil, err
	}
	return collectBadges(rows)
}

// InsertGrant performs the check-and-insert for badge issuance in a single
// statement; zero rows affected means the (user, badge) grant already exists.
func (q *queries) InsertGrant(ctx context.Context, grant domain.BadgeGrant) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		INSERT INTO badge_grants (user_id, badge_id, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING`,
		grant.UserID, grant.BadgeID, grant.IssuedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *queries) GetGrant(ctx context.Context, userID string, badgeID uuid.UUID) (domain.BadgeGrant, error) {
	var g domain.BadgeGrant
	err := q.db.QueryRow(ctx, `
		SELECT user_id, badge_id, issued_at
		FROM badge_grants WHERE user_id = $1 AND badge_id = $2`,
		userID, badgeID).Scan(&g.UserID, &g.BadgeID, &g.IssuedAt)
	return g, err
}

func (q *queries) CountGrants(ctx context.Context, userID string) (int, error) {
	var count int
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM badge_grants WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

const partnerColumns = `id, name, category, contact, discount_rate, minimum_badges, created_at, updated_at`

func scanPartner(row pgx.Row) (domain.Partner, error) {
	var p domain.Partner
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Contact,
		&p.DiscountRate, &p.MinimumBadges, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *queries) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := q.db.Query(ctx, `SELECT `+partnerColumns+` FROM partners ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var partners []domain.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (q *queries) GetPartner(ctx context.Context, id uuid.UUID) (domain.Partner, error) {
	row := q.db.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id)
	return scanPartner(row)
}

func (q *queries) InsertPartner(ctx context.Context, partner domain.Partner) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO partners (id, name, category, contact, discount_rate, minimum_badges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		partner.ID, partner.Name, partner.Category, partner.Contact,
		partner.DiscountRate, partner.MinimumBadges, partner.CreatedAt, partner.UpdatedAt)
	return err
}

func (q *queries) UpdatePartner(ctx context.Context, partner domain.Partner) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE partners
		SET name = $2, category = $3, contact = $4, discount_rate = $5,
		    minimum_badges = $6, updated_at = $7
		WHERE id = $1`,
		partner.ID, partner.Name, partner.Category, partner.Contact,
		partner.DiscountRate, partner.MinimumBadges, partner.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *queries) DeletePartner(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const couponColumns = `id, code, user_id, partner_id, discount_rate, status, created_at, valid_until, used_at`

func scanCoupon(row pgx.Row) (domain.Coupon, error) {
	var (
		c      domain.Coupon
		status string
	)
	err := row.Scan(&c.ID, &c.Code, &c.UserID, &c.PartnerID, &c.DiscountRate,
		&status, &c.CreatedAt, &c.ValidUntil, &c.UsedAt)
	if err != nil {
		return domain.Coupon{}, err
	}
	c.Status = domain.CouponStatus(status)
	return c, nil
}

func (q *queries) InsertCoupon(ctx context.Context, coupon domain.Coupon) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO coupons (id, code, user_id, partner_id, discount_rate, status, created_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		coupon.ID, coupon.Code, coupon.UserID, coupon.PartnerID,
		coupon.DiscountRate, string(coupon.Status), coupon.CreatedAt, coupon.ValidUntil)
	return err
}

func (q *queries) GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error) {
	row := q.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)
	return scanCoupon(row)
}

// GetCouponByCodeForUpdate row-locks the coupon so a concurrent redemption of
// the same code blocks until this transaction decides.
func (q *queries) GetCouponByCodeForUpdate(ctx context.Context, code string) (domain.Coupon, error) {
	row := q.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1 FOR UPDATE`, code)
	return scanCoupon(row)
}

func (q *queries) MarkCouponUsed(ctx context.Context, code string, usedAt time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE coupons SET status = 'used', used_at = $2
		WHERE code = $1 AND status = 'valid'`,
		code, usedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *queries) ListCouponsByUser(ctx context.Context, userID string) ([]domain.Coupon, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+couponColumns+` FROM coupons
		WHERE user_id = $1
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var coupons []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// EnsureUser provisions the row backing grant and coupon foreign keys.
// Identity itself comes from the auth collaborator; this is just the anchor.
func (q *queries) EnsureUser(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO users (id, created_at) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`,
		userID, time.Now().UTC())
	return err
}

func (q *queries) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var (
		u      domain.User
		wallet *string
	)
	err := q.db.QueryRow(ctx,
		`SELECT id, wallet_address, created_at FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &wallet, &u.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if wallet != nil {
		u.WalletAddress = *wallet
	}
	return u, nil
}

func (q *queries) SetWalletAddress(ctx context.Context, userID, address string) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE users SET wallet_address = $2 WHERE id = $1`, userID, address)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
