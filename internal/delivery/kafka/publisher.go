package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/usecase"
)

const schemaVersion = 1

// Publisher forwards domain events to Kafka. Publishing is best-effort:
// delivery failures are logged and never surfaced to the request that caused
// the event. Keys are chosen so events about one entity stay ordered.
type Publisher struct {
	client *kgo.Client
}

func NewPublisher(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) BadgeIssued(ctx context.Context, grant domain.BadgeGrant) {
	p.produce(ctx, TopicBadgeIssued, grant.UserID, BadgeIssuedEvent{
		SchemaVersion: schemaVersion,
		EventID:       uuid.New().String(),
		OccurredAt:    time.Now().UTC(),
		UserID:        grant.UserID,
		BadgeID:       grant.BadgeID.String(),
		IssuedAt:      grant.IssuedAt,
	})
}

func (p *Publisher) CouponGenerated(ctx context.Context, coupon domain.Coupon) {
	p.produce(ctx, TopicCouponGenerated, coupon.Code, CouponGeneratedEvent{
		SchemaVersion: schemaVersion,
		EventID:       uuid.New().String(),
		OccurredAt:    time.Now().UTC(),
		CouponCode:    coupon.Code,
		UserID:        coupon.UserID,
		PartnerID:     coupon.PartnerID.String(),
		DiscountRate:  coupon.DiscountRate,
		ValidUntil:    coupon.ValidUntil,
	})
}

func (p *Publisher) CouponRedeemed(ctx context.Context, redemption domain.Redemption) {
	p.produce(ctx, TopicCouponRedeemed, redemption.Coupon.Code, CouponRedeemedEvent{
		SchemaVersion:  schemaVersion,
		EventID:        uuid.New().String(),
		OccurredAt:     time.Now().UTC(),
		CouponCode:     redemption.Coupon.Code,
		UserID:         redemption.Coupon.UserID,
		PartnerID:      redemption.Coupon.PartnerID.String(),
		OriginalAmount: redemption.OriginalAmount,
		DiscountAmount: redemption.DiscountAmount,
		FinalAmount:    redemption.FinalAmount,
	})
}

func (p *Publisher) WalletLinked(ctx context.Context, user domain.User) {
	p.produce(ctx, TopicWalletLinked, user.ID, WalletLinkedEvent{
		SchemaVersion: schemaVersion,
		EventID:       uuid.New().String(),
		OccurredAt:    time.Now().UTC(),
		UserID:        user.ID,
		WalletAddress: user.WalletAddress,
	})
}

func (p *Publisher) produce(ctx context.Context, topic, key string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", topic, err)
		return
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			log.Printf("Failed to publish %s event: %v", topic, err)
		}
	})
}

var _ usecase.EventSink = (*Publisher)(nil)
