package kafka

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jejupass/tour-passport-api/internal/config"
)

// EnsureTopics creates the event topics if they do not exist yet.
func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config) error {
	adm := kadm.NewClient(client)

	topics := []string{
		TopicBadgeIssued,
		TopicCouponGenerated,
		TopicCouponRedeemed,
		TopicWalletLinked,
	}

	partitions := int32(cfg.TopicPartitions())
	replicationFactor := cfg.ReplicationFactor()

	for _, topic := range topics {
		resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, topic)
		if err != nil {
			return fmt.Errorf("failed to create topic %s: %w", topic, err)
		}
		for _, detail := range resp {
			if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
				return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
			}
		}
	}

	log.Println("All topics ensured")
	return nil
}
