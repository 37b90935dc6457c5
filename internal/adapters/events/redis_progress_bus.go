package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/entities"
	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/clients/redis"
)

// ImportProgressChannel is the Redis channel import progress is published on.
const ImportProgressChannel = "import:hospitals:progress"

const subscriberBuffer = 16

// RedisProgressBus carries import progress over Redis Pub/Sub so any API
// replica can stream a run started on another.
type RedisProgressBus struct {
	client *redisclient.Client
}

var (
	_ providers.ImportProgressPublisher  = (*RedisProgressBus)(nil)
	_ providers.ImportProgressSubscriber = (*RedisProgressBus)(nil)
)

// NewRedisProgressBus creates a new Redis-based progress bus
func NewRedisProgressBus(client *redisclient.Client) *RedisProgressBus {
	return &RedisProgressBus{client: client}
}

// PublishProgress publishes one progress event.
func (b *RedisProgressBus) PublishProgress(ctx context.Context, progress *entities.ImportProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := b.client.Client().Publish(ctx, ImportProgressChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish progress: %w", err)
	}
	return nil
}

// Subscribe returns once the subscription is confirmed by Redis, so events
// published afterwards are not missed. Slow readers drop events.
func (b *RedisProgressBus) Subscribe(ctx context.Context) (<-chan *entities.ImportProgress, error) {
	pubsub := b.client.Client().Subscribe(ctx, ImportProgressChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", ImportProgressChannel, err)
	}

	out := make(chan *entities.ImportProgress, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var progress entities.ImportProgress
				if err := json.Unmarshal([]byte(msg.Payload), &progress); err != nil {
					log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed progress event")
					continue
				}
				select {
				case out <- &progress:
				default:
					log.Warn().Str("run_id", progress.RunID).Msg("progress subscriber is full, dropping event")
				}
			}
		}
	}()

	return out, nil
}
