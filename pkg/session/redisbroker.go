package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroker publishes change signals both to local subscribers and to a
// Redis pub/sub channel. Listen forwards signals from other processes to the
// local subscribers; this process's own signals are not delivered twice.
type RedisBroker struct {
	*LocalBroker
	client  redis.UniversalClient
	channel string
	logger  *zap.Logger
}

func NewRedisBroker(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{
		LocalBroker: NewLocalBroker(),
		client:      client,
		channel:     channel,
		logger:      logger,
	}
}

// ChannelName returns the pub/sub channel paired with a session hash key
func ChannelName(hashKey string) string {
	return hashKey + ":changes"
}

func (b *RedisBroker) Publish(ctx context.Context, sig Signal) error {
	if sig.Origin == "" {
		sig.Origin = b.Origin()
	}
	if sig.At.IsZero() {
		sig.At = time.Now()
	}
	b.deliver(sig)

	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("failed to encode signal: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish signal: %w", err)
	}
	return nil
}

// Listen blocks, forwarding signals published by other processes until ctx is done
func (b *RedisBroker) Listen(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	b.logger.Debug("Listening for session changes", zap.String("channel", b.channel))

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var sig Signal
			if err := json.Unmarshal([]byte(msg.Payload), &sig); err != nil {
				b.logger.Warn("Ignoring malformed session signal", zap.Error(err))
				continue
			}
			if sig.Origin == b.Origin() {
				continue
			}
			b.logger.Debug("Session changed in another process",
				zap.String("origin", sig.Origin),
				zap.String("reason", sig.Reason))
			b.deliver(sig)
		}
	}
}
