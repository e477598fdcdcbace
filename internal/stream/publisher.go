package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"contentscale/internal/domain/models"
)

// Subscription delivers a user's generation events until its context ends.
type Subscription struct {
	ID      string
	UserID  int64
	Channel chan *models.GenerationEvent
}

// RedisPublisher fans generation events out over Redis pub/sub and appends
// them to a capped stream so late subscribers can catch up.
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger

	mu            sync.RWMutex
	subscriptions map[string]*Subscription
}

func NewRedisPublisher(client *redis.Client, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:        client,
		logger:        logger,
		subscriptions: make(map[string]*Subscription),
	}
}

func userChannel(userID int64) string {
	return fmt.Sprintf("generation_stream:%d", userID)
}

func userStreamKey(userID int64) string {
	return fmt.Sprintf("stream:generation:%d", userID)
}

// Publish assigns a per-user sequence number, broadcasts on the user channel
// and appends to the user's stream.
func (p *RedisPublisher) Publish(ctx context.Context, event *models.GenerationEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	seqKey := fmt.Sprintf("generation_seq:%d", event.UserID)
	seq, err := p.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment sequence: %w", err)
	}
	event.Sequence = seq

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal generation event: %w", err)
	}

	if err := p.client.Publish(ctx, userChannel(event.UserID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish generation event: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: userStreamKey(event.UserID),
		ID:     "*",
		Values: map[string]interface{}{
			"event_type": string(event.EventType),
			"content_id": event.ContentID,
			"sequence":   event.Sequence,
			"data":       string(data),
		},
		MaxLen: 1000,
	}).Result()
	if err != nil {
		p.logger.Warn("failed to append to generation stream", "error", err, "user_id", event.UserID)
	}

	return nil
}

// Subscribe tails the user's stream and pushes events onto the returned
// subscription channel. The channel closes when ctx is cancelled.
func (p *RedisPublisher) Subscribe(ctx context.Context, userID int64) (*Subscription, error) {
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	sub := &Subscription{
		ID:      uuid.New().String(),
		UserID:  userID,
		Channel: make(chan *models.GenerationEvent, 100),
	}

	p.mu.Lock()
	p.subscriptions[sub.ID] = sub
	p.mu.Unlock()

	streamKey := userStreamKey(userID)
	lastID := "$"

	go func() {
		defer func() {
			close(sub.Channel)
			p.mu.Lock()
			delete(p.subscriptions, sub.ID)
			p.mu.Unlock()
			p.logger.Debug("stream subscription closed", "subscription_id", sub.ID, "user_id", userID)
		}()

		backoff := time.Second

		for {
			if ctx.Err() != nil {
				return
			}

			res, err := p.client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{streamKey, lastID},
				Block:   5 * time.Second,
				Count:   100,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				time.Sleep(backoff)
				if backoff < 5*time.Second {
					backoff *= 2
				}
				continue
			}
			backoff = time.Second

			for _, stream := range res {
				if stream.Stream != streamKey {
					continue
				}
				for _, xmsg := range stream.Messages {
					lastID = xmsg.ID

					raw, ok := xmsg.Values["data"].(string)
					if !ok || raw == "" {
						continue
					}
					var event models.GenerationEvent
					if err := json.Unmarshal([]byte(raw), &event); err != nil {
						p.logger.Warn("failed to unmarshal generation event", "error", err, "user_id", userID)
						continue
					}

					select {
					case sub.Channel <- &event:
					case <-time.After(5 * time.Second):
						p.logger.Warn("slow subscriber, dropping event", "subscription_id", sub.ID, "event_type", string(event.EventType))
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return sub, nil
}

// History returns up to count recent events for the user, newest first.
func (p *RedisPublisher) History(ctx context.Context, userID int64, count int64) ([]*models.GenerationEvent, error) {
	result, err := p.client.XRevRangeN(ctx, userStreamKey(userID), "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream history: %w", err)
	}

	events := make([]*models.GenerationEvent, 0, len(result))
	for _, xmsg := range result {
		raw, ok := xmsg.Values["data"].(string)
		if !ok {
			continue
		}
		var event models.GenerationEvent
		if err := json.Unmarshal([]byte(raw), &event); err == nil {
			events = append(events, &event)
		}
	}
	return events, nil
}

func (p *RedisPublisher) ActiveSubscriptions() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscriptions)
}
