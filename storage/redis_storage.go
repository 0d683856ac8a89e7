package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChangeChannel is the pub/sub channel carrying Change notifications.
const ChangeChannel = "storefront:storage"

type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
	origin string
	logger *zap.Logger
}

// NewRedisStorage stores keys with ttl; origin tags published changes with this instance.
func NewRedisStorage(client *redis.Client, ttl time.Duration, origin string, logger *zap.Logger) *RedisStorage {
	return &RedisStorage{
		client: client,
		ttl:    ttl,
		origin: origin,
		logger: logger,
	}
}

// NewRedisClient parses url and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *RedisStorage) getKey(sessionID, key string) string {
	return fmt.Sprintf("storefront:%s:%s", sessionID, key)
}

func (r *RedisStorage) Get(ctx context.Context, sessionID, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisStorage) Set(ctx context.Context, sessionID, key, value string) error {
	if err := r.client.Set(ctx, r.getKey(sessionID, key), value, r.ttl).Err(); err != nil {
		return err
	}
	r.publish(ctx, sessionID, key)
	return nil
}

func (r *RedisStorage) Remove(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.getKey(sessionID, k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return err
	}
	for _, k := range keys {
		r.publish(ctx, sessionID, k)
	}
	return nil
}

// publish is best-effort: the write already succeeded.
func (r *RedisStorage) publish(ctx context.Context, sessionID, key string) {
	msg, _ := json.Marshal(Change{SessionID: sessionID, Key: key, Origin: r.origin})
	if err := r.client.Publish(ctx, ChangeChannel, msg).Err(); err != nil {
		r.logger.Warn("failed to publish storage change",
			zap.String("session_id", sessionID),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (r *RedisStorage) Watch(ctx context.Context) (<-chan Change, error) {
	sub := r.client.Subscribe(ctx, ChangeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", ChangeChannel, err)
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					r.logger.Warn("dropping malformed storage change", zap.String("payload", msg.Payload))
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
