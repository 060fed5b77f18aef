package subscribers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// RedisStore keeps subscribers in a Redis set.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to addr and uses key as the set name.
func NewRedisStore(addr, key string) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), key)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load implements ports.SubscriberStore.
func (r *RedisStore) Load(ctx context.Context) ([]domain.RecipientID, error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", r.key, err)
	}
	ids := make([]domain.RecipientID, 0, len(members))
	for _, m := range members {
		id, err := domain.ParseRecipientID(m)
		if err != nil {
			return nil, fmt.Errorf("member %q of %s: %w", m, r.key, err)
		}
		ids = append(ids, id)
	}
	return domain.UniqueRecipients(ids...), nil
}

// Add implements ports.SubscriberStore.
func (r *RedisStore) Add(ctx context.Context, id domain.RecipientID) (bool, error) {
	n, err := r.client.SAdd(ctx, r.key, strconv.FormatInt(int64(id), 10)).Result()
	if err != nil {
		return false, fmt.Errorf("sadd %s: %w", r.key, err)
	}
	return n == 1, nil
}

// Ping implements ports.Pinger.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var (
	_ ports.SubscriberStore = (*RedisStore)(nil)
	_ ports.Pinger          = (*RedisStore)(nil)
)
