package exam

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache provides Redis-backed caching of test reference data. Definitions
// are administered out of band and change rarely, so a short TTL is enough.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ListCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

const listKey = "tests:list"

func startKey(id uuid.UUID) string {
	return "tests:start:" + id.String()
}

func (c *Cache) GetList(ctx context.Context) ([]Summary, error) {
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var tests []Summary
	if err := json.Unmarshal(data, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

func (c *Cache) SetList(ctx context.Context, tests []Summary) error {
	data, err := json.Marshal(tests)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey, data, c.ttl).Err()
}

func (c *Cache) GetStart(ctx context.Context, id uuid.UUID) (*StartResponse, error) {
	data, err := c.client.Get(ctx, startKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var resp StartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Cache) SetStart(ctx context.Context, id uuid.UUID, resp StartResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, startKey(id), data, c.ttl).Err()
}
