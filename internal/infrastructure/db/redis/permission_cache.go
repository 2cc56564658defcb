package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adminhub/access-control/internal/core/domain"
)

const defaultCacheTTL = 10 * time.Minute

// setIfGeneration writes KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation key counts as generation 0.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// PermissionCache stores effective permission matrices as JSON strings.
// Key format: perm:user:<user_id>, with the generation counter kept at
// perm:gen:<user_id>. Generation keys never expire.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPermissionCache wraps client. A non-positive ttl uses defaultCacheTTL.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &PermissionCache{client: client, ttl: ttl}
}

// Get reads the entry and the generation in one round trip.
func (c *PermissionCache) Get(ctx context.Context, userID string) (domain.PermissionMatrix, uint64, bool, error) {
	vals, err := c.client.MGet(ctx, c.key(userID), c.genKey(userID)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("permission cache get: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, false, fmt.Errorf("permission cache get: %w", err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var m domain.PermissionMatrix
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, gen, false, fmt.Errorf("permission cache decode: %w", err)
	}
	return m, gen, true, nil
}

func (c *PermissionCache) Set(ctx context.Context, userID string, gen uint64, m domain.PermissionMatrix) (bool, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return false, fmt.Errorf("permission cache encode: %w", err)
	}

	keys := []string{c.key(userID), c.genKey(userID)}
	n, err := setIfGeneration.Run(ctx, c.client, keys, strconv.FormatUint(gen, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("permission cache set: %w", err)
	}
	return n == 1, nil
}

// Invalidate bumps each user's generation and drops the entry in one
// transaction.
func (c *PermissionCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, c.genKey(id))
			pipe.Del(ctx, c.key(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("permission cache invalidate: %w", err)
	}
	return nil
}

func (c *PermissionCache) key(userID string) string {
	return "perm:user:" + userID
}

func (c *PermissionCache) genKey(userID string) string {
	return "perm:gen:" + userID
}

func parseGeneration(v any) (uint64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad generation %q: %w", s, err)
	}
	return gen, nil
}
