// Package cache keeps exhaustion windows in Redis so they survive relog and restarts.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/udisondev/otspells/internal/spell"
)

// Connect opens a Redis client and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis %s: %w", addr, err)
	}
	return client, nil
}

// CooldownStore implements spell.CooldownStore.
// Keys are exhaust:<owner>:<category>, values the deadline in unix millis.
// Keys expire together with the window.
type CooldownStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewCooldownStore creates a store over client.
func NewCooldownStore(client redis.Cmdable) *CooldownStore {
	return &CooldownStore{client: client, now: time.Now}
}

// SetClock replaces the time source.
func (s *CooldownStore) SetClock(now func() time.Time) {
	s.now = now
}

func cooldownKey(owner string, cat spell.Category) string {
	return "exhaust:" + owner + ":" + cat.String()
}

// Save persists a window. Windows already over are not written.
func (s *CooldownStore) Save(ctx context.Context, owner string, cat spell.Category, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	key := cooldownKey(owner, cat)
	if err := s.client.Set(ctx, key, until.UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Load returns the persisted windows of an owner. Missing keys are skipped.
func (s *CooldownStore) Load(ctx context.Context, owner string) (map[spell.Category]time.Time, error) {
	cats := spell.Categories()
	keys := make([]string, len(cats))
	for i, cat := range cats {
		keys[i] = cooldownKey(owner, cat)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("loading exhaustion of %q: %w", owner, err)
	}

	out := make(map[spell.Category]time.Time, len(cats))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		ms, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s=%q: %w", keys[i], str, err)
		}
		out[cats[i]] = time.UnixMilli(ms)
	}
	return out, nil
}
