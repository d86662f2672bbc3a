package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/dto"
)

// DefaultLeaderboardTTL keeps leaderboard reads cheap while staying close to
// live: a freshly improved score shows up within this window at the latest.
const DefaultLeaderboardTTL = 30 * time.Second

// LeaderboardCache is a read-through cache for ranked leaderboard pages.
// A nil *LeaderboardCache is valid and behaves as a cache that always misses,
// which is how the service runs when redis is not configured.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultLeaderboardTTL
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Get returns the cached entries for key, or ok=false on miss. Redis errors
// count as misses; the database remains the source of truth.
func (c *LeaderboardCache) Get(ctx context.Context, key string) ([]dto.LeaderboardEntryDTO, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("leaderboard cache read failed")
		}
		return nil, false
	}
	var entries []dto.LeaderboardEntryDTO
	if err := json.Unmarshal(payload, &entries); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("leaderboard cache payload corrupt, dropping")
		c.client.Del(ctx, key)
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, key string, entries []dto.LeaderboardEntryDTO) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("leaderboard cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("leaderboard cache write failed")
	}
}
