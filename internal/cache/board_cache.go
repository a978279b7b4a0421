// internal/cache/board_cache.go
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
)

// BoardCache keeps rendered boards in Redis. A nil client turns every call
// into a no-op, so the service runs without Redis.
type BoardCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewBoardCache(client *redis.Client, ttl time.Duration) *BoardCache {
	if ttl < 0 {
		ttl = 0
	}
	return &BoardCache{redis: client, ttl: ttl}
}

// Load returns the cached board of a project
func (c *BoardCache) Load(ctx context.Context, projectID string) (*boardv1.GetBoardResponse, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	key := boardCacheKey(projectID)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("project_id", projectID).Warn("board cache read failed")
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}
	var resp boardv1.GetBoardResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return &resp, true
}

// Generation returns the project's write counter. Pass it to Store so a
// board read before a concurrent write is not cached. A negative value
// means the counter could not be read and Store will skip.
func (c *BoardCache) Generation(ctx context.Context, projectID string) int64 {
	if c == nil || c.redis == nil {
		return -1
	}
	gen, err := c.redis.Get(ctx, generationKey(projectID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		log.WithError(err).WithField("project_id", projectID).Warn("board cache generation read failed")
		return -1
	}
	return gen
}

// Store caches a board until the TTL expires or a write evicts it. The
// board is dropped when the generation moved since gen was read.
func (c *BoardCache) Store(ctx context.Context, projectID string, gen int64, resp *boardv1.GetBoardResponse) {
	if c == nil || c.redis == nil || c.ttl == 0 || resp == nil || gen < 0 {
		return
	}
	data, err := sonic.Marshal(resp)
	if err != nil {
		return
	}

	genKey := generationKey(projectID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, boardCacheKey(projectID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		log.WithField("project_id", projectID).Debug("board changed while loading, not cached")
	default:
		log.WithError(err).WithField("project_id", projectID).Warn("board cache write failed")
	}
}

// Evict drops the cached board after a write and bumps the generation so
// reads already in flight do not store stale data
func (c *BoardCache) Evict(ctx context.Context, projectID string) {
	if c == nil || c.redis == nil {
		return
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(projectID))
		pipe.Del(ctx, boardCacheKey(projectID))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("project_id", projectID).Warn("board cache evict failed")
	}
}

var errStale = errors.New("board cache: generation changed")

func boardCacheKey(projectID string) string {
	return "board:" + projectID
}

func generationKey(projectID string) string {
	return "board:" + projectID + ":gen"
}
