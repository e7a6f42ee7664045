package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	errx "github.com/agadjuka/LookTown-cloud.ru/internal/core/error"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// RedisCheckpointRepository persists the durable conversation snapshot
// (stage and booking sub-state) as one JSON value per thread.
type RedisCheckpointRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCheckpointRepository(rdb redis.Cmdable, ttl time.Duration) *RedisCheckpointRepository {
	return &RedisCheckpointRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisCheckpointRepository) checkpointKey(threadID string) string {
	return fmt.Sprintf("thread:%s:checkpoint", threadID)
}

// Load returns (nil, nil) for a thread with no saved checkpoint so the
// caller can start a fresh conversation without treating it as a failure.
func (r *RedisCheckpointRepository) Load(ctx context.Context, threadID string) (*model.ConversationState, error) {
	key := r.checkpointKey(threadID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load checkpoint from redis")
		return nil, errx.WrapRedis(err)
	}

	var st model.ConversationState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Msg("failed to unmarshal checkpoint")
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &st, nil
}

func (r *RedisCheckpointRepository) Save(ctx context.Context, st *model.ConversationState) error {
	b, err := json.Marshal(st)
	if err != nil {
		logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("failed to marshal checkpoint")
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	key := r.checkpointKey(st.ThreadID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save checkpoint to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.CheckpointRepository = (*RedisCheckpointRepository)(nil)
