package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	errx "github.com/agadjuka/LookTown-cloud.ru/internal/core/error"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
)

// RedisHistoryRepository stores the conversation log as a Redis list of
// JSON-encoded messages, newest at the tail.
type RedisHistoryRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisHistoryRepository(rdb redis.Cmdable, ttl time.Duration) *RedisHistoryRepository {
	return &RedisHistoryRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisHistoryRepository) historyKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:messages", conversationID)
}

func (r *RedisHistoryRepository) Append(ctx context.Context, conversationID string, message *schema.Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	key := r.historyKey(conversationID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push message to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on conversation key")
		}
	}
	return nil
}

// LoadRecent returns up to limit of the newest messages in chronological
// order. A missing key is an empty history, not an error.
func (r *RedisHistoryRepository) LoadRecent(ctx context.Context, conversationID string, limit int) ([]*schema.Message, error) {
	key := r.historyKey(conversationID)

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	rows, err := r.rdb.LRange(ctx, key, start, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*schema.Message{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

func (r *RedisHistoryRepository) Count(ctx context.Context, conversationID string) (int, error) {
	key := r.historyKey(conversationID)
	n, err := r.rdb.LLen(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to get message count from redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.HistoryRepository = (*RedisHistoryRepository)(nil)
