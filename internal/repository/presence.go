package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 30 * time.Minute

// PresenceRepository хранит эфемерные множества "кто сейчас смотрит чат"
// в redis. Это не состояние сообщений: ключи живут с TTL и могут пропасть.
type PresenceRepository interface {
	Touch(ctx context.Context, chatID, userID uint) error
	Leave(ctx context.Context, chatID, userID uint) error
	Viewers(ctx context.Context, chatID uint) ([]uint, error)
}

type presenceRepository struct {
	rdb *redis.Client
}

func NewPresenceRepository(rdb *redis.Client) PresenceRepository {
	return &presenceRepository{rdb: rdb}
}

func (r *presenceRepository) viewersKey(chatID uint) string {
	return fmt.Sprintf("chat:%d:viewers", chatID)
}

func (r *presenceRepository) Touch(ctx context.Context, chatID, userID uint) error {
	key := r.viewersKey(chatID)

	if err := r.rdb.SAdd(ctx, key, userID).Err(); err != nil {
		return fmt.Errorf("failed to add viewer: %w", err)
	}

	if err := r.rdb.Expire(ctx, key, presenceTTL).Err(); err != nil {
		return fmt.Errorf("failed to set TTL: %w", err)
	}

	return nil
}

func (r *presenceRepository) Leave(ctx context.Context, chatID, userID uint) error {
	return r.rdb.SRem(ctx, r.viewersKey(chatID), userID).Err()
}

func (r *presenceRepository) Viewers(ctx context.Context, chatID uint) ([]uint, error) {
	members, err := r.rdb.SMembers(ctx, r.viewersKey(chatID)).Result()
	if err != nil {
		if err == redis.Nil {
			return []uint{}, nil
		}
		return nil, fmt.Errorf("failed to get viewers: %w", err)
	}

	viewers := make([]uint, 0, len(members))
	for _, member := range members {
		var userID uint
		if _, err := fmt.Sscanf(member, "%d", &userID); err == nil {
			viewers = append(viewers, userID)
		}
	}

	return viewers, nil
}
