package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisRepository keeps sessions in Redis under session:<token> with a TTL
// equal to the remaining refresh token lifetime.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

type redisSession struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *RedisRepository) key(token string) string {
	return redisKeyPrefix + token
}

func (r *RedisRepository) Create(ctx context.Context, s *models.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	s.ID = uuid.NewString()
	s.CreatedAt = r.now().UTC()

	encoded, err := json.Marshal(redisSession{ID: s.ID, AccountID: s.AccountID, ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt})
	if err != nil {
		return err
	}

	// SetNX keeps token uniqueness equivalent to the postgres unique index.
	ok, err := r.client.SetNX(ctx, r.key(s.Token), encoded, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if !ok {
		return fmt.Errorf("redis error: %w", common.ErrorAlreadyExists)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, r.key(token)).Bytes()
	return r.decode(token, raw, err)
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Consume(ctx context.Context, token string) (*models.Session, error) {
	raw, err := r.client.GetDel(ctx, r.key(token)).Bytes()
	return r.decode(token, raw, err)
}

func (r *RedisRepository) decode(token string, raw []byte, err error) (*models.Session, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &models.Session{
		ID:        rs.ID,
		AccountID: rs.AccountID,
		Token:     token,
		ExpiresAt: rs.ExpiresAt,
		CreatedAt: rs.CreatedAt,
	}, nil
}
