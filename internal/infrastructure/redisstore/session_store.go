package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

const (
	fieldUserID    = "user_id"
	fieldEmail     = "email"
	fieldName      = "name"
	fieldSID       = "sid"
	fieldCSRF      = "csrf_token"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldCart      = "cart"
)

// SessionKey is the Redis hash holding a user's session and cart.
func SessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

// hsetIfExists writes fields only while the session is alive. HSET leaves
// the key's TTL untouched.
var hsetIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// Store keeps sessions as Redis hashes. The cart lives in the same hash.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *Store) Create(ctx context.Context, sess *entity.Session, ttl time.Duration) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	key := SessionKey(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		fieldUserID:    sess.UserID,
		fieldEmail:     sess.Email,
		fieldName:      sess.Name,
		fieldSID:       sess.SessionID,
		fieldCSRF:      sess.CSRFToken,
		fieldCreatedAt: sess.CreatedAt.Format(time.RFC3339Nano),
	})
	// a cart left from an earlier login survives
	pipe.HSetNX(ctx, key, fieldCart, "{}")
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID int64) (*entity.Session, error) {
	data, err := s.rdb.HGetAll(ctx, SessionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return parseSession(data)
}

func parseSession(data map[string]string) (*entity.Session, error) {
	if len(data) == 0 || data[fieldSID] == "" {
		return nil, repository.ErrNotFound
	}
	uid, err := strconv.ParseInt(data[fieldUserID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session user_id %q: %w", data[fieldUserID], err)
	}
	sess := &entity.Session{
		UserID:    uid,
		SessionID: data[fieldSID],
		Email:     data[fieldEmail],
		Name:      data[fieldName],
		CSRFToken: data[fieldCSRF],
	}
	if ts, err := time.Parse(time.RFC3339Nano, data[fieldCreatedAt]); err == nil {
		sess.CreatedAt = ts
	}
	return sess, nil
}

func (s *Store) Rotate(ctx context.Context, userID int64, sid string, ttl time.Duration) error {
	key := SessionKey(userID)
	ok, err := hsetIfExists.Run(ctx, s.rdb, []string{key}, fieldSID, sid, fieldUpdatedAt, nowRFC3339()).Int()
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if ok == 0 {
		return repository.ErrNotFound
	}
	return s.rdb.Expire(ctx, key, ttl).Err()
}

func (s *Store) SetName(ctx context.Context, userID int64, name string) error {
	_, err := hsetIfExists.Run(ctx, s.rdb, []string{SessionKey(userID)}, fieldName, name, fieldUpdatedAt, nowRFC3339()).Result()
	return err
}

func (s *Store) Delete(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, SessionKey(userID)).Err()
}

func (s *Store) LoadCart(ctx context.Context, userID int64) (*entity.Cart, error) {
	raw, err := s.rdb.HGet(ctx, SessionKey(userID), fieldCart).Result()
	if errors.Is(err, redis.Nil) {
		return entity.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return entity.DecodeCart(raw)
}

func (s *Store) SaveCart(ctx context.Context, userID int64, c *entity.Cart) error {
	b, err := c.MarshalJSON()
	if err != nil {
		return err
	}
	ok, err := hsetIfExists.Run(ctx, s.rdb, []string{SessionKey(userID)}, fieldCart, string(b)).Int()
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if ok == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var (
	_ repository.SessionStore = (*Store)(nil)
	_ repository.CartStore    = (*Store)(nil)
)
