package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyAdmin   = "anoncred:admin"
	redisKeyIssuers = "anoncred:issuers"
	redisKeyCounter = "anoncred:verifications"
	redisKeyRing    = "anoncred:ring:"
	redisKeyLock    = "anoncred:lock:registry"

	lockTTL      = 5 * time.Second
	lockRetry    = 20 * time.Millisecond
	lockAttempts = 50
)

// RedisStore keeps the engine state in Redis so several relay instances can
// share one authoritative registry, ring set and counter. Issuer mutations
// take a SETNX lock to linearize the check-then-append; ring writes and the
// counter are single commands and atomic on their own.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed state store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) InitAdmin(ctx context.Context, admin string) error {
	ok, err := s.client.SetNX(ctx, redisKeyAdmin, admin, 0).Result()
	if err != nil {
		return errors.Wrap(err, "failed to set admin")
	}
	if !ok {
		return anoncred.ErrAlreadyInitialized
	}
	return nil
}

func (s *RedisStore) Admin(ctx context.Context) (string, error) {
	admin, err := s.client.Get(ctx, redisKeyAdmin).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to get admin")
	}
	return admin, nil
}

func (s *RedisStore) AppendIssuer(ctx context.Context, pub []byte) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	encoded := hex.EncodeToString(pub)
	existing, err := s.client.LRange(ctx, redisKeyIssuers, 0, -1).Result()
	if err != nil {
		return errors.Wrap(err, "failed to read issuers")
	}
	for _, e := range existing {
		if e == encoded {
			return anoncred.ErrDuplicateIssuer
		}
	}
	if err := s.client.RPush(ctx, redisKeyIssuers, encoded).Err(); err != nil {
		return errors.Wrap(err, "failed to append issuer")
	}
	return nil
}

func (s *RedisStore) Issuers(ctx context.Context) ([][]byte, error) {
	encoded, err := s.client.LRange(ctx, redisKeyIssuers, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read issuers")
	}
	issuers := make([][]byte, len(encoded))
	for i, e := range encoded {
		if issuers[i], err = hex.DecodeString(e); err != nil {
			return nil, errors.Wrapf(err, "stored issuer %d is corrupt", i)
		}
	}
	return issuers, nil
}

func (s *RedisStore) HasIssuer(ctx context.Context, pub []byte) (bool, error) {
	encoded := hex.EncodeToString(pub)
	existing, err := s.client.LRange(ctx, redisKeyIssuers, 0, -1).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to read issuers")
	}
	for _, e := range existing {
		if e == encoded {
			return true, nil
		}
	}
	return false, nil
}

func (s *RedisStore) SaveRing(ctx context.Context, attribute string, members [][]byte) error {
	encoded := make([]string, len(members))
	for i, m := range members {
		encoded[i] = hex.EncodeToString(m)
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return errors.Wrap(err, "failed to marshal ring")
	}
	if err := s.client.Set(ctx, redisKeyRing+attribute, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save ring for attribute %q", attribute)
	}
	return nil
}

func (s *RedisStore) GetRing(ctx context.Context, attribute string) ([][]byte, error) {
	data, err := s.client.Get(ctx, redisKeyRing+attribute).Bytes()
	if err == redis.Nil {
		return nil, anoncred.ErrRingNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ring for attribute %q", attribute)
	}
	var encoded []string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, errors.Wrap(err, "stored ring is corrupt")
	}
	members := make([][]byte, len(encoded))
	for i, e := range encoded {
		if members[i], err = hex.DecodeString(e); err != nil {
			return nil, errors.Wrapf(err, "stored ring member %d is corrupt", i)
		}
	}
	return members, nil
}

func (s *RedisStore) IncrementVerifications(ctx context.Context) (uint64, error) {
	count, err := s.client.Incr(ctx, redisKeyCounter).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to increment verification counter")
	}
	return uint64(count), nil
}

func (s *RedisStore) VerificationCount(ctx context.Context) (uint64, error) {
	count, err := s.client.Get(ctx, redisKeyCounter).Uint64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to read verification counter")
	}
	return count, nil
}

func (s *RedisStore) acquireLock(ctx context.Context) (func(), error) {
	for i := 0; i < lockAttempts; i++ {
		ok, err := s.client.SetNX(ctx, redisKeyLock, "1", lockTTL).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to acquire registry lock")
		}
		if ok {
			return func() { s.client.Del(context.WithoutCancel(ctx), redisKeyLock) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetry):
		}
	}
	return nil, errors.New("timed out waiting for registry lock")
}
