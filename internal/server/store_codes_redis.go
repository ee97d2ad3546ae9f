package server

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teckzite/round2/internal/contest"
)

const codeKeyPrefix = "round2:unlock:"

// redeemScript deletes the key only when it still holds the submitted code.
var redeemScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCodeStore keeps one live code per session under a key that expires
// with the code.
type RedisCodeStore struct {
	rdb *redis.Client
}

func NewRedisCodeStore(rdb *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{rdb: rdb}
}

func codeKey(sessionID string) string {
	return codeKeyPrefix + contest.LookupKey(sessionID)
}

func (s *RedisCodeStore) Issue(ctx context.Context, code contest.UnlockCode, now time.Time) error {
	ttl := code.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return fmt.Errorf("unlock code already expired")
	}
	return s.rdb.Set(ctx, codeKey(code.SessionID), code.Code, ttl).Err()
}

func (s *RedisCodeStore) Redeem(ctx context.Context, sessionID, code string, _ time.Time) error {
	n, err := redeemScript.Run(ctx, s.rdb, []string{codeKey(sessionID)}, code).Int()
	if err != nil {
		return fmt.Errorf("redeeming code: %w", err)
	}
	if n == 0 {
		return contest.ErrInvalidCode
	}
	return nil
}

func (s *RedisCodeStore) DeleteAll(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, codeKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
