package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// newTestRedisStore connects to TEST_REDIS_URL with a throwaway key prefix
func newTestRedisStore(t *testing.T) *RedisStore {
	return newTestRedisStoreWithTTL(t, time.Second)
}

func newTestRedisStoreWithTTL(t *testing.T, lockTTL time.Duration) *RedisStore {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, url, "", lockTTL)
	require.NoError(t, err)
	s.prefix = "chitfund-test:" + uuid.New().String() + ":"
	return s
}

func TestRedisStore(t *testing.T) {
	newTestRedisStore(t).Close()

	suite.Run(t, &LedgerStoreTestSuite{newStore: func() LedgerStore { return newTestRedisStore(t) }})
}

func TestRedisLockExcludesSecondHolder(t *testing.T) {
	s := newTestRedisStore(t)
	defer s.Close()

	unlock, err := s.Lock(context.Background(), LockKey("c1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = s.Lock(ctx, LockKey("c1"))
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock2, err := s.Lock(context.Background(), LockKey("c1"))
	require.NoError(t, err)
	unlock2()
}

func TestRedisLockOutlivesTTLWhileHeld(t *testing.T) {
	s := newTestRedisStoreWithTTL(t, 300*time.Millisecond)
	defer s.Close()

	unlock, err := s.Lock(context.Background(), LockKey("c1"))
	require.NoError(t, err)

	// hold well past the TTL; renewal keeps the key alive
	time.Sleep(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = s.Lock(ctx, LockKey("c1"))
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock()
	exists, err := s.client.Exists(context.Background(), s.prefix+LockKey("c1")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url", "", time.Second)
	assert.Error(t, err)
}
