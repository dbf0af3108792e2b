package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the lock only if it is still held by the caller's token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the lock's expiry only while the caller's token still holds it
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisStore keeps ledger keys in Redis so several API instances can share one ledger.
// It also acts as a distributed Locker.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	lockTTL   time.Duration
	retryWait time.Duration
}

// NewRedisStore connects to the Redis server at url and verifies the connection
func NewRedisStore(ctx context.Context, url, password string, lockTTL time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, lockTTL), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, lockTTL time.Duration) *RedisStore {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &RedisStore{
		client:    client,
		prefix:    "chitfund:",
		lockTTL:   lockTTL,
		retryWait: 50 * time.Millisecond,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Lock acquires key with SET NX PX, polling until ctx is done
func (s *RedisStore) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	lockKey := s.prefix + key

	for {
		ok, err := s.client.SetNX(ctx, lockKey, token, s.lockTTL).Result()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			stop := make(chan struct{})
			stopped := make(chan struct{})
			go s.keepAlive(lockKey, token, stop, stopped)

			var once sync.Once
			return func() {
				once.Do(func() {
					close(stop)
					<-stopped
					// release with a fresh context so a cancelled request still frees the lock
					releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					unlockScript.Run(releaseCtx, s.client, []string{lockKey}, token)
				})
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(s.retryWait):
		}
	}
}

// keepAlive extends a held lock every third of its TTL until stop is closed, so a mutation
// slower than the TTL keeps its exclusion. It gives up once the token no longer owns the key.
func (s *RedisStore) keepAlive(lockKey, token string, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	interval := s.lockTTL / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			held, err := extendScript.Run(ctx, s.client, []string{lockKey}, token, s.lockTTL.Milliseconds()).Int()
			cancel()
			if err == nil && held == 0 {
				return
			}
		}
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
