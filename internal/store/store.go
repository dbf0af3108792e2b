package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("key not found")
	ErrLockTimeout = errors.New("timed out waiting for ledger lock")
)

// LedgerStore is the durable key-value space the ledger lives in.
// Implementations must give read-your-writes consistency for a single key.
type LedgerStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Locker serializes read-modify-write cycles on a key
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

const (
	// CommitteeIndexKey holds the JSON array of every committee id
	CommitteeIndexKey = "committees"
)

func CommitteeKey(id string) string {
	return fmt.Sprintf("committee:%s", id)
}

func PaymentsKey(committeeID string) string {
	return fmt.Sprintf("payments:%s", committeeID)
}

func LateFeeSettingsKey(committeeID string) string {
	return fmt.Sprintf("lateFeeSettings:%s", committeeID)
}

// LockKey is the key mutations of one committee serialize on
func LockKey(committeeID string) string {
	return fmt.Sprintf("lock:committee:%s", committeeID)
}
