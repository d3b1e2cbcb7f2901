package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/config"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
)

const lockScope = "reconcile"

var errLockHeld = errors.New("reconcile lock held")

// lockStore is the subset of the redis client the lock needs.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope, id string) string
}

const lockBackoffCap = 2 * time.Second

// Locker serializes reconciliation per pharmacy with Redis SETNX + TTL.
// Contended acquires retry on capped exponential backoff before giving up.
type Locker struct {
	store       lockStore
	ttl         time.Duration
	maxAttempts uint64
	backoff     time.Duration
}

// NewLocker builds a pharmacy locker from the reconcile configuration,
// falling back to the configuration defaults for unset values.
func NewLocker(store lockStore, cfg config.ReconcileConfig) (*Locker, error) {
	if store == nil {
		return nil, errors.New("redis store required for reconcile lock")
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	attempts := cfg.LockMaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	backoff := cfg.LockBackoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &Locker{
		store:       store,
		ttl:         ttl,
		maxAttempts: uint64(attempts),
		backoff:     backoff,
	}, nil
}

// Lease is one held pharmacy lock. Release is owner-checked so a lease that
// expired mid-flight never deletes a lock another upload has since taken.
type Lease struct {
	store lockStore
	key   string
	owner string
}

// Acquire takes the pharmacy's reconcile lock. Exhausting the retry budget
// while another upload holds the lock yields RECONCILE_BUSY.
func (l *Locker) Acquire(ctx context.Context, pharmacyID uuid.UUID) (*Lease, error) {
	key := l.store.LockKey(lockScope, pharmacyID.String())
	owner := uuid.NewString()

	backoff := retry.WithMaxRetries(l.maxAttempts-1,
		retry.WithCappedDuration(lockBackoffCap, retry.NewExponential(l.backoff)))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
		if err != nil {
			return fmt.Errorf("setnx: %w", err)
		}
		if !ok {
			return retry.RetryableError(errLockHeld)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errLockHeld) {
			return nil, pkgerrors.New(pkgerrors.CodeReconcileBusy, "pharmacy reconciliation in progress")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire reconcile lock")
	}
	return &Lease{store: l.store, key: key, owner: owner}, nil
}

// Release frees the lock only while the owner value still matches.
func (le *Lease) Release(ctx context.Context) error {
	if le == nil || le.owner == "" {
		return nil
	}
	value, err := le.store.Get(ctx, le.key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != le.owner {
		return nil
	}
	if err := le.store.Del(ctx, le.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	le.owner = ""
	return nil
}
