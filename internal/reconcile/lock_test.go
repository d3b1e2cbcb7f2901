package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/config"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
)

type fakeLockStore struct {
	mu       sync.Mutex
	data     map[string]string
	denials  int
	setNXErr error
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{data: map[string]string{}}
}

func (f *fakeLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	if f.denials > 0 {
		f.denials--
		return false, nil
	}
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeLockStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeLockStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeLockStore) LockKey(scope, id string) string {
	return "pharm:lock:" + scope + ":" + id
}

func (f *fakeLockStore) held(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func quickLockConfig() config.ReconcileConfig {
	return config.ReconcileConfig{
		LockTTL:         time.Minute,
		LockMaxAttempts: 3,
		LockBackoff:     time.Millisecond,
	}
}

func TestLockerAcquireAndRelease(t *testing.T) {
	store := newFakeLockStore()
	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)

	pharmacyID := uuid.New()
	key := store.LockKey(lockScope, pharmacyID.String())

	lease, err := locker.Acquire(context.Background(), pharmacyID)
	require.NoError(t, err)
	assert.True(t, store.held(key))

	require.NoError(t, lease.Release(context.Background()))
	assert.False(t, store.held(key))

	// a released lock is immediately re-acquirable
	again, err := locker.Acquire(context.Background(), pharmacyID)
	require.NoError(t, err)
	require.NoError(t, again.Release(context.Background()))
}

func TestLockerRetriesThroughContention(t *testing.T) {
	store := newFakeLockStore()
	store.denials = 2
	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)

	lease, err := locker.Acquire(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
	assert.Equal(t, 0, store.denials)
}

func TestLockerBusyAfterExhaustion(t *testing.T) {
	store := newFakeLockStore()
	pharmacyID := uuid.New()
	store.data[store.LockKey(lockScope, pharmacyID.String())] = "someone-else"

	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), pharmacyID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeReconcileBusy, typed.Code())
	assert.True(t, pkgerrors.MetadataFor(typed.Code()).Retryable)
}

func TestLockerStoreErrorIsNotBusy(t *testing.T) {
	store := newFakeLockStore()
	store.setNXErr = assert.AnError

	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestLeaseReleaseSkipsForeignOwner(t *testing.T) {
	store := newFakeLockStore()
	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)

	pharmacyID := uuid.New()
	lease, err := locker.Acquire(context.Background(), pharmacyID)
	require.NoError(t, err)

	// simulate TTL expiry and takeover by a later upload
	key := store.LockKey(lockScope, pharmacyID.String())
	store.mu.Lock()
	store.data[key] = "new-owner"
	store.mu.Unlock()

	require.NoError(t, lease.Release(context.Background()))
	assert.True(t, store.held(key))
}

func TestLeaseReleaseIdempotent(t *testing.T) {
	store := newFakeLockStore()
	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)

	lease, err := locker.Acquire(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
	require.NoError(t, lease.Release(context.Background()))
}

func TestNewLockerRequiresStore(t *testing.T) {
	_, err := NewLocker(nil, quickLockConfig())
	require.Error(t, err)
}
