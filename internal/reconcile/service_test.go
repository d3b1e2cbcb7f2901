package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/ingest"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/config"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
)

type fakeRepo struct {
	mu       sync.Mutex
	reports  []*models.DebtorReport
	debtors  [][]models.Debtor
	applyErr error

	inFlight  int32
	overlaps  int32
	applyWork time.Duration
}

func (f *fakeRepo) ApplyReport(_ context.Context, report *models.DebtorReport, debtors []models.Debtor) error {
	if !atomic.CompareAndSwapInt32(&f.inFlight, 0, 1) {
		atomic.AddInt32(&f.overlaps, 1)
	}
	if f.applyWork > 0 {
		time.Sleep(f.applyWork)
	}
	atomic.StoreInt32(&f.inFlight, 0)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.reports = append(f.reports, report)
	f.debtors = append(f.debtors, debtors)
	return nil
}

func candidate(account, name, current string) ingest.Candidate {
	c := ingest.Candidate{AccountNumber: account, CustomerName: name}
	c.Buckets[0] = decimal.RequireFromString(current)
	return c
}

func newTestReconciler(t *testing.T, repo Repository, store lockStore) Service {
	t.Helper()
	locker, err := NewLocker(store, quickLockConfig())
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Repo: repo, Locker: locker})
	require.NoError(t, err)
	return svc
}

func TestReconcileWritesReportAndDebtors(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeLockStore()
	svc := newTestReconciler(t, repo, store)

	pharmacyID := uuid.New()
	email := "smith@example.com"
	candidates := []ingest.Candidate{
		candidate("12345", "J SMITH", "100.00"),
		candidate("67890", "A JONES", "50.00"),
	}
	candidates[0].Email = &email
	candidates[1].MedicalAidControl = true

	report, err := svc.Reconcile(context.Background(), pharmacyID, candidates, 3)
	require.NoError(t, err)

	assert.Equal(t, pharmacyID, report.PharmacyID)
	assert.Equal(t, 2, report.TotalAccounts)
	assert.Equal(t, 3, report.FailedRowCount)
	assert.True(t, report.TotalOutstanding.Equal(decimal.RequireFromString("150")))
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.False(t, report.UploadedAt.IsZero())

	require.Len(t, repo.reports, 1)
	require.Len(t, repo.debtors, 1)
	rows := repo.debtors[0]
	require.Len(t, rows, 2)
	assert.Equal(t, "12345", rows[0].AccountNumber)
	require.NotNil(t, rows[0].Email)
	assert.Equal(t, email, *rows[0].Email)
	assert.True(t, rows[1].MedicalAidControl)
	for _, row := range rows {
		require.NotNil(t, row.LastReportID)
		assert.Equal(t, report.ID, *row.LastReportID)
		assert.True(t, row.TotalOutstanding.Equal(row.SumBuckets()))
	}

	// lock released after commit
	assert.False(t, store.held(store.LockKey(lockScope, pharmacyID.String())))
}

func TestReconcileDuplicateAccountLastWins(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestReconciler(t, repo, newFakeLockStore())

	candidates := []ingest.Candidate{
		candidate("12345", "J SMITH", "100.00"),
		candidate("67890", "A JONES", "50.00"),
		candidate("12345", "J SMITH", "70.00"),
	}

	report, err := svc.Reconcile(context.Background(), uuid.New(), candidates, 0)
	require.NoError(t, err)

	// every accepted candidate counts, even the superseded duplicate
	assert.Equal(t, 3, report.TotalAccounts)
	assert.True(t, report.TotalOutstanding.Equal(decimal.RequireFromString("120")))

	rows := repo.debtors[0]
	require.Len(t, rows, 2)
	assert.Equal(t, "12345", rows[0].AccountNumber)
	assert.True(t, rows[0].CurrentBalance.Equal(decimal.RequireFromString("70")))
}

func TestReconcileEmptyReportStillRecorded(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestReconciler(t, repo, newFakeLockStore())

	report, err := svc.Reconcile(context.Background(), uuid.New(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalAccounts)
	assert.Equal(t, 2, report.FailedRowCount)
	assert.True(t, report.TotalOutstanding.IsZero())
	require.Len(t, repo.reports, 1)
	assert.Empty(t, repo.debtors[0])
}

func TestReconcileBusyWhenLockHeld(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeLockStore()
	pharmacyID := uuid.New()
	store.data[store.LockKey(lockScope, pharmacyID.String())] = "other-upload"

	svc := newTestReconciler(t, repo, store)

	_, err := svc.Reconcile(context.Background(), pharmacyID, []ingest.Candidate{candidate("12345", "J SMITH", "1.00")}, 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeReconcileBusy, typed.Code())
	assert.Empty(t, repo.reports)
}

func TestReconcileReleasesLockOnRepoError(t *testing.T) {
	repo := &fakeRepo{applyErr: assert.AnError}
	store := newFakeLockStore()
	svc := newTestReconciler(t, repo, store)

	pharmacyID := uuid.New()
	_, err := svc.Reconcile(context.Background(), pharmacyID, []ingest.Candidate{candidate("12345", "J SMITH", "1.00")}, 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.False(t, store.held(store.LockKey(lockScope, pharmacyID.String())))
}

// Concurrent uploads for the same pharmacy serialize through the lock: the
// repository never sees two overlapping applies, and both commit eventually.
func TestReconcileSerializesPerPharmacy(t *testing.T) {
	repo := &fakeRepo{applyWork: 5 * time.Millisecond}
	store := newFakeLockStore()

	locker, err := NewLocker(store, config.ReconcileConfig{
		LockTTL:         time.Minute,
		LockMaxAttempts: 100,
		LockBackoff:     time.Millisecond,
	})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Repo: repo, Locker: locker})
	require.NoError(t, err)

	pharmacyID := uuid.New()
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reconcile(context.Background(), pharmacyID, []ingest.Candidate{
				candidate("12345", "J SMITH", "100.00"),
			}, 0)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(0), atomic.LoadInt32(&repo.overlaps))
	require.Len(t, repo.reports, 2)
	assert.NotEqual(t, repo.reports[0].ID, repo.reports[1].ID)
}

func TestReconcileRequiresPharmacyID(t *testing.T) {
	svc := newTestReconciler(t, &fakeRepo{}, newFakeLockStore())

	_, err := svc.Reconcile(context.Background(), uuid.Nil, nil, 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	locker, err := NewLocker(newFakeLockStore(), quickLockConfig())
	require.NoError(t, err)

	_, err = NewService(ServiceParams{Locker: locker})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Repo: &fakeRepo{}})
	assert.Error(t, err)
}
