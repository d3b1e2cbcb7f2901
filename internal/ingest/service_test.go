package ingest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/metrics"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/textextract"
)

type fakeReconciler struct {
	pharmacyID uuid.UUID
	candidates []Candidate
	failedRows int
	err        error
}

func (f *fakeReconciler) Reconcile(_ context.Context, pharmacyID uuid.UUID, candidates []Candidate, failedRows int) (*models.DebtorReport, error) {
	f.pharmacyID = pharmacyID
	f.candidates = candidates
	f.failedRows = failedRows
	if f.err != nil {
		return nil, f.err
	}

	total := decimal.Zero
	for _, c := range candidates {
		total = total.Add(c.TotalOutstanding())
	}
	return &models.DebtorReport{
		ID:               uuid.New(),
		PharmacyID:       pharmacyID,
		TotalAccounts:    len(candidates),
		TotalOutstanding: total,
		FailedRowCount:   failedRows,
	}, nil
}

func newTestService(t *testing.T, extractor textextract.Extractor, rec Reconciler) Service {
	t.Helper()
	seg, err := NewSegmenter()
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Extractor:  extractor,
		Segmenter:  seg,
		Reconciler: rec,
		Metrics:    metrics.NewIngestMetrics(nil),
	})
	require.NoError(t, err)
	return svc
}

func TestUploadHappyPath(t *testing.T) {
	text := `DEBTORS AGE ANALYSIS
12345  J SMITH  100.00 50.00 0.00 0.00 0.00 0.00 0.00  j@x.com
67890  MEDAID CONTROL ACC  500.00 0.00 0.00 0.00 0.00 0.00 0.00`

	rec := &fakeReconciler{}
	svc := newTestService(t, textextract.StaticExtractor{Text: text}, rec)

	pharmacyID := uuid.New()
	result, err := svc.Upload(context.Background(), pharmacyID, []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, pharmacyID, rec.pharmacyID)
	require.Len(t, rec.candidates, 2)
	assert.Equal(t, "12345", rec.candidates[0].AccountNumber)
	assert.False(t, rec.candidates[0].MedicalAidControl)
	assert.Equal(t, "67890", rec.candidates[1].AccountNumber)
	assert.True(t, rec.candidates[1].MedicalAidControl)

	assert.Equal(t, 2, result.TotalAccounts)
	assert.Equal(t, 0, result.FailedRowCount)
	assert.True(t, result.TotalOutstanding.Equal(decimal.RequireFromString("650")))
	assert.NotEqual(t, uuid.Nil, result.ReportID)
}

// Every segmented group is accounted for exactly once: accepted candidates
// plus failed rows equals blocks plus dropped groups.
func TestUploadRowAccounting(t *testing.T) {
	text := `stray header fragment

12345  J SMITH  100.00 0.00 0.00 0.00 0.00 0.00 0.00
67891  B NAIDOO
67892  C DLAMINI  250.00 0.00 0.00 0.00 0.00 0.00 0.00`

	rec := &fakeReconciler{}
	svc := newTestService(t, textextract.StaticExtractor{Text: text}, rec)

	result, err := svc.Upload(context.Background(), uuid.New(), []byte("%PDF"))
	require.NoError(t, err)

	// 3 blocks + 1 dropped run; one block rejects with no amount columns
	assert.Equal(t, 2, result.TotalAccounts)
	assert.Equal(t, 2, result.FailedRowCount)
	assert.Equal(t, 4, result.TotalAccounts+result.FailedRowCount)
}

func TestUploadExtractionFailureAbortsCleanly(t *testing.T) {
	rec := &fakeReconciler{}
	svc := newTestService(t, textextract.StaticExtractor{Text: ""}, rec)

	_, err := svc.Upload(context.Background(), uuid.New(), []byte("garbage"))
	require.Error(t, err)
	assert.True(t, textextract.IsExtractionFailed(err))
	assert.Nil(t, rec.candidates)
	assert.Equal(t, uuid.Nil, rec.pharmacyID)
}

func TestUploadZeroValidRowsIsStillAReport(t *testing.T) {
	rec := &fakeReconciler{}
	svc := newTestService(t, textextract.StaticExtractor{Text: "DEBTORS AGE ANALYSIS\nPage 1"}, rec)

	result, err := svc.Upload(context.Background(), uuid.New(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalAccounts)
	assert.Equal(t, 0, result.FailedRowCount)
	assert.True(t, result.TotalOutstanding.IsZero())
}

func TestUploadReconcilerErrorPropagates(t *testing.T) {
	busy := pkgerrors.New(pkgerrors.CodeReconcileBusy, "locked")
	rec := &fakeReconciler{err: busy}
	svc := newTestService(t, textextract.StaticExtractor{Text: "12345 J SMITH 100.00"}, rec)

	_, err := svc.Upload(context.Background(), uuid.New(), []byte("%PDF"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeReconcileBusy, typed.Code())
}

func TestUploadRequiresPharmacyID(t *testing.T) {
	svc := newTestService(t, textextract.StaticExtractor{Text: "x"}, &fakeReconciler{})

	_, err := svc.Upload(context.Background(), uuid.Nil, []byte("%PDF"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	_, err = NewService(ServiceParams{Segmenter: seg, Reconciler: &fakeReconciler{}})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Extractor: textextract.StaticExtractor{Text: "x"}, Reconciler: &fakeReconciler{}})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Extractor: textextract.StaticExtractor{Text: "x"}, Segmenter: seg})
	assert.Error(t, err)
}
