package pharmacies

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

type fakePharmacyRepo struct {
	created  *models.Pharmacy
	updated  *models.Pharmacy
	existing *models.Pharmacy
	rows     []models.Pharmacy
	total    int64
	removed  bool
	err      error
}

func (f *fakePharmacyRepo) Create(_ context.Context, pharmacy *models.Pharmacy) error {
	if f.err != nil {
		return f.err
	}
	f.created = pharmacy
	return nil
}

func (f *fakePharmacyRepo) Get(_ context.Context, _ uuid.UUID) (*models.Pharmacy, error) {
	return f.existing, f.err
}

func (f *fakePharmacyRepo) List(_ context.Context, _ pagination.Params) ([]models.Pharmacy, int64, error) {
	return f.rows, f.total, f.err
}

func (f *fakePharmacyRepo) Update(_ context.Context, pharmacy *models.Pharmacy) error {
	if f.err != nil {
		return f.err
	}
	f.updated = pharmacy
	return nil
}

func (f *fakePharmacyRepo) Delete(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.removed, f.err
}

func TestPharmacyCreate(t *testing.T) {
	repo := &fakePharmacyRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	email := "admin@pharmacy.example"
	created, err := svc.Create(context.Background(), CreateInput{
		Name:                "Main Street Pharmacy",
		ContactEmail:        &email,
		DeliveryCredentials: []byte("opaque-blob"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Main Street Pharmacy", created.Name)
	require.NotNil(t, repo.created)
	assert.Equal(t, []byte("opaque-blob"), repo.created.DeliveryCredentials)
}

func TestPharmacyCreateRequiresName(t *testing.T) {
	svc, err := NewService(&fakePharmacyRepo{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPharmacyGetNotFound(t *testing.T) {
	svc, err := NewService(&fakePharmacyRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestPharmacyUpdatePartial(t *testing.T) {
	phone := "0215551234"
	repo := &fakePharmacyRepo{existing: &models.Pharmacy{
		ID:           uuid.New(),
		Name:         "Old Name",
		ContactPhone: &phone,
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	newName := "New Name"
	updated, err := svc.Update(context.Background(), repo.existing.ID, UpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	require.NotNil(t, updated.ContactPhone)
	assert.Equal(t, phone, *updated.ContactPhone, "unset fields stay untouched")
	require.NotNil(t, repo.updated)
}

func TestPharmacyUpdateRejectsEmptyName(t *testing.T) {
	repo := &fakePharmacyRepo{existing: &models.Pharmacy{ID: uuid.New(), Name: "Old Name"}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(context.Background(), repo.existing.ID, UpdateInput{Name: &empty})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPharmacyDeleteNotFound(t *testing.T) {
	svc, err := NewService(&fakePharmacyRepo{removed: false})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeliveryCredentials(t *testing.T) {
	repo := &fakePharmacyRepo{existing: &models.Pharmacy{
		ID:                  uuid.New(),
		Name:                "Main Street Pharmacy",
		DeliveryCredentials: []byte("blob"),
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	blob, err := svc.DeliveryCredentials(context.Background(), repo.existing.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), blob)
}

func TestDeliveryCredentialsMissing(t *testing.T) {
	repo := &fakePharmacyRepo{existing: &models.Pharmacy{ID: uuid.New(), Name: "Main Street Pharmacy"}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.DeliveryCredentials(context.Background(), repo.existing.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestPharmacyListBuildsMeta(t *testing.T) {
	repo := &fakePharmacyRepo{
		rows:  []models.Pharmacy{{ID: uuid.New(), Name: "A"}},
		total: 9,
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	result, err := svc.List(context.Background(), pagination.Params{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(9), result.Meta.TotalMatching)
}
