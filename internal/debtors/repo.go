package debtors

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// Aggregate is the reduction over a filtered debtor set: per-bucket sums, the
// grand total, and the surviving account count.
type Aggregate struct {
	AccountCount     int64           `json:"account_count"`
	CurrentBalance   decimal.Decimal `json:"current"`
	D30              decimal.Decimal `json:"d30"`
	D60              decimal.Decimal `json:"d60"`
	D90              decimal.Decimal `json:"d90"`
	D120             decimal.Decimal `json:"d120"`
	D150             decimal.Decimal `json:"d150"`
	D180             decimal.Decimal `json:"d180"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// Repository exposes persistence helpers for reconciled debtors.
type Repository interface {
	List(ctx context.Context, pharmacyID uuid.UUID, filter Filter, params pagination.Params) ([]models.Debtor, int64, error)
	Aggregate(ctx context.Context, pharmacyID uuid.UUID, filter Filter) (*Aggregate, error)
	Get(ctx context.Context, pharmacyID, debtorID uuid.UUID) (*models.Debtor, error)
	Delete(ctx context.Context, pharmacyID, debtorID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a debtors repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// listOrder keeps pages deterministic: repeated calls against an unchanged
// store return identical slices.
const listOrder = "total_outstanding DESC, account_number ASC"

func (r *repositoryImpl) filtered(ctx context.Context, pharmacyID uuid.UUID, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Debtor{}).Where("pharmacy_id = ?", pharmacyID)
	return filter.apply(query)
}

func (r *repositoryImpl) List(ctx context.Context, pharmacyID uuid.UUID, filter Filter, params pagination.Params) ([]models.Debtor, int64, error) {
	var total int64
	if err := r.filtered(ctx, pharmacyID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Debtor
	err := r.filtered(ctx, pharmacyID, filter).
		Order(listOrder).
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) Aggregate(ctx context.Context, pharmacyID uuid.UUID, filter Filter) (*Aggregate, error) {
	var agg Aggregate
	err := r.filtered(ctx, pharmacyID, filter).
		Select(`COUNT(*) AS account_count,
			COALESCE(SUM(current_balance), 0) AS current_balance,
			COALESCE(SUM(d30), 0) AS d30,
			COALESCE(SUM(d60), 0) AS d60,
			COALESCE(SUM(d90), 0) AS d90,
			COALESCE(SUM(d120), 0) AS d120,
			COALESCE(SUM(d150), 0) AS d150,
			COALESCE(SUM(d180), 0) AS d180,
			COALESCE(SUM(total_outstanding), 0) AS total_outstanding`).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *repositoryImpl) Get(ctx context.Context, pharmacyID, debtorID uuid.UUID) (*models.Debtor, error) {
	var debtor models.Debtor
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, debtorID).
		First(&debtor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &debtor, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, pharmacyID, debtorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, debtorID).
		Delete(&models.Debtor{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
