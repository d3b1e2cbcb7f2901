package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// Repository reads the append-only upload audit trail.
type Repository interface {
	List(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) ([]models.DebtorReport, int64, error)
	Get(ctx context.Context, pharmacyID, reportID uuid.UUID) (*models.DebtorReport, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) List(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) ([]models.DebtorReport, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.DebtorReport{}).Where("pharmacy_id = ?", pharmacyID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.DebtorReport
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Order("uploaded_at DESC, id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) Get(ctx context.Context, pharmacyID, reportID uuid.UUID) (*models.DebtorReport, error) {
	var report models.DebtorReport
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, reportID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}
