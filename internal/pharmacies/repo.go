package pharmacies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// Repository exposes persistence helpers for pharmacy tenants.
type Repository interface {
	Create(ctx context.Context, pharmacy *models.Pharmacy) error
	Get(ctx context.Context, pharmacyID uuid.UUID) (*models.Pharmacy, error)
	List(ctx context.Context, params pagination.Params) ([]models.Pharmacy, int64, error)
	Update(ctx context.Context, pharmacy *models.Pharmacy) error
	Delete(ctx context.Context, pharmacyID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a pharmacies repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, pharmacy *models.Pharmacy) error {
	return r.db.WithContext(ctx).Create(pharmacy).Error
}

func (r *repositoryImpl) Get(ctx context.Context, pharmacyID uuid.UUID) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	err := r.db.WithContext(ctx).Where("id = ?", pharmacyID).First(&pharmacy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pharmacy, nil
}

func (r *repositoryImpl) List(ctx context.Context, params pagination.Params) ([]models.Pharmacy, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Pharmacy{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Pharmacy
	err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) Update(ctx context.Context, pharmacy *models.Pharmacy) error {
	return r.db.WithContext(ctx).Save(pharmacy).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, pharmacyID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", pharmacyID).Delete(&models.Pharmacy{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
