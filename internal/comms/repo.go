package comms

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// Repository appends and reads communication log rows. Rows are never
// updated or deleted here.
type Repository interface {
	Create(ctx context.Context, entry *models.CommunicationLog) error
	ListByDebtor(ctx context.Context, debtorID uuid.UUID, params pagination.Params) ([]models.CommunicationLog, int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a communication log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, entry *models.CommunicationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) ListByDebtor(ctx context.Context, debtorID uuid.UUID, params pagination.Params) ([]models.CommunicationLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.CommunicationLog{}).Where("debtor_id = ?", debtorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CommunicationLog
	err := r.db.WithContext(ctx).
		Where("debtor_id = ?", debtorID).
		Order("created_at DESC, id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
