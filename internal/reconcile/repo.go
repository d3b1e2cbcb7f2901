package reconcile

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
)

const upsertBatchSize = 500

// Repository persists one reconciled upload atomically.
type Repository interface {
	ApplyReport(ctx context.Context, report *models.DebtorReport, debtors []models.Debtor) error
}

type repository struct {
	conn *gorm.DB
}

// NewRepository wires a reconcile repository over the shared connection.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

// debtorUpdateColumns are the mutable fields a newer upload overwrites.
var debtorUpdateColumns = []string{
	"customer_name",
	"current_balance",
	"d30",
	"d60",
	"d90",
	"d120",
	"d150",
	"d180",
	"total_outstanding",
	"email",
	"phone",
	"last_report_id",
	"last_updated",
}

// ApplyReport inserts the report row and upserts the debtor set in one
// transaction. Existing accounts keep their row identity across uploads; the
// medical-aid flag is sticky so a control account never silently re-enters
// collection listings.
func (r *repository) ApplyReport(ctx context.Context, report *models.DebtorReport, debtors []models.Debtor) error {
	return r.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("insert debtor report: %w", err)
		}
		if len(debtors) == 0 {
			return nil
		}
		onConflict := clause.OnConflict{
			Columns:   []clause.Column{{Name: "pharmacy_id"}, {Name: "account_number"}},
			DoUpdates: upsertAssignments(),
		}
		if err := tx.Clauses(onConflict).CreateInBatches(debtors, upsertBatchSize).Error; err != nil {
			return fmt.Errorf("upsert debtors: %w", err)
		}
		return nil
	})
}

func upsertAssignments() clause.Set {
	set := clause.AssignmentColumns(debtorUpdateColumns)
	set = append(set, clause.Assignment{
		Column: clause.Column{Name: "medical_aid_control"},
		Value:  gorm.Expr("debtors.medical_aid_control OR excluded.medical_aid_control"),
	})
	return set
}
