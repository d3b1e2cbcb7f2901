package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtorReport records one successful upload. Rows are insert-only and serve as
// an audit trail; current debtor state lives on Debtor.
type DebtorReport struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PharmacyID       uuid.UUID       `gorm:"column:pharmacy_id;type:uuid;not null;index"`
	UploadedAt       time.Time       `gorm:"column:uploaded_at;type:timestamptz;not null"`
	TotalAccounts    int             `gorm:"column:total_accounts;not null"`
	TotalOutstanding decimal.Decimal `gorm:"column:total_outstanding;type:numeric(12,2);not null"`
	FailedRowCount   int             `gorm:"column:failed_row_count;not null"`
}
