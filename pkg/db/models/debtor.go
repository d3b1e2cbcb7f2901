package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Debtor is the reconciled per-account entity, unique per
// (pharmacy_id, account_number). Every upload containing the account number
// overwrites the mutable fields; TotalOutstanding is always recomputed from the
// seven bucket balances.
type Debtor struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PharmacyID        uuid.UUID       `gorm:"column:pharmacy_id;type:uuid;not null;uniqueIndex:idx_debtors_pharmacy_account"`
	AccountNumber     string          `gorm:"column:account_number;not null;uniqueIndex:idx_debtors_pharmacy_account"`
	CustomerName      string          `gorm:"column:customer_name;not null;default:''"`
	CurrentBalance    decimal.Decimal `gorm:"column:current_balance;type:numeric(12,2);not null"`
	D30               decimal.Decimal `gorm:"column:d30;type:numeric(12,2);not null"`
	D60               decimal.Decimal `gorm:"column:d60;type:numeric(12,2);not null"`
	D90               decimal.Decimal `gorm:"column:d90;type:numeric(12,2);not null"`
	D120              decimal.Decimal `gorm:"column:d120;type:numeric(12,2);not null"`
	D150              decimal.Decimal `gorm:"column:d150;type:numeric(12,2);not null"`
	D180              decimal.Decimal `gorm:"column:d180;type:numeric(12,2);not null"`
	TotalOutstanding  decimal.Decimal `gorm:"column:total_outstanding;type:numeric(12,2);not null"`
	Email             *string         `gorm:"column:email"`
	Phone             *string         `gorm:"column:phone"`
	MedicalAidControl bool            `gorm:"column:medical_aid_control;not null;default:false"`
	LastReportID      *uuid.UUID      `gorm:"column:last_report_id;type:uuid"`
	LastUpdated       time.Time       `gorm:"column:last_updated;type:timestamptz;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Buckets returns the seven ageing balances in report column order.
func (d Debtor) Buckets() []decimal.Decimal {
	return []decimal.Decimal{d.CurrentBalance, d.D30, d.D60, d.D90, d.D120, d.D150, d.D180}
}

// SumBuckets recomputes the outstanding total from the bucket balances.
func (d Debtor) SumBuckets() decimal.Decimal {
	total := decimal.Zero
	for _, b := range d.Buckets() {
		total = total.Add(b)
	}
	return total
}
