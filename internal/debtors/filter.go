package debtors

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
)

// Filter narrows a pharmacy's debtor set for listings and aggregates. The
// zero value matches every non-control account: medical-aid control rows are
// excluded unless ExcludeMedicalAid is explicitly false.
type Filter struct {
	// MinBalance keeps debtors whose overdue balance (d60 through d180)
	// meets the threshold.
	MinBalance *decimal.Decimal
	// AgeingBuckets keeps debtors with a non-zero balance in at least one of
	// the named buckets.
	AgeingBuckets []enums.AgeingBucket
	HasEmail      *bool
	HasPhone      *bool
	// Search matches name or account number, case-insensitive substring.
	Search            string
	ExcludeMedicalAid *bool
}

func (f Filter) excludesMedicalAid() bool {
	return f.ExcludeMedicalAid == nil || *f.ExcludeMedicalAid
}

// Validate rejects unknown ageing bucket names before they reach SQL.
func (f Filter) Validate() error {
	for _, bucket := range f.AgeingBuckets {
		if !bucket.IsValid() {
			return fmt.Errorf("unknown ageing bucket %q", bucket)
		}
	}
	return nil
}

const overdueExpr = "d60 + d90 + d120 + d150 + d180"

// apply attaches the filter conditions to a debtors query.
func (f Filter) apply(query *gorm.DB) *gorm.DB {
	if f.excludesMedicalAid() {
		query = query.Where("medical_aid_control = ?", false)
	}
	if f.MinBalance != nil {
		query = query.Where(overdueExpr+" >= ?", *f.MinBalance)
	}
	if len(f.AgeingBuckets) > 0 {
		conditions := make([]string, 0, len(f.AgeingBuckets))
		for _, bucket := range f.AgeingBuckets {
			conditions = append(conditions, bucket.Column()+" <> 0")
		}
		query = query.Where("(" + strings.Join(conditions, " OR ") + ")")
	}
	if f.HasEmail != nil {
		if *f.HasEmail {
			query = query.Where("email IS NOT NULL")
		} else {
			query = query.Where("email IS NULL")
		}
	}
	if f.HasPhone != nil {
		if *f.HasPhone {
			query = query.Where("phone IS NOT NULL")
		} else {
			query = query.Where("phone IS NULL")
		}
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("(LOWER(customer_name) LIKE ? OR LOWER(account_number) LIKE ?)", term, term)
	}
	return query
}
