package ingest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
)

// BucketCount is the number of ageing columns on a debtor row.
const BucketCount = 7

// Candidate is one provisionally parsed debtor row awaiting reconciliation.
type Candidate struct {
	AccountNumber     string
	CustomerName      string
	Buckets           [BucketCount]decimal.Decimal
	Email             *string
	Phone             *string
	MedicalAidControl bool
}

// TotalOutstanding sums the seven bucket balances.
func (c Candidate) TotalOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, b := range c.Buckets {
		total = total.Add(b)
	}
	return total
}

// RowError reports why a block was rejected during field extraction.
type RowError struct {
	Reason enums.RejectionReason
	Token  string
}

func (e *RowError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("row rejected: %s (token %q)", e.Reason, e.Token)
	}
	return fmt.Sprintf("row rejected: %s", e.Reason)
}

// RejectionReasonOf extracts the typed reason, or empty for other errors.
func RejectionReasonOf(err error) enums.RejectionReason {
	if re, ok := err.(*RowError); ok {
		return re.Reason
	}
	return ""
}
