package enums

import "fmt"

// AgeingBucket names one of the seven balance columns on a debtor row.
type AgeingBucket string

const (
	BucketCurrent AgeingBucket = "current"
	BucketD30     AgeingBucket = "d30"
	BucketD60     AgeingBucket = "d60"
	BucketD90     AgeingBucket = "d90"
	BucketD120    AgeingBucket = "d120"
	BucketD150    AgeingBucket = "d150"
	BucketD180    AgeingBucket = "d180"
)

// AgeingBuckets lists the buckets in report column order.
var AgeingBuckets = []AgeingBucket{
	BucketCurrent,
	BucketD30,
	BucketD60,
	BucketD90,
	BucketD120,
	BucketD150,
	BucketD180,
}

// IsValid checks whether the given bucket matches the canonical enum.
func (b AgeingBucket) IsValid() bool {
	for _, candidate := range AgeingBuckets {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseAgeingBucket converts raw strings into AgeingBucket.
func ParseAgeingBucket(value string) (AgeingBucket, error) {
	for _, candidate := range AgeingBuckets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ageing bucket %q", value)
}

// Column returns the debtors table column backing the bucket.
func (b AgeingBucket) Column() string {
	if b == BucketCurrent {
		return "current_balance"
	}
	return string(b)
}
