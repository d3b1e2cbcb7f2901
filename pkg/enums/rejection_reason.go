package enums

// RejectionReason tags why a parsed report block was discarded.
type RejectionReason string

const (
	RejectionNoAccountNumber        RejectionReason = "no_account_number"
	RejectionAmbiguousAgeingColumns RejectionReason = "ambiguous_ageing_columns"
	RejectionMalformedAmount        RejectionReason = "malformed_amount"
)
