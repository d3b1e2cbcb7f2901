package ingest

import "strings"

// controlMarkers are the name fragments identifying medical-aid control
// accounts: billing intermediaries whose balances must stay out of per-debtor
// totals. Matching is case-insensitive substring containment.
var controlMarkers = []string{
	"medical aid control",
	"medical-aid control",
	"med aid control",
	"medaid control",
	"medaid ctrl",
}

// IsMedicalAidControl reports whether the customer name marks a control
// account. Total function: any input yields a boolean, never an error.
func IsMedicalAidControl(name string) bool {
	lowered := strings.ToLower(name)
	for _, marker := range controlMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
