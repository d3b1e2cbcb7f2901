package controllers

import (
	"net/http"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/middleware"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/responses"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/validators"
	commsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/comms"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

// SendStatement delivers a statement message to a debtor and records the
// attempt. Provider failures come back as a failed log entry, not an error.
func SendStatement(svc commsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "communication service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		debtorID, err := parseDebtorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload commsvc.SendRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.SendStatement(r.Context(), pharmacyID, debtorID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// DebtorCommunications lists past delivery attempts for a debtor.
func DebtorCommunications(svc commsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "communication service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		debtorID, err := parseDebtorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.History(r.Context(), pharmacyID, debtorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
