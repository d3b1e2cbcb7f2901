package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/middleware"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/responses"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/validators"
	reportsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/reports"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

// ListReports returns the pharmacy's upload history, newest first.
func ListReports(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pharmacyID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetReport returns a single report's summary row.
func GetReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		reportID, err := uuid.Parse(chi.URLParam(r, "reportID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid report id"))
			return
		}

		report, err := svc.Get(r.Context(), pharmacyID, reportID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
