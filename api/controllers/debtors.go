package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/middleware"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/responses"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/validators"
	debtorsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/debtors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

// ListDebtors returns the current debtor book, filtered and paged.
func ListDebtors(svc debtorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "debtor service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		filter, err := parseDebtorFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pharmacyID, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DebtorStats returns aggregate bucket totals over the filtered debtor book.
func DebtorStats(svc debtorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "debtor service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		filter, err := parseDebtorFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		aggregate, err := svc.Aggregate(r.Context(), pharmacyID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, aggregate)
	}
}

// GetDebtor returns a single debtor scoped to the pharmacy.
func GetDebtor(svc debtorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "debtor service unavailable"))
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

		debtor, err := svc.Get(r.Context(), pharmacyID, debtorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, debtor)
	}
}

// DeleteDebtor removes a debtor from the pharmacy's book.
func DeleteDebtor(svc debtorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "debtor service unavailable"))
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

		if err := svc.Delete(r.Context(), pharmacyID, debtorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseDebtorID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "debtorID")
	debtorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid debtor id")
	}
	return debtorID, nil
}

func parseDebtorFilter(r *http.Request) (debtorsvc.Filter, error) {
	var filter debtorsvc.Filter

	minBalance, err := validators.ParseQueryDecimal(r, "min_balance")
	if err != nil {
		return filter, err
	}
	filter.MinBalance = minBalance

	if raw := strings.TrimSpace(r.URL.Query().Get("ageing_buckets")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			bucket, err := enums.ParseAgeingBucket(strings.TrimSpace(part))
			if err != nil {
				return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ageing bucket").WithDetails(map[string]any{"field": "ageing_buckets"})
			}
			filter.AgeingBuckets = append(filter.AgeingBuckets, bucket)
		}
	}

	hasEmail, err := validators.ParseQueryBool(r, "has_email")
	if err != nil {
		return filter, err
	}
	filter.HasEmail = hasEmail

	hasPhone, err := validators.ParseQueryBool(r, "has_phone")
	if err != nil {
		return filter, err
	}
	filter.HasPhone = hasPhone

	filter.Search = strings.TrimSpace(r.URL.Query().Get("search"))

	excludeMedicalAid, err := validators.ParseQueryBool(r, "exclude_medical_aid")
	if err != nil {
		return filter, err
	}
	filter.ExcludeMedicalAid = excludeMedicalAid

	return filter, nil
}
