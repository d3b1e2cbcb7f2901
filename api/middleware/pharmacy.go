package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/responses"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

type contextKey string

const ctxPharmacyID contextKey = "pharmacy_id"

// PharmacyContext resolves the {pharmacyID} route parameter, attaches it to
// the request context and the request logger. Every tenant-scoped route sits
// behind it.
func PharmacyContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "pharmacyID")
			pharmacyID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pharmacy id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxPharmacyID, pharmacyID)
			if logg != nil {
				ctx = logg.WithPharmacyID(ctx, pharmacyID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PharmacyIDFromContext returns the pharmacy scope set by PharmacyContext.
func PharmacyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	if v, ok := ctx.Value(ctxPharmacyID).(uuid.UUID); ok {
		return v, true
	}
	return uuid.Nil, false
}
