package controllers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/middleware"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/api/responses"
	ingestsvc "github.com/Charldewet/pharmacy-api-webservice-sub001/internal/ingest"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/config"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

// UploadReport accepts a debtor ageing report, either as a multipart form
// with a "document" part or as a raw request body, and runs it through the
// ingestion pipeline.
func UploadReport(svc ingestsvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.Ingest.MaxUploadMB) << 20

	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
			return
		}

		pharmacyID, ok := middleware.PharmacyIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy context missing"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		document, err := readDocument(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(document) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "document is required"))
			return
		}

		result, err := svc.Upload(r.Context(), pharmacyID, document)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func readDocument(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("document")
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart field \"document\" is required")
		}
		defer file.Close()

		document, err := io.ReadAll(file)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded document")
		}
		return document, nil
	}

	document, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body")
	}
	return document, nil
}
