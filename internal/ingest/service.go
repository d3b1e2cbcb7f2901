package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/metrics"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/textextract"
)

// UploadResult summarizes one ingested report for the upload response.
type UploadResult struct {
	ReportID         uuid.UUID       `json:"report_id"`
	TotalAccounts    int             `json:"total_accounts"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	FailedRowCount   int             `json:"failed_row_count"`
}

// Reconciler merges accepted candidates into the debtor store and records the
// report row, atomically and serialized per pharmacy.
type Reconciler interface {
	Reconcile(ctx context.Context, pharmacyID uuid.UUID, candidates []Candidate, failedRows int) (*models.DebtorReport, error)
}

// Service runs the ingestion pipeline for one uploaded document.
type Service interface {
	Upload(ctx context.Context, pharmacyID uuid.UUID, document []byte) (*UploadResult, error)
}

// ServiceParams wires ingestion dependencies.
type ServiceParams struct {
	Extractor  textextract.Extractor
	Segmenter  *Segmenter
	Reconciler Reconciler
	Metrics    *metrics.IngestMetrics
	Logger     *logger.Logger
}

type service struct {
	extractor  textextract.Extractor
	segmenter  *Segmenter
	reconciler Reconciler
	metrics    *metrics.IngestMetrics
	logg       *logger.Logger
}

// NewService validates and wires the ingestion pipeline.
func NewService(params ServiceParams) (Service, error) {
	if params.Extractor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "text extractor required")
	}
	if params.Segmenter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "segmenter required")
	}
	if params.Reconciler == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reconciler required")
	}
	return &service{
		extractor:  params.Extractor,
		segmenter:  params.Segmenter,
		reconciler: params.Reconciler,
		metrics:    params.Metrics,
		logg:       params.Logger,
	}, nil
}

func (s *service) Upload(ctx context.Context, pharmacyID uuid.UUID, document []byte) (*UploadResult, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	start := time.Now()
	pharmacyLabel := pharmacyID.String()
	if s.logg != nil {
		ctx = s.logg.WithPharmacyID(ctx, pharmacyLabel)
	}

	text, err := s.extractor.Extract(ctx, document)
	if err != nil {
		s.metrics.IncFailure(pharmacyLabel)
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeExtraction, err, "text extraction failed")
	}

	blocks, dropped := s.segmenter.Segment(text)
	failed := dropped

	candidates := make([]Candidate, 0, len(blocks))
	for _, block := range blocks {
		cand, err := ParseBlock(block)
		if err != nil {
			failed++
			reason := string(RejectionReasonOf(err))
			s.metrics.IncRejected(pharmacyLabel, reason)
			if s.logg != nil {
				s.logg.Debug(s.logg.WithField(ctx, "reason", reason), "report row rejected")
			}
			continue
		}
		cand.MedicalAidControl = IsMedicalAidControl(cand.CustomerName)
		candidates = append(candidates, *cand)
	}

	report, err := s.reconciler.Reconcile(ctx, pharmacyID, candidates, failed)
	if err != nil {
		s.metrics.IncFailure(pharmacyLabel)
		return nil, err
	}

	s.metrics.AddParsed(pharmacyLabel, len(candidates))
	s.metrics.ObserveUpload(pharmacyLabel, time.Since(start))

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"report_id":      report.ID.String(),
			"total_accounts": report.TotalAccounts,
			"failed_rows":    report.FailedRowCount,
		})
		s.logg.Info(ctx, "report ingested")
	}

	return &UploadResult{
		ReportID:         report.ID,
		TotalAccounts:    report.TotalAccounts,
		TotalOutstanding: report.TotalOutstanding,
		FailedRowCount:   report.FailedRowCount,
	}, nil
}
