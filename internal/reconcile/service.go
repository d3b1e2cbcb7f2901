package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/internal/ingest"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

// Service merges parsed candidates into debtor state under the pharmacy lock.
type Service interface {
	Reconcile(ctx context.Context, pharmacyID uuid.UUID, candidates []ingest.Candidate, failedRows int) (*models.DebtorReport, error)
}

var _ ingest.Reconciler = Service(nil)

// ServiceParams wires reconciliation dependencies.
type ServiceParams struct {
	Repo   Repository
	Locker *Locker
	Logger *logger.Logger
}

type service struct {
	repo   Repository
	locker *Locker
	logg   *logger.Logger
}

// NewService validates and wires the reconciliation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("reconcile repository required")
	}
	if params.Locker == nil {
		return nil, errors.New("reconcile locker required")
	}
	return &service{
		repo:   params.Repo,
		locker: params.Locker,
		logg:   params.Logger,
	}, nil
}

// Reconcile serializes the merge per pharmacy, dedupes candidates with the
// last occurrence winning, and commits the report plus the debtor upserts as
// one transaction. An empty candidate set still records a report.
func (s *service) Reconcile(ctx context.Context, pharmacyID uuid.UUID, candidates []ingest.Candidate, failedRows int) (*models.DebtorReport, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	lease, err := s.locker.Acquire(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := lease.Release(ctx); releaseErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", releaseErr.Error()), "release reconcile lock failed")
		}
	}()

	winners := dedupe(candidates)
	now := time.Now().UTC()

	report := &models.DebtorReport{
		ID:               uuid.New(),
		PharmacyID:       pharmacyID,
		UploadedAt:       now,
		TotalAccounts:    len(candidates),
		TotalOutstanding: sumOutstanding(winners),
		FailedRowCount:   failedRows,
	}

	debtors := make([]models.Debtor, 0, len(winners))
	for _, c := range winners {
		debtors = append(debtors, debtorFromCandidate(pharmacyID, report.ID, now, c))
	}

	if err := s.repo.ApplyReport(ctx, report, debtors); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply reconciled report")
	}
	return report, nil
}

// dedupe keeps the last occurrence per account number, preserving the order
// in which accounts first appear in the report.
func dedupe(candidates []ingest.Candidate) []ingest.Candidate {
	index := make(map[string]int, len(candidates))
	winners := make([]ingest.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if i, ok := index[c.AccountNumber]; ok {
			winners[i] = c
			continue
		}
		index[c.AccountNumber] = len(winners)
		winners = append(winners, c)
	}
	return winners
}

func sumOutstanding(candidates []ingest.Candidate) decimal.Decimal {
	total := decimal.Zero
	for _, c := range candidates {
		total = total.Add(c.TotalOutstanding())
	}
	return total
}

func debtorFromCandidate(pharmacyID, reportID uuid.UUID, now time.Time, c ingest.Candidate) models.Debtor {
	rid := reportID
	return models.Debtor{
		ID:                uuid.New(),
		PharmacyID:        pharmacyID,
		AccountNumber:     c.AccountNumber,
		CustomerName:      c.CustomerName,
		CurrentBalance:    c.Buckets[0],
		D30:               c.Buckets[1],
		D60:               c.Buckets[2],
		D90:               c.Buckets[3],
		D120:              c.Buckets[4],
		D150:              c.Buckets[5],
		D180:              c.Buckets[6],
		TotalOutstanding:  c.TotalOutstanding(),
		Email:             c.Email,
		Phone:             c.Phone,
		MedicalAidControl: c.MedicalAidControl,
		LastReportID:      &rid,
		LastUpdated:       now,
	}
}
