package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// ListResult is one newest-first page of upload reports.
type ListResult struct {
	Items []models.DebtorReport `json:"items"`
	Meta  pagination.Meta       `json:"meta"`
}

// Service exposes the upload history for a pharmacy.
type Service interface {
	List(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, pharmacyID, reportID uuid.UUID) (*models.DebtorReport, error)
}

type service struct {
	repo Repository
}

// NewService wires the reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, pharmacyID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	rows, total, err := s.repo.List(ctx, pharmacyID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reports")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params, total)}, nil
}

func (s *service) Get(ctx context.Context, pharmacyID, reportID uuid.UUID) (*models.DebtorReport, error) {
	if pharmacyID == uuid.Nil || reportID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id and report id required")
	}

	report, err := s.repo.Get(ctx, pharmacyID, reportID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load report")
	}
	if report == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
	}
	return report, nil
}
