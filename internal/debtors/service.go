package debtors

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// ListResult is one stable-ordered page of debtors plus its page metadata.
type ListResult struct {
	Items []models.Debtor `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// Service serves filtered debtor views and ageing aggregates.
type Service interface {
	List(ctx context.Context, pharmacyID uuid.UUID, filter Filter, params pagination.Params) (*ListResult, error)
	Aggregate(ctx context.Context, pharmacyID uuid.UUID, filter Filter) (*Aggregate, error)
	Get(ctx context.Context, pharmacyID, debtorID uuid.UUID) (*models.Debtor, error)
	Delete(ctx context.Context, pharmacyID, debtorID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires the debtors service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("debtors repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, pharmacyID uuid.UUID, filter Filter, params pagination.Params) (*ListResult, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	if err := filter.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid debtor filter")
	}

	rows, total, err := s.repo.List(ctx, pharmacyID, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list debtors")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params, total)}, nil
}

func (s *service) Aggregate(ctx context.Context, pharmacyID uuid.UUID, filter Filter) (*Aggregate, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}
	if err := filter.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid debtor filter")
	}

	agg, err := s.repo.Aggregate(ctx, pharmacyID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate debtors")
	}
	return agg, nil
}

func (s *service) Get(ctx context.Context, pharmacyID, debtorID uuid.UUID) (*models.Debtor, error) {
	if pharmacyID == uuid.Nil || debtorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id and debtor id required")
	}

	debtor, err := s.repo.Get(ctx, pharmacyID, debtorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load debtor")
	}
	if debtor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "debtor not found")
	}
	return debtor, nil
}

// Delete removes one debtor by administrative request. Normal reconciliation
// never deletes rows.
func (s *service) Delete(ctx context.Context, pharmacyID, debtorID uuid.UUID) error {
	if pharmacyID == uuid.Nil || debtorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id and debtor id required")
	}

	removed, err := s.repo.Delete(ctx, pharmacyID, debtorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete debtor")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "debtor not found")
	}
	return nil
}
