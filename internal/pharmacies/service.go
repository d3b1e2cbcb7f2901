package pharmacies

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// CreateInput holds the administrative fields for a new pharmacy tenant. The
// credentials blob arrives already encrypted; the core stores it opaque.
type CreateInput struct {
	Name                string  `json:"name" validate:"required"`
	ContactEmail        *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone        *string `json:"contact_phone"`
	DeliveryCredentials []byte  `json:"delivery_credentials"`
}

// UpdateInput carries partial administrative updates; nil fields are left
// untouched.
type UpdateInput struct {
	Name                *string `json:"name"`
	ContactEmail        *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone        *string `json:"contact_phone"`
	DeliveryCredentials []byte  `json:"delivery_credentials"`
}

// ListResult is one page of pharmacy tenants.
type ListResult struct {
	Items []models.Pharmacy `json:"items"`
	Meta  pagination.Meta   `json:"meta"`
}

// Service manages pharmacy tenants. Identity is immutable; only
// administrative updates mutate a pharmacy, never report ingestion.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Pharmacy, error)
	Get(ctx context.Context, pharmacyID uuid.UUID) (*models.Pharmacy, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, pharmacyID uuid.UUID, input UpdateInput) (*models.Pharmacy, error)
	Delete(ctx context.Context, pharmacyID uuid.UUID) error
	DeliveryCredentials(ctx context.Context, pharmacyID uuid.UUID) ([]byte, error)
}

type service struct {
	repo Repository
}

// NewService wires the pharmacies service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("pharmacies repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Pharmacy, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy name required")
	}

	pharmacy := &models.Pharmacy{
		ID:                  uuid.New(),
		Name:                input.Name,
		ContactEmail:        input.ContactEmail,
		ContactPhone:        input.ContactPhone,
		DeliveryCredentials: input.DeliveryCredentials,
	}
	if err := s.repo.Create(ctx, pharmacy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pharmacy")
	}
	return pharmacy, nil
}

func (s *service) Get(ctx context.Context, pharmacyID uuid.UUID) (*models.Pharmacy, error) {
	if pharmacyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	pharmacy, err := s.repo.Get(ctx, pharmacyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pharmacy")
	}
	if pharmacy == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
	}
	return pharmacy, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pharmacies")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params, total)}, nil
}

func (s *service) Update(ctx context.Context, pharmacyID uuid.UUID, input UpdateInput) (*models.Pharmacy, error) {
	pharmacy, err := s.Get(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy name required")
		}
		pharmacy.Name = *input.Name
	}
	if input.ContactEmail != nil {
		pharmacy.ContactEmail = input.ContactEmail
	}
	if input.ContactPhone != nil {
		pharmacy.ContactPhone = input.ContactPhone
	}
	if input.DeliveryCredentials != nil {
		pharmacy.DeliveryCredentials = input.DeliveryCredentials
	}

	if err := s.repo.Update(ctx, pharmacy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pharmacy")
	}
	return pharmacy, nil
}

func (s *service) Delete(ctx context.Context, pharmacyID uuid.UUID) error {
	if pharmacyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id required")
	}

	removed, err := s.repo.Delete(ctx, pharmacyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pharmacy")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found")
	}
	return nil
}

// DeliveryCredentials returns the opaque provider credential blob for the
// delivery collaborators.
func (s *service) DeliveryCredentials(ctx context.Context, pharmacyID uuid.UUID) ([]byte, error) {
	pharmacy, err := s.Get(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	if len(pharmacy.DeliveryCredentials) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pharmacy has no delivery credentials configured")
	}
	return pharmacy.DeliveryCredentials, nil
}
