package comms

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/db/models"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
	pkgerrors "github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/errors"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/pagination"
)

// DebtorSource resolves a debtor within its pharmacy scope.
type DebtorSource interface {
	Get(ctx context.Context, pharmacyID, debtorID uuid.UUID) (*models.Debtor, error)
}

// CredentialSource supplies decrypted delivery credentials per pharmacy. The
// core hands them to the provider and never persists them.
type CredentialSource interface {
	DeliveryCredentials(ctx context.Context, pharmacyID uuid.UUID) ([]byte, error)
}

// SendRequest asks for one statement delivery to a debtor.
type SendRequest struct {
	Channel enums.Channel `json:"channel" validate:"required"`
	Message string        `json:"message" validate:"required"`
}

// ListResult is one page of delivery attempts, newest first.
type ListResult struct {
	Items []models.CommunicationLog `json:"items"`
	Meta  pagination.Meta           `json:"meta"`
}

// Service sends statements and serves delivery history.
type Service interface {
	SendStatement(ctx context.Context, pharmacyID, debtorID uuid.UUID, req SendRequest) (*models.CommunicationLog, error)
	History(ctx context.Context, pharmacyID, debtorID uuid.UUID, params pagination.Params) (*ListResult, error)
}

// ServiceParams wires communication dependencies.
type ServiceParams struct {
	Repo        Repository
	Provider    Provider
	Debtors     DebtorSource
	Credentials CredentialSource
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	provider    Provider
	debtors     DebtorSource
	credentials CredentialSource
	logg        *logger.Logger
}

// NewService validates and wires the communications service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("communication repository required")
	}
	if params.Provider == nil {
		return nil, errors.New("delivery provider required")
	}
	if params.Debtors == nil {
		return nil, errors.New("debtor source required")
	}
	if params.Credentials == nil {
		return nil, errors.New("credential source required")
	}
	return &service{
		repo:        params.Repo,
		provider:    params.Provider,
		debtors:     params.Debtors,
		credentials: params.Credentials,
		logg:        params.Logger,
	}, nil
}

// SendStatement delivers one message and appends the outcome to the log. A
// failed delivery is recorded data, not an API error: the caller gets the
// failed log row back.
func (s *service) SendStatement(ctx context.Context, pharmacyID, debtorID uuid.UUID, req SendRequest) (*models.CommunicationLog, error) {
	if !req.Channel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery channel")
	}
	if req.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	debtor, err := s.debtors.Get(ctx, pharmacyID, debtorID)
	if err != nil {
		return nil, err
	}

	recipient, err := recipientFor(debtor, req.Channel)
	if err != nil {
		return nil, err
	}

	credentials, err := s.credentials.DeliveryCredentials(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	outcome, sendErr := s.provider.Send(ctx, Delivery{
		Channel:     req.Channel,
		Recipient:   recipient,
		Message:     req.Message,
		Credentials: credentials,
	})
	if sendErr != nil {
		detail := sendErr.Error()
		outcome = Outcome{Status: enums.DeliveryStatusFailed, Error: &detail}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "debtor_id", debtorID.String()), "statement delivery failed")
		}
	}

	entry := &models.CommunicationLog{
		ID:          uuid.New(),
		DebtorID:    debtor.ID,
		Channel:     req.Channel,
		Status:      outcome.Status,
		ExternalID:  outcome.ExternalID,
		ErrorDetail: outcome.Error,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record delivery outcome")
	}
	return entry, nil
}

func (s *service) History(ctx context.Context, pharmacyID, debtorID uuid.UUID, params pagination.Params) (*ListResult, error) {
	// scope check before reading the log
	debtor, err := s.debtors.Get(ctx, pharmacyID, debtorID)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.repo.ListByDebtor(ctx, debtor.ID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list delivery attempts")
	}
	return &ListResult{Items: rows, Meta: pagination.NewMeta(params, total)}, nil
}

func recipientFor(debtor *models.Debtor, channel enums.Channel) (string, error) {
	switch channel {
	case enums.ChannelEmail:
		if debtor.Email == nil || *debtor.Email == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "debtor has no email address")
		}
		return *debtor.Email, nil
	case enums.ChannelSMS:
		if debtor.Phone == nil || *debtor.Phone == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "debtor has no phone number")
		}
		return *debtor.Phone, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery channel")
	}
}
