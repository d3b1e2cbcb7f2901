package comms

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/logger"
)

// LogProvider writes deliveries to the application log instead of a real
// gateway. It stands in for an SMS/email integration in environments where
// none is configured.
type LogProvider struct {
	logg *logger.Logger
}

func NewLogProvider(logg *logger.Logger) (*LogProvider, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &LogProvider{logg: logg}, nil
}

func (p *LogProvider) Send(ctx context.Context, delivery Delivery) (Outcome, error) {
	externalID := uuid.NewString()

	ctx = p.logg.WithFields(ctx, map[string]any{
		"channel":     string(delivery.Channel),
		"recipient":   delivery.Recipient,
		"external_id": externalID,
	})
	p.logg.Info(ctx, "statement delivery (log provider)")

	return Outcome{
		Status:     enums.DeliveryStatusSent,
		ExternalID: &externalID,
	}, nil
}

var _ Provider = (*LogProvider)(nil)
