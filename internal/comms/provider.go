package comms

import (
	"context"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
)

// Delivery is one outbound statement hand-off to a delivery provider. The
// credentials blob is the pharmacy's provider configuration, passed through
// opaque; the core never decodes or persists it.
type Delivery struct {
	Channel     enums.Channel
	Recipient   string
	Message     string
	Credentials []byte
}

// Outcome is what the provider reported. It lands in the communication log
// verbatim, whether the attempt succeeded or not.
type Outcome struct {
	Status     enums.DeliveryStatus
	ExternalID *string
	Error      *string
}

// Provider delivers statements over one or more channels. Implementations
// live outside the core.
type Provider interface {
	Send(ctx context.Context, delivery Delivery) (Outcome, error)
}
