package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Charldewet/pharmacy-api-webservice-sub001/pkg/enums"
)

// CommunicationLog stores one delivery attempt outcome per row. Rows are
// append-only and cascade-delete with their debtor.
type CommunicationLog struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DebtorID    uuid.UUID            `gorm:"column:debtor_id;type:uuid;not null;index"`
	Channel     enums.Channel        `gorm:"column:channel;type:comm_channel;not null"`
	Status      enums.DeliveryStatus `gorm:"column:status;type:delivery_status;not null"`
	ExternalID  *string              `gorm:"column:external_id"`
	ErrorDetail *string              `gorm:"column:error_detail"`
	CreatedAt   time.Time            `gorm:"column:created_at;type:timestamptz;default:now()"`
}
